package maec

import (
	"encoding/json"
	"encoding/xml"
	"sort"
	"time"
)

// The XML encoding. MAEC 5.0 leaves XML conventions underspecified, so this
// codec fixes one: each entity is an element named by its type token,
// identifiers ride as attributes, scalar fields are child elements, and
// collections are repeated child elements (<label>, <behavior-ref>, ...).
// Observable payloads are carried verbatim as escaped JSON text under
// <observable-object key="...">. The codec is an independent adapter over
// the model; equivalence with the native encoding is enforced by tests, not
// by shared parser state.

type xmlPackage struct {
	XMLName       xml.Name          `xml:"package"`
	ID            string            `xml:"id,attr"`
	SchemaVersion string            `xml:"schema-version,attr,omitempty"`
	Created       string            `xml:"created,omitempty"`
	Modified      string            `xml:"modified,omitempty"`
	Families      []xmlFamily       `xml:"malware-family,omitempty"`
	Instances     []xmlInstance     `xml:"malware-instance,omitempty"`
	Behaviors     []xmlBehavior     `xml:"behavior,omitempty"`
	Collections   []xmlCollection   `xml:"collection,omitempty"`
	Relationships []xmlRelationship `xml:"relationship,omitempty"`
	Observables   []xmlObservable   `xml:"observable-object,omitempty"`
}

type xmlObservable struct {
	Key     string `xml:"key,attr"`
	Payload string `xml:",chardata"`
}

type xmlName struct {
	Value      string                `xml:"value"`
	Source     *xmlExternalReference `xml:"source,omitempty"`
	Confidence string                `xml:"confidence,omitempty"`
}

type xmlExternalReference struct {
	SourceName  string `xml:"source-name"`
	Description string `xml:"description,omitempty"`
	URL         string `xml:"url,omitempty"`
	ExternalID  string `xml:"external-id,omitempty"`
}

type xmlFieldData struct {
	DeliveryVectors []string `xml:"delivery-vector,omitempty"`
	FirstSeen       string   `xml:"first-seen,omitempty"`
	LastSeen        string   `xml:"last-seen,omitempty"`
}

type xmlCapability struct {
	ID           string                 `xml:"id,attr"`
	Name         string                 `xml:"name"`
	Description  string                 `xml:"description,omitempty"`
	BehaviorRefs []string               `xml:"behavior-ref,omitempty"`
	Refined      []xmlCapability        `xml:"refined-capability,omitempty"`
	References   []xmlExternalReference `xml:"reference,omitempty"`
}

type xmlFamily struct {
	ID          string          `xml:"id,attr"`
	Name        *xmlName        `xml:"name,omitempty"`
	Description string          `xml:"description,omitempty"`
	Labels      []string        `xml:"label,omitempty"`
	Aliases     []xmlName       `xml:"alias,omitempty"`
	Common      []xmlCapability `xml:"common-capability,omitempty"`
	FieldData   *xmlFieldData   `xml:"field-data,omitempty"`
}

type xmlInstance struct {
	ID          string        `xml:"id,attr"`
	ObjectRefs  []string      `xml:"instance-object-ref,omitempty"`
	Name        *xmlName      `xml:"name,omitempty"`
	Labels      []string      `xml:"label,omitempty"`
	Description string        `xml:"description,omitempty"`
	FieldData   *xmlFieldData `xml:"field-data,omitempty"`
}

type xmlBehavior struct {
	ID            string                 `xml:"id,attr"`
	Created       string                 `xml:"created,omitempty"`
	Modified      string                 `xml:"modified,omitempty"`
	Name          string                 `xml:"name"`
	Description   string                 `xml:"description,omitempty"`
	Timestamp     string                 `xml:"timestamp,omitempty"`
	TechniqueRefs []xmlExternalReference `xml:"technique-ref,omitempty"`
}

type xmlCollection struct {
	ID          string   `xml:"id,attr"`
	Created     string   `xml:"created,omitempty"`
	Modified    string   `xml:"modified,omitempty"`
	Name        string   `xml:"name,omitempty"`
	Description string   `xml:"description,omitempty"`
	Association string   `xml:"association-type,omitempty"`
	RefList     []string `xml:"ref,omitempty"`
}

type xmlRelationship struct {
	ID               string `xml:"id,attr"`
	Created          string `xml:"created,omitempty"`
	Modified         string `xml:"modified,omitempty"`
	SourceRef        string `xml:"source-ref"`
	TargetRef        string `xml:"target-ref"`
	RelationshipType string `xml:"relationship-type"`
	Description      string `xml:"description,omitempty"`
}

// EncodeXML serializes a package to the XML element encoding.
func EncodeXML(p *Package) ([]byte, error) {
	doc := xmlPackage{
		ID:            p.ID,
		SchemaVersion: p.SchemaVersion,
		Created:       fmtTime(p.Created),
		Modified:      fmtTime(p.Modified),
	}
	for _, f := range p.MalwareFamilies {
		doc.Families = append(doc.Families, xmlFamily{
			ID:          f.ID,
			Name:        xmlNameOf(f.Name),
			Description: f.Description,
			Labels:      vocabStrings(f.Labels),
			Aliases:     xmlNames(f.Aliases),
			Common:      xmlCapabilities(f.CommonCapabilities),
			FieldData:   xmlFieldDataOf(f.FieldData),
		})
	}
	for _, i := range p.MalwareInstances {
		doc.Instances = append(doc.Instances, xmlInstance{
			ID:          i.ID,
			ObjectRefs:  i.InstanceObjectRefs,
			Name:        xmlNamePtr(i.Name),
			Labels:      vocabStrings(i.Labels),
			Description: i.Description,
			FieldData:   xmlFieldDataOf(i.FieldData),
		})
	}
	for _, b := range p.Behaviors {
		doc.Behaviors = append(doc.Behaviors, xmlBehavior{
			ID:            b.ID,
			Created:       fmtTime(b.Created),
			Modified:      fmtTime(b.Modified),
			Name:          b.Name.String(),
			Description:   b.Description,
			Timestamp:     fmtTimePtr(b.Timestamp),
			TechniqueRefs: xmlExternalReferences(b.TechniqueRefs),
		})
	}
	for _, c := range p.Collections {
		doc.Collections = append(doc.Collections, xmlCollection{
			ID:          c.ID,
			Created:     fmtTime(c.Created),
			Modified:    fmtTime(c.Modified),
			Name:        c.Name,
			Description: c.Description,
			Association: c.Association.String(),
			RefList:     c.RefList,
		})
	}
	for _, r := range p.Relationships {
		doc.Relationships = append(doc.Relationships, xmlRelationship{
			ID:               r.ID,
			Created:          fmtTime(r.Created),
			Modified:         fmtTime(r.Modified),
			SourceRef:        r.SourceRef,
			TargetRef:        r.TargetRef,
			RelationshipType: r.RelationshipType.String(),
			Description:      r.Description,
		})
	}
	for _, key := range sortedKeys(p.ObservableObjects) {
		doc.Observables = append(doc.Observables, xmlObservable{
			Key:     key,
			Payload: string(p.ObservableObjects[key]),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

// DecodeXML parses the XML element encoding into a Package, failing with
// *DecodeError when the bytes are malformed or a required field is absent.
// Unknown elements and attributes are ignored for forward compatibility.
func DecodeXML(data []byte) (*Package, error) {
	var doc xmlPackage
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Format: "xml", Err: err}
	}
	return packageFromXML(doc)
}

func packageFromXML(doc xmlPackage) (*Package, error) {
	if doc.ID == "" {
		return nil, xmlDecodeErr(TypePackage, "id", missingField(TypePackage, "id"))
	}
	if !MatchesType(doc.ID, TypePackage) {
		return nil, xmlDecodeErr(TypePackage, "id", &InvalidIdentifierError{ID: doc.ID, Reason: "not a package identifier"})
	}
	version := doc.SchemaVersion
	if version == "" {
		version = SchemaVersion
	}
	created, err := parseXMLTime(TypePackage, "created", doc.Created)
	if err != nil {
		return nil, err
	}
	modified, err := parseXMLTime(TypePackage, "modified", doc.Modified)
	if err != nil {
		return nil, err
	}

	p := &Package{
		ID:            doc.ID,
		SchemaVersion: version,
		Created:       created,
		Modified:      modified,
	}
	if len(doc.Observables) > 0 {
		p.ObservableObjects = make(map[string]json.RawMessage, len(doc.Observables))
		for _, obs := range doc.Observables {
			if obs.Key == "" {
				return nil, xmlDecodeErr(TypePackage, "observable-object.key",
					missingField(TypePackage, "observable-object.key"))
			}
			p.ObservableObjects[obs.Key] = json.RawMessage(obs.Payload)
		}
	}

	for _, xf := range doc.Families {
		f, err := familyFromXML(xf)
		if err != nil {
			return nil, err
		}
		p.MalwareFamilies = append(p.MalwareFamilies, *f)
	}
	for _, xi := range doc.Instances {
		i, err := instanceFromXML(xi)
		if err != nil {
			return nil, err
		}
		p.MalwareInstances = append(p.MalwareInstances, *i)
	}
	for _, xb := range doc.Behaviors {
		b, err := behaviorFromXML(xb)
		if err != nil {
			return nil, err
		}
		p.Behaviors = append(p.Behaviors, *b)
	}
	for _, xc := range doc.Collections {
		c, err := collectionFromXML(xc)
		if err != nil {
			return nil, err
		}
		p.Collections = append(p.Collections, *c)
	}
	for _, xr := range doc.Relationships {
		r, err := relationshipFromXML(xr)
		if err != nil {
			return nil, err
		}
		p.Relationships = append(p.Relationships, *r)
	}
	return p, nil
}

func familyFromXML(xf xmlFamily) (*MalwareFamily, error) {
	if err := checkXMLID(xf.ID, TypeMalwareFamily); err != nil {
		return nil, err
	}
	if xf.Name == nil || xf.Name.Value == "" {
		return nil, xmlDecodeErr(TypeMalwareFamily, "name", missingField(TypeMalwareFamily, "name"))
	}
	caps, err := capabilitiesFromXML(xf.Common)
	if err != nil {
		return nil, err
	}
	fd, err := fieldDataFromXML(TypeMalwareFamily, xf.FieldData)
	if err != nil {
		return nil, err
	}
	return &MalwareFamily{
		ID:                 xf.ID,
		Name:               nameFromXML(*xf.Name),
		Description:        xf.Description,
		Labels:             vocabsOf(MalwareLabelVocab, xf.Labels),
		Aliases:            namesFromXML(xf.Aliases),
		CommonCapabilities: caps,
		FieldData:          fd,
	}, nil
}

func instanceFromXML(xi xmlInstance) (*MalwareInstance, error) {
	if err := checkXMLID(xi.ID, TypeMalwareInstance); err != nil {
		return nil, err
	}
	if len(xi.ObjectRefs) == 0 {
		return nil, xmlDecodeErr(TypeMalwareInstance, "instance_object_refs",
			missingField(TypeMalwareInstance, "instance_object_refs"))
	}
	fd, err := fieldDataFromXML(TypeMalwareInstance, xi.FieldData)
	if err != nil {
		return nil, err
	}
	var name *Name
	if xi.Name != nil {
		n := nameFromXML(*xi.Name)
		name = &n
	}
	return &MalwareInstance{
		ID:                 xi.ID,
		InstanceObjectRefs: xi.ObjectRefs,
		Name:               name,
		Labels:             vocabsOf(MalwareLabelVocab, xi.Labels),
		Description:        xi.Description,
		FieldData:          fd,
	}, nil
}

func behaviorFromXML(xb xmlBehavior) (*Behavior, error) {
	if err := checkXMLID(xb.ID, TypeBehavior); err != nil {
		return nil, err
	}
	if xb.Name == "" {
		return nil, xmlDecodeErr(TypeBehavior, "name", missingField(TypeBehavior, "name"))
	}
	created, err := parseXMLTime(TypeBehavior, "created", xb.Created)
	if err != nil {
		return nil, err
	}
	modified, err := parseXMLTime(TypeBehavior, "modified", xb.Modified)
	if err != nil {
		return nil, err
	}
	observed, err := parseXMLTimePtr(TypeBehavior, "timestamp", xb.Timestamp)
	if err != nil {
		return nil, err
	}
	return &Behavior{
		ID:            xb.ID,
		Created:       created,
		Modified:      modified,
		Name:          BehaviorVocab.From(xb.Name),
		Description:   xb.Description,
		Timestamp:     observed,
		TechniqueRefs: externalReferencesFromXML(xb.TechniqueRefs),
	}, nil
}

func collectionFromXML(xc xmlCollection) (*Collection, error) {
	if err := checkXMLID(xc.ID, TypeCollection); err != nil {
		return nil, err
	}
	created, err := parseXMLTime(TypeCollection, "created", xc.Created)
	if err != nil {
		return nil, err
	}
	modified, err := parseXMLTime(TypeCollection, "modified", xc.Modified)
	if err != nil {
		return nil, err
	}
	return &Collection{
		ID:          xc.ID,
		Created:     created,
		Modified:    modified,
		Name:        xc.Name,
		Description: xc.Description,
		Association: EntityAssociationVocab.From(xc.Association),
		RefList:     xc.RefList,
	}, nil
}

func relationshipFromXML(xr xmlRelationship) (*Relationship, error) {
	if err := checkXMLID(xr.ID, TypeRelationship); err != nil {
		return nil, err
	}
	if xr.SourceRef == "" {
		return nil, xmlDecodeErr(TypeRelationship, "source_ref", missingField(TypeRelationship, "source_ref"))
	}
	if xr.TargetRef == "" {
		return nil, xmlDecodeErr(TypeRelationship, "target_ref", missingField(TypeRelationship, "target_ref"))
	}
	if xr.RelationshipType == "" {
		return nil, xmlDecodeErr(TypeRelationship, "relationship_type", missingField(TypeRelationship, "relationship_type"))
	}
	created, err := parseXMLTime(TypeRelationship, "created", xr.Created)
	if err != nil {
		return nil, err
	}
	modified, err := parseXMLTime(TypeRelationship, "modified", xr.Modified)
	if err != nil {
		return nil, err
	}
	return &Relationship{
		ID:               xr.ID,
		Created:          created,
		Modified:         modified,
		SourceRef:        xr.SourceRef,
		TargetRef:        xr.TargetRef,
		RelationshipType: RelationshipTypeVocab.From(xr.RelationshipType),
		Description:      xr.Description,
	}, nil
}

func capabilitiesFromXML(in []xmlCapability) ([]Capability, error) {
	var out []Capability
	for _, xc := range in {
		if err := checkXMLID(xc.ID, TypeCapability); err != nil {
			return nil, err
		}
		if xc.Name == "" {
			return nil, xmlDecodeErr(TypeCapability, "name", missingField(TypeCapability, "name"))
		}
		refined, err := capabilitiesFromXML(xc.Refined)
		if err != nil {
			return nil, err
		}
		out = append(out, Capability{
			ID:                  xc.ID,
			Name:                CapabilityVocab.From(xc.Name),
			Description:         xc.Description,
			BehaviorRefs:        xc.BehaviorRefs,
			RefinedCapabilities: refined,
			References:          externalReferencesFromXML(xc.References),
		})
	}
	return out, nil
}

func fieldDataFromXML(entity string, xf *xmlFieldData) (*FieldData, error) {
	if xf == nil {
		return nil, nil
	}
	first, err := parseXMLTimePtr(entity, "field_data.first_seen", xf.FirstSeen)
	if err != nil {
		return nil, err
	}
	last, err := parseXMLTimePtr(entity, "field_data.last_seen", xf.LastSeen)
	if err != nil {
		return nil, err
	}
	return &FieldData{
		DeliveryVectors: vocabsOf(DeliveryVectorVocab, xf.DeliveryVectors),
		FirstSeen:       first,
		LastSeen:        last,
	}, nil
}

func nameFromXML(xn xmlName) Name {
	n := Name{Value: xn.Value}
	if xn.Source != nil {
		src := externalReferenceFromXML(*xn.Source)
		n.Source = &src
	}
	if xn.Confidence != "" {
		n.Confidence = ConfidenceVocab.From(xn.Confidence)
	}
	return n
}

func namesFromXML(in []xmlName) []Name {
	var out []Name
	for _, xn := range in {
		out = append(out, nameFromXML(xn))
	}
	return out
}

func externalReferenceFromXML(xr xmlExternalReference) ExternalReference {
	return ExternalReference{
		SourceName:  xr.SourceName,
		Description: xr.Description,
		URL:         xr.URL,
		ExternalID:  xr.ExternalID,
	}
}

func externalReferencesFromXML(in []xmlExternalReference) []ExternalReference {
	var out []ExternalReference
	for _, xr := range in {
		out = append(out, externalReferenceFromXML(xr))
	}
	return out
}

// encode-side helpers

func xmlNameOf(n Name) *xmlName {
	xn := xmlName{
		Value:      n.Value,
		Confidence: n.Confidence.String(),
	}
	if n.Source != nil {
		src := xmlExternalReferenceOf(*n.Source)
		xn.Source = &src
	}
	return &xn
}

func xmlNamePtr(n *Name) *xmlName {
	if n == nil {
		return nil
	}
	return xmlNameOf(*n)
}

func xmlNames(in []Name) []xmlName {
	var out []xmlName
	for _, n := range in {
		out = append(out, *xmlNameOf(n))
	}
	return out
}

func xmlExternalReferenceOf(r ExternalReference) xmlExternalReference {
	return xmlExternalReference{
		SourceName:  r.SourceName,
		Description: r.Description,
		URL:         r.URL,
		ExternalID:  r.ExternalID,
	}
}

func xmlExternalReferences(in []ExternalReference) []xmlExternalReference {
	var out []xmlExternalReference
	for _, r := range in {
		out = append(out, xmlExternalReferenceOf(r))
	}
	return out
}

func xmlCapabilities(in []Capability) []xmlCapability {
	var out []xmlCapability
	for _, c := range in {
		out = append(out, xmlCapability{
			ID:           c.ID,
			Name:         c.Name.String(),
			Description:  c.Description,
			BehaviorRefs: c.BehaviorRefs,
			Refined:      xmlCapabilities(c.RefinedCapabilities),
			References:   xmlExternalReferences(c.References),
		})
	}
	return out
}

func xmlFieldDataOf(fd *FieldData) *xmlFieldData {
	if fd == nil {
		return nil
	}
	return &xmlFieldData{
		DeliveryVectors: vocabStrings(fd.DeliveryVectors),
		FirstSeen:       fmtTimePtr(fd.FirstSeen),
		LastSeen:        fmtTimePtr(fd.LastSeen),
	}
}

func parseXMLTime(entity, field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, xmlDecodeErr(entity, field, err)
	}
	return t.UTC(), nil
}

func parseXMLTimePtr(entity, field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseXMLTime(entity, field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func checkXMLID(id, typeName string) error {
	if id == "" {
		return xmlDecodeErr(typeName, "id", missingField(typeName, "id"))
	}
	if !MatchesType(id, typeName) {
		return xmlDecodeErr(typeName, "id", &InvalidIdentifierError{ID: id, Reason: "type token does not match " + typeName})
	}
	return nil
}

func xmlDecodeErr(entity, field string, err error) *DecodeError {
	return &DecodeError{Format: "xml", Entity: entity, Field: field, Err: err}
}

func sortedKeys(m map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

