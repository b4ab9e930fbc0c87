package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hive-corporation/maec/maec"
)

func buildTestPackage(t *testing.T) *maec.Package {
	t.Helper()

	behavior, err := maec.NewBehavior("capture-keyboard-input").Build()
	if err != nil {
		t.Fatal(err)
	}
	capability, err := maec.NewCapability("spying").AddBehaviorRef(behavior.ID).Build()
	if err != nil {
		t.Fatal(err)
	}
	family, err := maec.NewMalwareFamily().
		Name(maec.NewName("AgentTesla")).
		AddLabel("keylogger").
		AddCommonCapability(*capability).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	pkg, err := maec.NewPackage().AddMalwareFamily(*family).AddBehavior(*behavior).Build()
	if err != nil {
		t.Fatal(err)
	}
	return pkg
}

func TestHealth(t *testing.T) {
	h := NewRestHandler(false)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	h.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", body["status"])
	}
	if body["service"] != "maec-api" {
		t.Errorf("service = %v, want maec-api", body["service"])
	}
}

func TestValidatePackageClean(t *testing.T) {
	pkg := buildTestPackage(t)
	data, err := maec.EncodeJSON(pkg)
	if err != nil {
		t.Fatal(err)
	}

	h := NewRestHandler(false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/packages/validate", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ValidatePackage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var body struct {
		Valid      bool   `json:"valid"`
		ID         string `json:"id"`
		IssueCount int    `json:"issue_count"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Valid || body.IssueCount != 0 {
		t.Errorf("valid = %v, issues = %d, want valid with 0 issues", body.Valid, body.IssueCount)
	}
	if body.ID != pkg.ID {
		t.Errorf("id = %q, want %q", body.ID, pkg.ID)
	}
}

func TestValidatePackageReportsDanglingRefs(t *testing.T) {
	capability, err := maec.NewCapability("persistence").
		AddBehaviorRef(maec.GenerateID(maec.TypeBehavior)).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	family, err := maec.NewMalwareFamily().
		Name(maec.NewName("Emotet")).
		AddCommonCapability(*capability).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	pkg, err := maec.NewPackage().AddMalwareFamily(*family).Build()
	if err != nil {
		t.Fatal(err)
	}
	data, err := maec.EncodeJSON(pkg)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		strict bool
		valid  bool
	}{
		{"advisory mode", false, true},
		{"strict mode", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRestHandler(tt.strict)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/packages/validate", bytes.NewReader(data))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			h.ValidatePackage(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
			}
			var body struct {
				Valid      bool `json:"valid"`
				IssueCount int  `json:"issue_count"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.IssueCount != 1 {
				t.Errorf("issue count = %d, want 1", body.IssueCount)
			}
			if body.Valid != tt.valid {
				t.Errorf("valid = %v, want %v", body.Valid, tt.valid)
			}
		})
	}
}

func TestValidatePackageDecodeError(t *testing.T) {
	doc := `{"type":"package","id":"` + maec.GenerateID(maec.TypePackage) + `",` +
		`"malware_instances":[{"type":"malware-instance","id":"` +
		maec.GenerateID(maec.TypeMalwareInstance) + `","instance_object_refs":[]}]}`

	h := NewRestHandler(false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/packages/validate", strings.NewReader(doc))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ValidatePackage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["field"] != "instance_object_refs" {
		t.Errorf("field = %q, want instance_object_refs", body["field"])
	}
}

func TestValidatePackageEmptyBody(t *testing.T) {
	h := NewRestHandler(false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/packages/validate", nil)
	rec := httptest.NewRecorder()

	h.ValidatePackage(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestConvertPackageJSONToXML(t *testing.T) {
	pkg := buildTestPackage(t)
	data, err := maec.EncodeJSON(pkg)
	if err != nil {
		t.Fatal(err)
	}

	h := NewRestHandler(false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/packages/convert?to=xml", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ConvertPackage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/xml") {
		t.Errorf("Content-Type = %q, want application/xml", ct)
	}
	roundTripped, err := maec.DecodeXML(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("converted output does not decode: %v", err)
	}
	if !pkg.Equal(roundTripped) {
		t.Error("conversion changed the package")
	}
}

func TestConvertPackageXMLToJSON(t *testing.T) {
	pkg := buildTestPackage(t)
	data, err := maec.EncodeXML(pkg)
	if err != nil {
		t.Fatal(err)
	}

	h := NewRestHandler(false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/packages/convert?to=json", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/xml")
	rec := httptest.NewRecorder()

	h.ConvertPackage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != maec.MediaTypeJSON {
		t.Errorf("Content-Type = %q, want %q", ct, maec.MediaTypeJSON)
	}
	roundTripped, err := maec.DecodeJSON(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("converted output does not decode: %v", err)
	}
	if !pkg.Equal(roundTripped) {
		t.Error("conversion changed the package")
	}
}

func TestConvertPackageRejectsUnknownTarget(t *testing.T) {
	h := NewRestHandler(false)
	for _, target := range []string{"", "yaml", "protobuf"} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/packages/convert?to="+target, strings.NewReader("{}"))
		rec := httptest.NewRecorder()

		h.ConvertPackage(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("to=%q: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestUnsupportedContentType(t *testing.T) {
	h := NewRestHandler(false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/packages/validate", strings.NewReader("key: value"))
	req.Header.Set("Content-Type", "application/yaml")
	rec := httptest.NewRecorder()

	h.ValidatePackage(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", rec.Code)
	}
}
