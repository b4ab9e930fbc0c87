package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/hive-corporation/maec/maec"
)

// MaxPackageBytes caps request bodies; MAEC packages with embedded
// observables can get large but anything past this is abuse.
const MaxPackageBytes = 32 << 20

type RestHandler struct {
	strict bool
}

// NewRestHandler builds the package API handler. In strict mode any
// dangling reference makes validation fail instead of being advisory.
func NewRestHandler(strict bool) *RestHandler {
	return &RestHandler{strict: strict}
}

// Health check endpoint
func (h *RestHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "maec-api",
	}
	writeJSON(w, http.StatusOK, response)
}

// ValidatePackage - decode a package, run structural validation and
// reference resolution, and report the findings
func (h *RestHandler) ValidatePackage(w http.ResponseWriter, r *http.Request) {
	timer := StartTimer("validate")
	defer timer.ObserveDuration()

	body, format, ok := readPackageBody(w, r)
	if !ok {
		RecordValidate("bad_request")
		return
	}

	pkg, err := decodePackage(format, body)
	if err != nil {
		RecordValidate("decode_error")
		writeDecodeError(w, err)
		return
	}

	if err := pkg.Validate(); err != nil {
		RecordValidate("invalid")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	issues := maec.ResolveRefs(pkg)
	RecordRefIssues(len(issues))

	valid := !h.strict || len(issues) == 0
	if valid {
		RecordValidate("valid")
	} else {
		RecordValidate("invalid")
	}

	response := map[string]interface{}{
		"valid":       valid,
		"id":          pkg.ID,
		"issue_count": len(issues),
		"issues":      issueList(issues),
	}
	writeJSON(w, http.StatusOK, response)
}

// ConvertPackage - decode a package from one encoding and re-emit it in
// the other. Target format comes from the 'to' query parameter.
func (h *RestHandler) ConvertPackage(w http.ResponseWriter, r *http.Request) {
	timer := StartTimer("convert")
	defer timer.ObserveDuration()

	to := r.URL.Query().Get("to")
	if to != "json" && to != "xml" {
		RecordConvert("", to, "bad_request")
		writeError(w, http.StatusBadRequest, "missing or unsupported 'to' parameter (use 'json' or 'xml')")
		return
	}

	body, from, ok := readPackageBody(w, r)
	if !ok {
		RecordConvert(from, to, "bad_request")
		return
	}

	pkg, err := decodePackage(from, body)
	if err != nil {
		RecordConvert(from, to, "decode_error")
		writeDecodeError(w, err)
		return
	}

	var out []byte
	var contentType string
	switch to {
	case "xml":
		out, err = maec.EncodeXML(pkg)
		contentType = "application/xml; charset=utf-8"
	case "json":
		out, err = maec.EncodeJSON(pkg)
		contentType = maec.MediaTypeJSON
	}
	if err != nil {
		RecordConvert(from, to, "encode_error")
		writeError(w, http.StatusInternalServerError, "failed to encode package")
		return
	}

	RecordConvert(from, to, "success")
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		log.Printf("Error writing converted package: %v", err)
	}
}

// Helper functions

// readPackageBody slurps the request body and works out which codec to
// use from the Content-Type. Reports its own HTTP errors; the bool
// result says whether the caller should proceed.
func readPackageBody(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	format := "json"
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed Content-Type header")
			return nil, "", false
		}
		switch {
		case mediaType == "application/xml", mediaType == "text/xml":
			format = "xml"
		case mediaType == "application/json",
			strings.HasPrefix(mediaType, "application/maec+json"):
			format = "json"
		default:
			writeError(w, http.StatusUnsupportedMediaType, "unsupported Content-Type (use JSON or XML)")
			return nil, "", false
		}
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxPackageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, format, false
	}
	if len(body) > MaxPackageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "package exceeds size limit")
		return nil, format, false
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty request body")
		return nil, format, false
	}
	return body, format, true
}

func decodePackage(format string, body []byte) (*maec.Package, error) {
	if format == "xml" {
		return maec.DecodeXML(body)
	}
	return maec.DecodeJSON(body)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	detail := map[string]string{"error": err.Error()}
	var derr *maec.DecodeError
	if errors.As(err, &derr) {
		if derr.Entity != "" {
			detail["entity"] = derr.Entity
		}
		if derr.Field != "" {
			detail["field"] = derr.Field
		}
	}
	writeJSON(w, http.StatusBadRequest, detail)
}

func issueList(issues []maec.RefIssue) []map[string]interface{} {
	out := make([]map[string]interface{}, len(issues))
	for i, issue := range issues {
		out[i] = map[string]interface{}{
			"source_id": issue.SourceID,
			"field":     issue.Field,
			"ref":       issue.Ref,
			"missing":   issue.Missing,
			"detail":    issue.String(),
		}
		if issue.Expected != "" {
			out[i]["expected_type"] = issue.Expected
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
