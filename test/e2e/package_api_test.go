package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/hive-corporation/maec/internal/adapter/handler"
	"github.com/hive-corporation/maec/maec"
)

func newTestServer(t *testing.T, strict bool) *httptest.Server {
	t.Helper()

	restHandler := handler.NewRestHandler(strict)
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/health", restHandler.Health).Methods("GET")
	router.HandleFunc("/api/v1/packages/validate", restHandler.ValidatePackage).Methods("POST")
	router.HandleFunc("/api/v1/packages/convert", restHandler.ConvertPackage).Methods("POST")

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func buildScenarioPackage(t *testing.T) *maec.Package {
	t.Helper()

	behavior, err := maec.NewBehavior("capture-keyboard-input").
		AddTechniqueRef(maec.AttackTechnique("T1056.001", "Keylogging")).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	capability, err := maec.NewCapability("data-theft").AddBehaviorRef(behavior.ID).Build()
	if err != nil {
		t.Fatal(err)
	}
	family, err := maec.NewMalwareFamily().
		Name(maec.NewName("AgentTesla").WithConfidence("high")).
		AddLabel("keylogger").
		AddCommonCapability(*capability).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	instance, err := maec.NewMalwareInstance().AddObjectRef("0").Build()
	if err != nil {
		t.Fatal(err)
	}
	pkg, err := maec.NewPackage().
		AddMalwareFamily(*family).
		AddMalwareInstance(*instance).
		AddBehavior(*behavior).
		AddObservableObject("0", json.RawMessage(`{"type":"file","name":"invoice.exe"}`)).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return pkg
}

// Full workflow: validate a package over HTTP, convert it to XML, convert the
// XML back to JSON and check nothing was lost along the way.
func TestPackageAPIWorkflow(t *testing.T) {
	srv := newTestServer(t, false)
	pkg := buildScenarioPackage(t)

	jsonBytes, err := maec.EncodeJSON(pkg)
	if err != nil {
		t.Fatal(err)
	}

	// 1. Validate
	resp, err := http.Post(srv.URL+"/api/v1/packages/validate", "application/json", bytes.NewReader(jsonBytes))
	if err != nil {
		t.Fatal(err)
	}
	var verdict struct {
		Valid      bool `json:"valid"`
		IssueCount int  `json:"issue_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !verdict.Valid || verdict.IssueCount != 0 {
		t.Fatalf("validate: status=%d verdict=%+v", resp.StatusCode, verdict)
	}

	// 2. Convert JSON -> XML
	resp, err = http.Post(srv.URL+"/api/v1/packages/convert?to=xml", "application/json", bytes.NewReader(jsonBytes))
	if err != nil {
		t.Fatal(err)
	}
	xmlBytes, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("convert to xml: status=%d body=%s", resp.StatusCode, xmlBytes)
	}

	// 3. Convert XML -> JSON
	resp, err = http.Post(srv.URL+"/api/v1/packages/convert?to=json", "application/xml", bytes.NewReader(xmlBytes))
	if err != nil {
		t.Fatal(err)
	}
	backBytes, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("convert to json: status=%d body=%s", resp.StatusCode, backBytes)
	}

	back, err := maec.DecodeJSON(backBytes)
	if err != nil {
		t.Fatalf("final decode: %v", err)
	}
	if !pkg.Equal(back) {
		t.Error("package changed crossing validate/convert round trip")
	}
}

func TestPackageAPIHealth(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPackageAPIStrictModeFailsDanglingRefs(t *testing.T) {
	srv := newTestServer(t, true)

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

	resp, err := http.Post(srv.URL+"/api/v1/packages/validate", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var verdict struct {
		Valid      bool `json:"valid"`
		IssueCount int  `json:"issue_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		t.Fatal(err)
	}
	if verdict.Valid || verdict.IssueCount != 1 {
		t.Errorf("strict verdict = %+v, want invalid with 1 issue", verdict)
	}
}

func TestPackageAPIRejectsMalformedBody(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Post(srv.URL+"/api/v1/packages/validate", "application/json", strings.NewReader(`{"type":`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	// Error responses must not leak internals, just the decode failure
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var errBody map[string]string
	if err := json.Unmarshal(body, &errBody); err != nil {
		t.Fatalf("error body is not JSON: %s", body)
	}
	if errBody["error"] == "" {
		t.Error("error body missing 'error' field")
	}
}

func TestPackageAPIRejectsOversizedBody(t *testing.T) {
	srv := newTestServer(t, false)

	huge := bytes.Repeat([]byte("x"), handler.MaxPackageBytes+1)
	resp, err := http.Post(srv.URL+"/api/v1/packages/validate", "application/json", bytes.NewReader(huge))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}
