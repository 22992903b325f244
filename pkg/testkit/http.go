package testkit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Envelope mirrors the API response body.
type Envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// Request is one call against an http.Handler.
type Request struct {
	Method string
	Path   string
	Body   interface{}
	Token  string
}

// Do serves req through handler and returns the recorder plus the decoded
// envelope (zero when the body is not JSON).
func Do(t testing.TB, handler http.Handler, req Request) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()

	var body bytes.Buffer
	if req.Body != nil {
		if raw, ok := req.Body.(string); ok {
			body.WriteString(raw)
		} else if err := json.NewEncoder(&body).Encode(req.Body); err != nil {
			t.Fatalf("testkit: encode body: %v", err)
		}
	}

	r := httptest.NewRequest(req.Method, req.Path, &body)
	r.Header.Set("Content-Type", "application/json")
	if req.Token != "" {
		r.Header.Set("Authorization", "Bearer "+req.Token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)

	var env Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

// DecodeData unmarshals the envelope's data member into dest.
func DecodeData(t testing.TB, env Envelope, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("testkit: decode data %s: %v", string(env.Data), err)
	}
}
