package gemini

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	RegisterHandlers(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func TestGenerateContent_EchoesLastUserTurn(t *testing.T) {
	ts := newTestServer(t)

	body := `{"contents":[
		{"role":"user","parts":[{"text":"first"}]},
		{"role":"model","parts":[{"text":"second"}]},
		{"role":"user","parts":[{"text":"third"}]}
	]}`
	resp, err := http.Post(ts.URL+"/v1beta/models/gemini-2.5-flash:generateContent", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Candidates) != 1 || len(out.Candidates[0].Content.Parts) != 1 {
		t.Fatalf("unexpected payload shape: %+v", out)
	}
	if got := out.Candidates[0].Content.Parts[0].Text; got != "echo: third" {
		t.Fatalf("unexpected echo: %q", got)
	}
}

func TestGenerateContent_RejectsGet(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1beta/models/m:generateContent")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGenerateContent_EmptyContents(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/v1beta/models/m:generateContent", "application/json", bytes.NewBufferString(`{"contents":[]}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
