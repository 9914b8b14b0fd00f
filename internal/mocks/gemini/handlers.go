package gemini

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ccastromar/gemcli/internal/logx"
	"github.com/ccastromar/gemcli/internal/metrics"
)

// RegisterHandlers mounts a fake generateContent endpoint that echoes the
// last user turn back in a well-formed candidates payload.
func RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/v1beta/models/", generateContent)
}

type generateRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
}

func generateContent(w http.ResponseWriter, r *http.Request) {
	logx.Info("Mock", "URL: %s", r.URL.String())

	if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, ":generateContent") {
		metrics.MockRequests.Inc(map[string]string{"path": r.URL.Path, "status": "404"})
		http.NotFound(w, r)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Contents) == 0 {
		metrics.MockRequests.Inc(map[string]string{"path": r.URL.Path, "status": "400"})
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	last := req.Contents[len(req.Contents)-1]
	text := ""
	if len(last.Parts) > 0 {
		text = last.Parts[0].Text
	}

	resp := map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"role": "model",
					"parts": []map[string]any{
						{"text": "echo: " + text},
					},
				},
			},
		},
	}
	metrics.MockRequests.Inc(map[string]string{"path": r.URL.Path, "status": "200"})
	_ = json.NewEncoder(w).Encode(resp)
}
