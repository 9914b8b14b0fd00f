package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ccastromar/gemcli/internal/logx"
	"github.com/ccastromar/gemcli/internal/metrics"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GenerationConfig tunes the model output. Nil pointers and zero values are
// omitted from the request.
type GenerationConfig struct {
	Temperature     *float64
	TopP            *float64
	MaxOutputTokens int
}

type GeminiClient struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client

	// Timeout bounds one call when positive. Zero leaves the HTTP client's
	// default in place, which for http.DefaultClient means no timeout at
	// all — a known limitation inherited from the upstream contract.
	Timeout time.Duration

	// Optional request extras.
	System    string
	GenConfig *GenerationConfig
}

// Compile-time interface conformance
var _ Client = (*GeminiClient)(nil)

func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &GeminiClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		HTTP:    http.DefaultClient,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type generateRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate sends the whole conversation and returns the first candidate's
// first part. Any missing field on that path is an error, never a panic.
func (c *GeminiClient) Generate(ctx context.Context, turns []Turn) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("gemini api key is empty")
	}
	if len(turns) == 0 {
		return "", fmt.Errorf("gemini: no turns to send")
	}

	body, err := json.Marshal(c.buildRequest(turns))
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	url := strings.TrimRight(c.BaseURL, "/") + "/models/" + c.Model + ":generateContent"
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	start := time.Now()
	tm := logx.Start(c.Model, "Gemini", "generateContent")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.GenCalls.Inc(map[string]string{"model": c.Model, "outcome": "error"})
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		metrics.GenCalls.Inc(map[string]string{"model": c.Model, "outcome": "error"})
		return "", fmt.Errorf("gemini generate failed: status %d, body: %s", resp.StatusCode, string(b))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		metrics.GenCalls.Inc(map[string]string{"model": c.Model, "outcome": "error"})
		return "", err
	}

	if len(result.Candidates) == 0 {
		metrics.GenCalls.Inc(map[string]string{"model": c.Model, "outcome": "error"})
		return "", fmt.Errorf("gemini: empty candidates")
	}
	parts := result.Candidates[0].Content.Parts
	if len(parts) == 0 {
		metrics.GenCalls.Inc(map[string]string{"model": c.Model, "outcome": "error"})
		return "", fmt.Errorf("gemini: candidate has no parts")
	}

	tm.End()
	metrics.GenCalls.Inc(map[string]string{"model": c.Model, "outcome": "ok"})
	metrics.GenDur.Observe(map[string]string{"model": c.Model, "outcome": "ok"}, time.Since(start).Seconds())
	return parts[0].Text, nil
}

func (c *GeminiClient) buildRequest(turns []Turn) generateRequest {
	contents := make([]geminiContent, 0, len(turns))
	for _, t := range turns {
		contents = append(contents, geminiContent{
			Role:  t.Role,
			Parts: []geminiPart{{Text: t.Text}},
		})
	}

	req := generateRequest{Contents: contents}
	if c.System != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: c.System}}}
	}
	if gc := c.GenConfig; gc != nil && (gc.Temperature != nil || gc.TopP != nil || gc.MaxOutputTokens > 0) {
		req.GenerationConfig = &geminiGenerationConfig{
			Temperature:     gc.Temperature,
			TopP:            gc.TopP,
			MaxOutputTokens: gc.MaxOutputTokens,
		}
	}
	return req
}
