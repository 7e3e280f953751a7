package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultOllamaURL is the default Ollama API endpoint.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultModel is the default analysis model.
	DefaultModel = "llama3.2"

	// DefaultTimeout is the timeout for analysis requests. Theme analysis
	// generates a few hundred tokens, so this is generous.
	DefaultTimeout = 2 * time.Minute

	// apiPathGenerate is the Ollama API endpoint for completions.
	apiPathGenerate = "/api/generate"

	// apiPathTags is the Ollama API endpoint for listing models.
	apiPathTags = "/api/tags"
)

// OllamaAnalyzer produces theme analyses using the Ollama API.
type OllamaAnalyzer struct {
	baseURL string
	model   string
	client  *http.Client
}

// OllamaOption configures an OllamaAnalyzer.
type OllamaOption func(*OllamaAnalyzer)

// WithBaseURL sets the Ollama API base URL.
func WithBaseURL(url string) OllamaOption {
	return func(a *OllamaAnalyzer) {
		a.baseURL = url
	}
}

// WithModel sets the analysis model.
func WithModel(model string) OllamaOption {
	return func(a *OllamaAnalyzer) {
		a.model = model
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) OllamaOption {
	return func(a *OllamaAnalyzer) {
		a.client.Timeout = timeout
	}
}

// NewOllamaAnalyzer creates a new Ollama theme analyzer.
func NewOllamaAnalyzer(opts ...OllamaOption) *OllamaAnalyzer {
	a := &OllamaAnalyzer{
		baseURL: DefaultOllamaURL,
		model:   DefaultModel,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ModelName returns the name of the analysis model.
func (a *OllamaAnalyzer) ModelName() string {
	return a.model
}

// Analyze identifies up to 5 literary themes for the given book. Network,
// HTTP and parse problems all surface as a single generic error; callers
// are expected to soft-fail.
func (a *OllamaAnalyzer) Analyze(ctx context.Context, title, author string) (Analysis, error) {
	reqBody := ollamaGenerateRequest{
		Model:  a.model,
		Prompt: buildAnalysisPrompt(title, author),
		Stream: false,
		Format: "json",
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return Analysis{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+apiPathGenerate, bytes.NewReader(body))
	if err != nil {
		return Analysis{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return Analysis{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Analysis{}, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, formatErrorBody(resp.Body))
	}

	var result ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Analysis{}, fmt.Errorf("decoding response: %w", err)
	}

	analysis, err := parseAnalysisResponse(result.Response)
	if err != nil {
		return Analysis{}, fmt.Errorf("parsing analysis: %w", err)
	}
	return analysis, nil
}

// IsAvailable checks if Ollama is running and accessible.
func (a *OllamaAnalyzer) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+apiPathTags, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama is not running: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}

// formatErrorBody reads and formats the response body for error messages.
func formatErrorBody(body io.Reader) string {
	respBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("(failed to read response body: %v)", err)
	}
	return string(respBody)
}

// ollamaGenerateRequest is the request body for the Ollama generate API.
type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

// ollamaGenerateResponse is the response from the Ollama generate API.
type ollamaGenerateResponse struct {
	Response string `json:"response"`
}
