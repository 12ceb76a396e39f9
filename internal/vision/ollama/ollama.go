package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/go-resty/resty/v2"

	"github.com/vbonduro/staycheck/internal/vision"
)

type OllamaAnalyzer struct {
	model  string
	client *resty.Client
}

func NewOllamaAnalyzer(host, model string) *OllamaAnalyzer {
	return &OllamaAnalyzer{
		model:  model,
		client: resty.New().SetBaseURL(host).SetHeader("Content-Type", "application/json"),
	}
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Images []string `json:"images"`
	Stream bool     `json:"stream"`
	Format string   `json:"format"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (a *OllamaAnalyzer) Analyze(ctx context.Context, r io.Reader, _ string, req vision.Request) (*vision.AnalysisResult, error) {
	imageData, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	var out generateResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(generateRequest{
			Model:  a.model,
			Prompt: vision.BuildPrompt(req),
			Images: []string{base64.StdEncoding.EncodeToString(imageData)},
			Stream: false,
			Format: "json",
		}).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("ollama returned status %d: %s", resp.StatusCode(), resp.String())
	}

	return vision.NewResult(out.Response)
}
