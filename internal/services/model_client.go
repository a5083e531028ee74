package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
	"github.com/lingobridge/lingobridge-backend/internal/utils"
)

// ModelClient generates a chatbot reply for a prompt.
type ModelClient interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

type inferenceClient struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiToken   string
}

func NewInferenceClient(log *logger.Logger) (ModelClient, error) {
	serviceLog := log.With("service", "InferenceClient")

	baseURL := strings.TrimRight(utils.GetEnv("INFERENCE_API_URL", "https://api-inference.huggingface.co/models", log), "/")
	apiToken := utils.GetEnv("INFERENCE_API_TOKEN", "", log)
	timeoutSeconds := utils.GetEnvAsInt("INFERENCE_TIMEOUT_SECONDS", 30, log)

	return &inferenceClient{
		log:        serviceLog,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSeconds) * time.Second},
		baseURL:    baseURL,
		apiToken:   apiToken,
	}, nil
}

func (ic *inferenceClient) Generate(ctx context.Context, model, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{"inputs": prompt})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	url := ic.baseURL + "/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if ic.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+ic.apiToken)
	}

	resp, err := ic.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference call returned status %d", resp.StatusCode)
	}

	var parsed []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode inference response: %w", err)
	}
	if len(parsed) == 0 || strings.TrimSpace(parsed[0].GeneratedText) == "" {
		return "", fmt.Errorf("empty response from language model")
	}
	return parsed[0].GeneratedText, nil
}
