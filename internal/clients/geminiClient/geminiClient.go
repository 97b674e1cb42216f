package geminiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/RobsonDevCode/firmscan/internal/clients/models"
	geminimodels "github.com/RobsonDevCode/firmscan/internal/clients/models/gemini"
	"github.com/RobsonDevCode/firmscan/internal/configuration"
	"github.com/sony/gobreaker"
)

type GeminiClientService interface {
	GenerateStructured(prompt string, schema map[string]interface{}, ctx context.Context) (string, error)
}

type GeminiClient struct {
	client  *http.Client
	cb      *gobreaker.CircuitBreaker
	baseUrl *url.URL
	apiKey  *string
	model   string
}

func NewGeminiClient(config *configuration.Config) (*GeminiClient, error) {
	client := &http.Client{
		Timeout: 3 * time.Minute,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	cbSettings := gobreaker.Settings{
		Name:        "gemini-client",
		MaxRequests: 5,
		Interval:    3 * time.Second,
		Timeout:     20 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			fmt.Printf("Circuit breaker state changed from %v to %v\n", from, to)
		},
	}

	baseUrl, err := url.Parse(config.GeminiClientSettings.BaseUrl)
	if err != nil {
		return nil, fmt.Errorf("error parsing base url to a url type, %w", err)
	}
	cb := gobreaker.NewCircuitBreaker(cbSettings)

	return &GeminiClient{
		client:  client,
		cb:      cb,
		baseUrl: baseUrl,
		apiKey:  &config.GeminiClientSettings.ApiKey,
		model:   config.GeminiClientSettings.Model,
	}, nil
}

// GenerateStructured sends one generate call asking for json that conforms to
// the given response schema and returns the raw candidate text, parsing is
// the callers job.
func (c *GeminiClient) GenerateStructured(prompt string, schema map[string]interface{}, ctx context.Context) (string, error) {
	generateRequest := geminimodels.GenerateContentRequest{
		Contents: []geminimodels.Content{
			{Parts: []geminimodels.Part{{Text: prompt}}},
		},
		GenerationConfig: geminimodels.GenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
			Temperature:      0.1,
		},
	}

	payload, err := json.Marshal(generateRequest)
	if err != nil {
		return "", fmt.Errorf("error marshalling generate content request: %w", err)
	}

	requestUrl := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseUrl, c.model)

	cbResult, err := c.cb.Execute(func() (interface{}, error) {
		request, err := http.NewRequestWithContext(ctx, http.MethodPost, requestUrl, bytes.NewBuffer(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create http request: %w", err)
		}

		request.Header.Set("Content-Type", "application/json")
		request.Header.Set("x-goog-api-key", *c.apiKey)

		response, err := c.client.Do(request)
		if err != nil {
			return nil, fmt.Errorf("client response error: %w", err)
		}
		defer response.Body.Close()

		if response.StatusCode < 200 || response.StatusCode > 299 {
			return nil, &models.RequestFailedError{StatusCode: response.StatusCode, Url: requestUrl}
		}

		var result geminimodels.GenerateContentResponse
		if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("error decoding generate content response: %w", err)
		}

		return result, nil
	})
	if err != nil {
		return "", err
	}

	result, ok := cbResult.(geminimodels.GenerateContentResponse)
	if !ok {
		return "", fmt.Errorf("unexpected response type when converting response")
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generate content response has no candidates")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
