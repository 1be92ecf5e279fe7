// Package openrouter builds clients for an OpenAI-compatible chat endpoint,
// OpenRouter by default. Values come from the LLM_* config, one Endpoint per
// agent.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Models that reject reasoning output unless it is excluded explicitly.
var reasoningExcluded = map[string]bool{
	"x-ai/grok-4.1-fast": true,
}

// Endpoint is one model on one OpenAI-compatible base URL. A negative
// Temperature leaves the provider default; MaxTokens <= 0 sends no limit.
type Endpoint struct {
	BaseURL     string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	SiteURL     string
	SiteName    string
}

func (e Endpoint) Validate() error {
	if strings.TrimSpace(e.APIKey) == "" {
		return errors.New("openrouter: api key is required")
	}
	if strings.TrimSpace(e.Model) == "" {
		return errors.New("openrouter: model is required")
	}
	return nil
}

// Headers are the OpenRouter attribution headers; empty values are omitted.
func (e Endpoint) Headers() map[string]string {
	h := map[string]string{}
	if v := strings.TrimSpace(e.SiteURL); v != "" {
		h["HTTP-Referer"] = v
	}
	if v := strings.TrimSpace(e.SiteName); v != "" {
		h["X-Title"] = v
	}
	return h
}

func (e Endpoint) baseURL() string {
	return strings.TrimRight(strings.TrimSpace(e.BaseURL), "/")
}

// NewClient creates an openai-go client for the endpoint. Retries are
// disabled: every request is a single attempt.
func NewClient(e Endpoint) (*openaisdk.Client, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(e.APIKey)),
		option.WithMaxRetries(0),
	}
	if base := e.baseURL(); base != "" {
		opts = append(opts, option.WithBaseURL(base+"/"))
	}
	for k, v := range e.Headers() {
		opts = append(opts, option.WithHeader(k, v))
	}

	client := openaisdk.NewClient(opts...)
	return &client, nil
}

// NewChatModel builds an eino chat model for the endpoint. Attribution headers
// are added by the HTTP transport since the eino config has no header option.
func NewChatModel(ctx context.Context, e Endpoint) (model.ToolCallingChatModel, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	modelName := strings.TrimSpace(e.Model)
	conf := &openaimodel.ChatModelConfig{
		BaseURL: e.baseURL(),
		APIKey:  strings.TrimSpace(e.APIKey),
		Model:   modelName,
		HTTPClient: &http.Client{
			Timeout:   e.Timeout,
			Transport: headerTransport{headers: e.Headers(), next: http.DefaultTransport},
		},
	}
	if e.MaxTokens > 0 {
		maxTokens := e.MaxTokens
		conf.MaxTokens = &maxTokens
	}
	if e.Temperature >= 0 {
		temperature := e.Temperature
		conf.Temperature = &temperature
	}
	if reasoningExcluded[modelName] {
		conf.ExtraFields = map[string]any{
			"reasoning": map[string]any{
				"exclude": true,
				"effort":  "none",
			},
		}
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("openrouter: create chat model: %w", err)
	}
	return m, nil
}

type headerTransport struct {
	headers map[string]string
	next    http.RoundTripper
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.next.RoundTrip(req)
}
