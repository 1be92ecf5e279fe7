package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Support-Assistant/pkg/openrouter"
)

const (
	DriverOpenAI = "openai"
	DriverEino   = "eino"
)

type Config struct {
	Driver             string        `envconfig:"DRIVER" split_words:"true" default:"openai"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"google/gemini-2.5-flash"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	ClassifierModel       string  `envconfig:"CLASSIFIER_MODEL" split_words:"true"`
	ReplyModel            string  `envconfig:"REPLY_MODEL" split_words:"true"`
	ClassifierTemperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" split_words:"true" default:"-1"`
	ReplyTemperature      float32 `envconfig:"REPLY_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	switch c.driver() {
	case DriverOpenAI, DriverEino:
	default:
		return fmt.Errorf("%w: unsupported llm driver=%q", contractx.ErrValidation, c.Driver)
	}
	return nil
}

func (c Config) driver() string {
	d := strings.ToLower(strings.TrimSpace(c.Driver))
	if d == "" {
		return DriverOpenAI
	}
	return d
}

// EndpointFor resolves the endpoint one agent talks to, applying its model and
// temperature overrides.
func (c Config) EndpointFor(agentType contractx.AgentType) openrouterx.Endpoint {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeClassifier:
		if v := strings.TrimSpace(c.ClassifierModel); v != "" {
			modelName = v
		}
		if c.ClassifierTemperature >= 0 {
			temp = c.ClassifierTemperature
		}
	case contractx.AgentTypeReply:
		if v := strings.TrimSpace(c.ReplyModel); v != "" {
			modelName = v
		}
		if c.ReplyTemperature >= 0 {
			temp = c.ReplyTemperature
		}
	}

	return openrouterx.Endpoint{
		BaseURL:     strings.TrimSpace(c.BaseURL),
		APIKey:      strings.TrimSpace(c.APIKey),
		Model:       modelName,
		MaxTokens:   c.MaxCompletionToken,
		Temperature: temp,
		Timeout:     c.Timeout,
		SiteURL:     strings.TrimSpace(c.SiteURL),
		SiteName:    strings.TrimSpace(c.SiteName),
	}
}
