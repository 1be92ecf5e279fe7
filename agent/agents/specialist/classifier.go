package specialist

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	metricsx "github.com/tanpawarit/Chative-Support-Assistant/pkg/metrics"
)

const classifierUserTemplate = `Message: "{message}"`

var classificationFormat = contractx.ResponseFormat{
	Name:        "support_message_classification",
	Description: "Intent and urgency of a customer-support message.",
	Schema: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"intent":  map[string]any{"type": "string"},
			"urgency": map[string]any{"type": "string"},
		},
		"required":             []string{"intent", "urgency"},
		"additionalProperties": false,
	},
}

type classifierImpl struct {
	runner  compose.Runnable[map[string]any, classifierLLMOutput]
	logger  zerolog.Logger
	metrics *metricsx.Metrics
}

type classifierLLMOutput struct {
	Intent  string `json:"intent"`
	Urgency string `json:"urgency"`
}

func newClassifier(ctx context.Context, llm contractx.LLM, systemPrompt string, opts ...Option) (*classifierImpl, error) {
	if llm == nil {
		return nil, fmt.Errorf("%w: classifier backend is required", contractx.ErrValidation)
	}
	runner, err := compileClassifierGraph(ctx, llm, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile classifier graph: %v", contractx.ErrModelInvoke, err)
	}
	o := newOptions(opts)
	return &classifierImpl{
		runner:  runner,
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

// Classify never fails: any backend or parsing problem is logged and turned
// into the (error, low) fallback so the reply stage still runs.
func (c *classifierImpl) Classify(ctx context.Context, message string) contractx.Classification {
	start := time.Now()
	out, err := c.classify(ctx, message)
	c.metrics.ObserveModelCall(string(contractx.AgentTypeClassifier), time.Since(start), err)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("agent", string(contractx.AgentTypeClassifier)).
			Msg("intent classification failed, using fallback")
		return contractx.FallbackClassification()
	}
	return out
}

func (c *classifierImpl) classify(ctx context.Context, message string) (contractx.Classification, error) {
	out, err := c.runner.Invoke(ctx, map[string]any{
		"message": message,
	})
	if err != nil {
		return contractx.Classification{}, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrModelInvoke, err)
	}

	rawIntent := strings.TrimSpace(out.Intent)
	rawUrgency := strings.TrimSpace(out.Urgency)
	if rawIntent == "" || rawUrgency == "" {
		return contractx.Classification{}, fmt.Errorf("%w: intent and urgency are required", contractx.ErrSchemaViolation)
	}

	intent, ok := contractx.ParseIntent(rawIntent)
	if !ok {
		c.logger.Warn().Str("raw_intent", rawIntent).Msg("unrecognized intent from model")
	}
	urgency, ok := contractx.ParseUrgency(rawUrgency)
	if !ok {
		c.logger.Warn().Str("raw_urgency", rawUrgency).Msg("unrecognized urgency from model")
	}

	return contractx.Classification{Intent: intent, Urgency: urgency}, nil
}
