package specialist

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	metricsx "github.com/tanpawarit/Chative-Support-Assistant/pkg/metrics"
)

const replyUserTemplate = "{message}"

type replierImpl struct {
	runner  compose.Runnable[map[string]any, string]
	logger  zerolog.Logger
	metrics *metricsx.Metrics
}

func newReplier(ctx context.Context, llm contractx.LLM, systemPrompt string, opts ...Option) (*replierImpl, error) {
	if llm == nil {
		return nil, fmt.Errorf("%w: reply backend is required", contractx.ErrValidation)
	}
	runner, err := compileReplyGraph(ctx, llm, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile reply graph: %v", contractx.ErrModelInvoke, err)
	}
	o := newOptions(opts)
	return &replierImpl{
		runner:  runner,
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

// CreateReply returns the model text verbatim, or FallbackReply when the call fails.
func (r *replierImpl) CreateReply(ctx context.Context, req contractx.ReplyRequest) string {
	start := time.Now()
	reply, err := r.createReply(ctx, req)
	r.metrics.ObserveModelCall(string(contractx.AgentTypeReply), time.Since(start), err)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("agent", string(contractx.AgentTypeReply)).
			Str("intent", string(req.Classification.Intent)).
			Msg("reply generation failed, using fallback")
		return contractx.FallbackReply
	}
	return reply
}

func (r *replierImpl) createReply(ctx context.Context, req contractx.ReplyRequest) (string, error) {
	reply, err := r.runner.Invoke(ctx, map[string]any{
		"message": req.Message,
		"intent":  string(req.Classification.Intent),
		"urgency": string(req.Classification.Urgency),
		"context": req.Context,
	})
	if err != nil {
		return "", fmt.Errorf("%w: reply invoke: %v", contractx.ErrModelInvoke, err)
	}
	return reply, nil
}
