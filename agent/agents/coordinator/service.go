package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	memoryx "github.com/tanpawarit/Chative-Support-Assistant/agent/memory"
	nodex "github.com/tanpawarit/Chative-Support-Assistant/agent/nodes/coordinator"
	metricsx "github.com/tanpawarit/Chative-Support-Assistant/pkg/metrics"
)

var ErrInvalidMessage = nodex.ErrInvalidMessage

type Option func(*Coordinator)

func WithMetrics(m *metricsx.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

// Coordinator runs one conversation: each Ask classifies the message, replies
// with the recent history as context and records both turns. Ask calls on the
// same Coordinator are serialized.
type Coordinator struct {
	models contractx.Registry
	memory contractx.ConversationMemory

	metrics *metricsx.Metrics

	mu          sync.Mutex
	graphRunner compose.Runnable[nodex.GraphInput, contractx.Response]

	now func() time.Time
}

func New(models contractx.Registry, memory contractx.ConversationMemory, opts ...Option) (*Coordinator, error) {
	if models == nil {
		return nil, errors.New("model registry is required")
	}
	if models.Classifier() == nil || models.Replier() == nil {
		return nil, errors.New("model registry must provide classifier and replier")
	}
	if memory == nil {
		memory = memoryx.New()
	}

	c := &Coordinator{
		models: models,
		memory: memory,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	graphRunner, err := c.compileAskGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

// Ask answers one user message. Only an empty message is rejected; backend
// failures come back as a degraded but well-formed Response.
//
// Once the user turn is recorded the pipeline always runs to the agent turn:
// the graph ignores cancellation of ctx, which only reaches the backend calls
// so they can fall back early.
func (c *Coordinator) Ask(ctx context.Context, message string) (contractx.Response, error) {
	if message == "" {
		return contractx.Response{}, ErrInvalidMessage
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	resp, err := c.graphRunner.Invoke(withCaller(ctx), nodex.GraphInput{Text: message})
	if err != nil {
		return contractx.Response{}, err
	}

	c.metrics.ObserveRequest(string(resp.Intent), string(resp.Urgency))
	return resp, nil
}

type callerKey struct{}

func withCaller(ctx context.Context) context.Context {
	return context.WithValue(context.WithoutCancel(ctx), callerKey{}, ctx)
}

// callerContext recovers the cancellable context Ask was called with.
func callerContext(ctx context.Context) context.Context {
	if caller, ok := ctx.Value(callerKey{}).(context.Context); ok {
		return caller
	}
	return ctx
}
