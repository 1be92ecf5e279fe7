package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/tanpawarit/Chative-Support-Assistant/agent/agents/coordinator"
	"github.com/tanpawarit/Chative-Support-Assistant/agent/agents/specialist"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	llmx "github.com/tanpawarit/Chative-Support-Assistant/agent/llm"
	memoryx "github.com/tanpawarit/Chative-Support-Assistant/agent/memory"
	"github.com/tanpawarit/Chative-Support-Assistant/agent/session"
	configx "github.com/tanpawarit/Chative-Support-Assistant/pkg/config"
	metricsx "github.com/tanpawarit/Chative-Support-Assistant/pkg/metrics"
)

const metricsNamespace = "chative"

type app struct {
	models   contractx.Registry
	memory   memoryx.Config
	session  session.Config
	registry *prometheus.Registry
	metrics  *metricsx.Metrics
}

// newApp loads configuration and builds the shared model registry. A missing
// LLM_API_KEY fails here, before any conversation exists.
func newApp(ctx context.Context) (*app, error) {
	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, fmt.Errorf("load llm config: %w", err)
	}
	memCfg, err := configx.New[memoryx.Config]("MEMORY")
	if err != nil {
		return nil, fmt.Errorf("load memory config: %w", err)
	}
	sessCfg, err := configx.New[session.Config]("SESSION")
	if err != nil {
		return nil, fmt.Errorf("load session config: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metricsx.New(metricsNamespace, reg)

	models, err := specialist.NewRegistry(ctx, *llmCfg, specialist.WithMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("build model registry: %w", err)
	}

	return newAppFromRegistry(models, *memCfg, *sessCfg, reg, m), nil
}

func newAppFromRegistry(
	models contractx.Registry,
	memCfg memoryx.Config,
	sessCfg session.Config,
	reg *prometheus.Registry,
	m *metricsx.Metrics,
) *app {
	return &app{
		models:   models,
		memory:   memCfg,
		session:  sessCfg,
		registry: reg,
		metrics:  m,
	}
}

// newCoordinator starts a fresh conversation over the shared registry.
func (a *app) newCoordinator() (*coordinator.Coordinator, error) {
	return coordinator.New(a.models, memoryx.NewFromConfig(a.memory), coordinator.WithMetrics(a.metrics))
}

func (a *app) newSessionManager() *session.Manager {
	return session.NewManager(a.newCoordinator, a.session.IdleTimeout, session.WithMetrics(a.metrics))
}
