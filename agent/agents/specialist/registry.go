package specialist

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	llmx "github.com/tanpawarit/Chative-Support-Assistant/agent/llm"
	promptx "github.com/tanpawarit/Chative-Support-Assistant/agent/prompt"
)

type registryImpl struct {
	classifier contractx.Classifier
	replier    contractx.Replier
}

func (r *registryImpl) Classifier() contractx.Classifier {
	return r.classifier
}

func (r *registryImpl) Replier() contractx.Replier {
	return r.replier
}

func NewRegistry(ctx context.Context, cfg llmx.Config, opts ...Option) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	classifierLLM, err := llmx.New(ctx, cfg, contractx.AgentTypeClassifier)
	if err != nil {
		return nil, fmt.Errorf("create classifier backend: %w", err)
	}
	replyLLM, err := llmx.New(ctx, cfg, contractx.AgentTypeReply)
	if err != nil {
		return nil, fmt.Errorf("create reply backend: %w", err)
	}

	return NewRegistryFromLLM(ctx, classifierLLM, replyLLM, promptx.LoadPromptSet(), opts...)
}

// NewRegistryFromLLM wires both agents over already-built backends. The same
// backend may be passed twice.
func NewRegistryFromLLM(
	ctx context.Context,
	classifierLLM contractx.LLM,
	replyLLM contractx.LLM,
	prompts promptx.PromptSet,
	opts ...Option,
) (contractx.Registry, error) {
	if err := prompts.Validate(); err != nil {
		return nil, err
	}

	classifier, err := newClassifier(ctx, classifierLLM, prompts.Classifier, opts...)
	if err != nil {
		return nil, err
	}
	replier, err := newReplier(ctx, replyLLM, prompts.Reply, opts...)
	if err != nil {
		return nil, err
	}

	return &registryImpl{
		classifier: classifier,
		replier:    replier,
	}, nil
}
