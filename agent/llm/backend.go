package llm

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Support-Assistant/pkg/openrouter"
)

// New builds the backend used by one agent, honoring the per-agent model and
// temperature overrides.
func New(ctx context.Context, cfg Config, agentType contractx.AgentType) (contractx.LLM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	endpoint := cfg.EndpointFor(agentType)
	switch cfg.driver() {
	case DriverEino:
		chatModel, err := openrouterx.NewChatModel(ctx, endpoint)
		if err != nil {
			return nil, fmt.Errorf("%w: create %s chat model: %v", contractx.ErrModelInvoke, agentType, err)
		}
		return NewChatModelLLM(chatModel), nil
	default:
		client, err := openrouterx.NewClient(endpoint)
		if err != nil {
			return nil, fmt.Errorf("%w: openai client for %s: %v", contractx.ErrValidation, agentType, err)
		}
		return NewOpenAILLM(client, endpoint), nil
	}
}
