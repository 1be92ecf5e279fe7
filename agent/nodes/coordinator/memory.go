package coordinatornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
)

func AppendUserTurn(in *GraphState, memory contractx.ConversationMemory) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	memory.Add(contractx.RoleUser, in.Text)
	return in, nil
}

// ReadContext runs after AppendUserTurn, so the rendered context already ends
// with the message being answered.
func ReadContext(in *GraphState, memory contractx.ConversationMemory) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Context = memory.Context()
	return in, nil
}

func AppendAgentTurn(in *GraphState, memory contractx.ConversationMemory) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	memory.Add(contractx.RoleAgent, in.Reply)
	return in, nil
}
