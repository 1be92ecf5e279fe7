package llm

import (
	"context"
	"encoding/json"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
)

// ChatModelLLM adapts an eino chat model. The model has no native schema
// constraint, so structured calls carry the schema in a leading system message
// and rely on the caller's JSON parsing.
type ChatModelLLM struct {
	model einomodel.BaseChatModel
}

var _ contractx.LLM = (*ChatModelLLM)(nil)

func NewChatModelLLM(m einomodel.BaseChatModel) *ChatModelLLM {
	return &ChatModelLLM{model: m}
}

func (c *ChatModelLLM) Generate(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
	msg, err := c.model.Generate(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%w: chat model generate: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: chat model returned nil message", contractx.ErrSchemaViolation)
	}
	return msg, nil
}

func (c *ChatModelLLM) GenerateStructured(
	ctx context.Context,
	input []*schema.Message,
	format contractx.ResponseFormat,
) (*schema.Message, error) {
	raw, err := json.Marshal(format.Schema)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal response schema: %v", contractx.ErrValidation, err)
	}

	constrained := make([]*schema.Message, 0, len(input)+1)
	constrained = append(constrained, schema.SystemMessage(
		"Respond with a single JSON object only, no prose and no code fences. "+
			"It must conform to this JSON schema ("+format.Name+"): "+string(raw),
	))
	constrained = append(constrained, input...)

	return c.Generate(ctx, constrained)
}
