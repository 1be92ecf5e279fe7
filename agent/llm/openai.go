package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Support-Assistant/pkg/openrouter"
)

// OpenAILLM talks to an OpenAI-compatible chat completions endpoint and uses
// the native json_schema response format for structured generation.
type OpenAILLM struct {
	client      *openaisdk.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

var _ contractx.LLM = (*OpenAILLM)(nil)

func NewOpenAILLM(client *openaisdk.Client, endpoint openrouterx.Endpoint) *OpenAILLM {
	return &OpenAILLM{
		client:      client,
		model:       strings.TrimSpace(endpoint.Model),
		temperature: endpoint.Temperature,
		maxTokens:   endpoint.MaxTokens,
		timeout:     endpoint.Timeout,
	}
}

func (o *OpenAILLM) Generate(ctx context.Context, input []*schema.Message) (*schema.Message, error) {
	return o.complete(ctx, input, nil)
}

func (o *OpenAILLM) GenerateStructured(
	ctx context.Context,
	input []*schema.Message,
	format contractx.ResponseFormat,
) (*schema.Message, error) {
	if strings.TrimSpace(format.Name) == "" || len(format.Schema) == 0 {
		return nil, fmt.Errorf("%w: response format requires name and schema", contractx.ErrValidation)
	}

	jsonSchema := openaisdk.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   format.Name,
		Schema: format.Schema,
		Strict: openaisdk.Bool(true),
	}
	if format.Description != "" {
		jsonSchema.Description = openaisdk.String(format.Description)
	}

	return o.complete(ctx, input, &openaisdk.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openaisdk.ResponseFormatJSONSchemaParam{JSONSchema: jsonSchema},
	})
}

func (o *OpenAILLM) complete(
	ctx context.Context,
	input []*schema.Message,
	format *openaisdk.ChatCompletionNewParamsResponseFormatUnion,
) (*schema.Message, error) {
	messages, err := toOpenAIMessages(input)
	if err != nil {
		return nil, err
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	params := openaisdk.ChatCompletionNewParams{
		Model:    openaisdk.ChatModel(o.model),
		Messages: messages,
	}
	if o.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(o.maxTokens))
	}
	if o.temperature >= 0 {
		params.Temperature = openaisdk.Float(float64(o.temperature))
	}
	if format != nil {
		params.ResponseFormat = *format
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%w: chat completion model=%s: %v", contractx.ErrModelInvoke, o.model, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: chat completion returned no choices", contractx.ErrSchemaViolation)
	}

	return schema.AssistantMessage(resp.Choices[0].Message.Content, nil), nil
}

func toOpenAIMessages(input []*schema.Message) ([]openaisdk.ChatCompletionMessageParamUnion, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("%w: no messages to send", contractx.ErrValidation)
	}

	out := make([]openaisdk.ChatCompletionMessageParamUnion, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			out = append(out, openaisdk.SystemMessage(msg.Content))
		case schema.Assistant:
			out = append(out, openaisdk.AssistantMessage(msg.Content))
		case schema.User:
			out = append(out, openaisdk.UserMessage(msg.Content))
		default:
			return nil, fmt.Errorf("%w: unsupported message role=%s", contractx.ErrValidation, msg.Role)
		}
	}
	return out, nil
}
