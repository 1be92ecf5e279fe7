package specialist

import (
	"context"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
)

func compileClassifierGraph(
	ctx context.Context,
	llm contractx.LLM,
	systemPrompt string,
) (compose.Runnable[map[string]any, classifierLLMOutput], error) {
	runner, err := compileStructuredLLMGraph[classifierLLMOutput](
		ctx, llm, systemPrompt, classifierUserTemplate, classificationFormat, "classifier.structured_graph",
	)
	if err != nil {
		return nil, fmt.Errorf("compile classifier graph: %w", err)
	}
	return runner, nil
}

func compileReplyGraph(
	ctx context.Context,
	llm contractx.LLM,
	systemPrompt string,
) (compose.Runnable[map[string]any, string], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(replyUserTemplate),
	)

	graph := compose.NewGraph[map[string]any, string]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add reply prompt node: %w", err)
	}
	if err := graph.AddLambdaNode("model",
		compose.InvokableLambda(func(ctx context.Context, in []*schema.Message) (*schema.Message, error) {
			return llm.Generate(ctx, in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add reply model node: %w", err)
	}
	if err := graph.AddLambdaNode("extract_text",
		compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) (string, error) {
			if msg == nil || strings.TrimSpace(msg.Content) == "" {
				return "", fmt.Errorf("%w: reply is empty", contractx.ErrSchemaViolation)
			}
			return msg.Content, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add reply extract node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add reply edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add reply edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "extract_text"); err != nil {
		return nil, fmt.Errorf("add reply edge model->extract: %w", err)
	}
	if err := graph.AddEdge("extract_text", compose.END); err != nil {
		return nil, fmt.Errorf("add reply edge extract->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("reply.text_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile reply graph: %w", err)
	}
	return runner, nil
}

func compileStructuredLLMGraph[T any](
	ctx context.Context,
	llm contractx.LLM,
	systemPrompt string,
	userTemplate string,
	format contractx.ResponseFormat,
	graphName string,
) (compose.Runnable[map[string]any, T], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userTemplate),
	)

	parser := schema.NewMessageJSONParser[T](&schema.MessageJSONParseConfig{
		ParseFrom: schema.MessageParseFromContent,
	})

	graph := compose.NewGraph[map[string]any, T]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add structured prompt node: %w", err)
	}
	if err := graph.AddLambdaNode("model",
		compose.InvokableLambda(func(ctx context.Context, in []*schema.Message) (*schema.Message, error) {
			return llm.GenerateStructured(ctx, in, format)
		}),
	); err != nil {
		return nil, fmt.Errorf("add structured model node: %w", err)
	}
	if err := graph.AddLambdaNode("strip_fences",
		compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) (*schema.Message, error) {
			if msg == nil {
				return nil, fmt.Errorf("%w: empty structured response", contractx.ErrSchemaViolation)
			}
			out := *msg
			out.Content = stripCodeFence(msg.Content)
			return &out, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add structured fence node: %w", err)
	}
	if err := graph.AddLambdaNode("parse_json", compose.MessageParser(parser)); err != nil {
		return nil, fmt.Errorf("add structured parser node: %w", err)
	}

	edges := [][2]string{
		{compose.START, "prompt"},
		{"prompt", "model"},
		{"model", "strip_fences"},
		{"strip_fences", "parse_json"},
		{"parse_json", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add structured edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName(graphName))
	if err != nil {
		return nil, fmt.Errorf("compile structured graph: %w", err)
	}
	return runner, nil
}

// stripCodeFence unwraps ```json ... ``` blocks some chat models emit even when
// asked for bare JSON.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		trimmed = trimmed[nl+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
