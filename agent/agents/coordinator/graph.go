package coordinator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
	nodex "github.com/tanpawarit/Chative-Support-Assistant/agent/nodes/coordinator"
)

func (c *Coordinator) compileAskGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, contractx.Response], error) {
	graph := compose.NewGraph[nodex.GraphInput, contractx.Response]()

	if err := graph.AddLambdaNode("prepare_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.PrepareRequest(in, c.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node prepare_request: %w", err)
	}

	if err := graph.AddLambdaNode("append_user_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AppendUserTurn(in, c.memory)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_user_turn: %w", err)
	}

	if err := graph.AddLambdaNode("classify",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Classify(callerContext(ctx), in, c.models.Classifier())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify: %w", err)
	}

	if err := graph.AddLambdaNode("read_context",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ReadContext(in, c.memory)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node read_context: %w", err)
	}

	if err := graph.AddLambdaNode("create_reply",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.CreateReply(callerContext(ctx), in, c.models.Replier())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node create_reply: %w", err)
	}

	if err := graph.AddLambdaNode("append_agent_turn",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AppendAgentTurn(in, c.memory)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_agent_turn: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_response",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (contractx.Response, error) {
			resp, err := nodex.FinalizeResponse(in)
			if err != nil {
				return resp, err
			}
			elapsed := c.now().Sub(in.ReceivedAt)
			c.metrics.ObserveRequestLatency(elapsed)
			log.Debug().
				Str("intent", string(resp.Intent)).
				Str("urgency", string(resp.Urgency)).
				Dur("elapsed", elapsed).
				Msg("ask completed")
			return resp, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_response: %w", err)
	}

	edges := [][2]string{
		{compose.START, "prepare_request"},
		{"prepare_request", "append_user_turn"},
		{"append_user_turn", "classify"},
		{"classify", "read_context"},
		{"read_context", "create_reply"},
		{"create_reply", "append_agent_turn"},
		{"append_agent_turn", "finalize_response"},
		{"finalize_response", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("coordinator.ask"))
	if err != nil {
		return nil, fmt.Errorf("compile coordinator graph: %w", err)
	}
	return runner, nil
}
