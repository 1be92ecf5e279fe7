package coordinatornode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
)

func Classify(ctx context.Context, in *GraphState, classifier contractx.Classifier) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Classification = classifier.Classify(ctx, in.Text)
	return in, nil
}

func CreateReply(ctx context.Context, in *GraphState, replier contractx.Replier) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Reply = replier.CreateReply(ctx, contractx.ReplyRequest{
		Message:        in.Text,
		Classification: in.Classification,
		Context:        in.Context,
	})
	return in, nil
}
