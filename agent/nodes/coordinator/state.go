package coordinatornode

import (
	"errors"
	"time"

	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
)

var ErrInvalidMessage = errors.New("message is empty")

type GraphInput struct {
	Text string
}

type GraphState struct {
	Text       string
	ReceivedAt time.Time

	Classification contractx.Classification
	Context        string
	Reply          string
}

func PrepareRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	return &GraphState{
		Text:       in.Text,
		ReceivedAt: nowFn().UTC(),
	}, nil
}
