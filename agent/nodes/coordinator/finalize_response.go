package coordinatornode

import (
	"fmt"

	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
)

func FinalizeResponse(in *GraphState) (contractx.Response, error) {
	if in == nil {
		return contractx.Response{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	return contractx.Response{
		Intent:  in.Classification.Intent,
		Urgency: in.Classification.Urgency,
		Reply:   in.Reply,
	}, nil
}
