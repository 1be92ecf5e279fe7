package coordinatornode

import (
	"context"
	"errors"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
)

type recordingMemory struct {
	roles    []contractx.Role
	contents []string
	context  string
}

func (r *recordingMemory) Add(role contractx.Role, content string) {
	r.roles = append(r.roles, role)
	r.contents = append(r.contents, content)
}

func (r *recordingMemory) Context() string {
	return r.context
}

type staticClassifier struct {
	out contractx.Classification
}

func (s staticClassifier) Classify(context.Context, string) contractx.Classification {
	return s.out
}

type capturingReplier struct {
	got   contractx.ReplyRequest
	reply string
}

func (c *capturingReplier) CreateReply(_ context.Context, req contractx.ReplyRequest) string {
	c.got = req
	return c.reply
}

func TestPrepareRequestKeepsTextVerbatim(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("x", 3600))
	st, err := PrepareRequest(GraphInput{Text: "  hi  "}, func() time.Time { return now })
	if err != nil {
		t.Fatalf("PrepareRequest() error = %v", err)
	}
	if st.Text != "  hi  " {
		t.Fatalf("Text = %q", st.Text)
	}
	if st.ReceivedAt.Location() != time.UTC {
		t.Fatalf("ReceivedAt must be UTC, got %v", st.ReceivedAt)
	}
}

func TestPipelineNodes(t *testing.T) {
	t.Parallel()

	mem := &recordingMemory{context: "user: where is my refund?"}
	replier := &capturingReplier{reply: "Please share your order ID."}
	classification := contractx.Classification{Intent: contractx.IntentRefund, Urgency: contractx.UrgencyHigh}

	st := &GraphState{Text: "where is my refund?"}
	st, _ = AppendUserTurn(st, mem)
	st, _ = Classify(context.Background(), st, staticClassifier{out: classification})
	st, _ = ReadContext(st, mem)
	st, _ = CreateReply(context.Background(), st, replier)
	st, _ = AppendAgentTurn(st, mem)

	resp, err := FinalizeResponse(st)
	if err != nil {
		t.Fatalf("FinalizeResponse() error = %v", err)
	}
	want := contractx.Response{Intent: contractx.IntentRefund, Urgency: contractx.UrgencyHigh, Reply: "Please share your order ID."}
	if resp != want {
		t.Fatalf("FinalizeResponse() = %#v, want %#v", resp, want)
	}

	if len(mem.roles) != 2 || mem.roles[0] != contractx.RoleUser || mem.roles[1] != contractx.RoleAgent {
		t.Fatalf("unexpected memory writes: %#v", mem.roles)
	}
	if mem.contents[1] != "Please share your order ID." {
		t.Fatalf("agent turn = %q", mem.contents[1])
	}
	if replier.got.Context != "user: where is my refund?" || replier.got.Classification != classification {
		t.Fatalf("unexpected reply request: %#v", replier.got)
	}
}

func TestNodesRejectNilState(t *testing.T) {
	t.Parallel()

	mem := &recordingMemory{}
	if _, err := AppendUserTurn(nil, mem); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("AppendUserTurn(nil) error = %v", err)
	}
	if _, err := ReadContext(nil, mem); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("ReadContext(nil) error = %v", err)
	}
	if _, err := FinalizeResponse(nil); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("FinalizeResponse(nil) error = %v", err)
	}
	if len(mem.roles) != 0 {
		t.Fatalf("memory must not be touched, got %#v", mem.roles)
	}
}
