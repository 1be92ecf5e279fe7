package prompt

import (
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	prompts := LoadPromptSet()
	if err := prompts.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for _, intent := range contractx.ClassifiableIntents {
		if !strings.Contains(prompts.Classifier, "'"+string(intent)+"'") {
			t.Fatalf("classifier prompt does not list intent %q", intent)
		}
	}
	for _, placeholder := range []string{"{intent}", "{urgency}", "{context}"} {
		if !strings.Contains(prompts.Reply, placeholder) {
			t.Fatalf("reply prompt missing placeholder %s", placeholder)
		}
	}
}

func TestPromptSetValidateMissing(t *testing.T) {
	t.Parallel()

	err := PromptSet{Classifier: "x"}.Validate()
	if !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}
