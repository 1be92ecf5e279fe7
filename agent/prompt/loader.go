package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Support-Assistant/agent/contract"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/reply.txt
	replyRaw string
)

// PromptSet holds the system prompts. They are FString templates: {name}
// placeholders are filled per request.
type PromptSet struct {
	Classifier string
	Reply      string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Classifier: strings.TrimSpace(classifierRaw),
		Reply:      strings.TrimSpace(replyRaw),
	}
}

func (p PromptSet) Validate() error {
	if strings.TrimSpace(p.Classifier) == "" {
		return fmt.Errorf("%w: classifier prompt", contractx.ErrPromptMissing)
	}
	if strings.TrimSpace(p.Reply) == "" {
		return fmt.Errorf("%w: reply prompt", contractx.ErrPromptMissing)
	}
	return nil
}
