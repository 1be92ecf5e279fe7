package contract

import "strings"

type AgentType string

const (
	AgentTypeClassifier AgentType = "classifier"
	AgentTypeReply      AgentType = "reply"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

type Intent string

const (
	IntentRefund       Intent = "refund"
	IntentCancellation Intent = "cancellation"
	IntentBilling      Intent = "billing"
	IntentGeneralHelp  Intent = "general_help"
	IntentGeneral      Intent = "general"
	IntentError        Intent = "error"
	IntentUnknown      Intent = "unknown"
)

// ClassifiableIntents are the categories the model is asked to choose from.
var ClassifiableIntents = []Intent{
	IntentRefund,
	IntentCancellation,
	IntentBilling,
	IntentGeneralHelp,
	IntentGeneral,
}

type Urgency string

const (
	UrgencyLow     Urgency = "low"
	UrgencyMedium  Urgency = "medium"
	UrgencyHigh    Urgency = "high"
	UrgencyUnknown Urgency = "unknown"
)

var ClassifiableUrgencies = []Urgency{
	UrgencyLow,
	UrgencyMedium,
	UrgencyHigh,
}

// ParseIntent maps a backend-supplied label onto Intent. "error" is reserved for
// the classifier fallback, so a model that answers with it gets IntentUnknown.
func ParseIntent(raw string) (Intent, bool) {
	label := normalizeLabel(raw)
	for _, it := range ClassifiableIntents {
		if string(it) == label {
			return it, true
		}
	}
	return IntentUnknown, false
}

func ParseUrgency(raw string) (Urgency, bool) {
	label := normalizeLabel(raw)
	for _, u := range ClassifiableUrgencies {
		if string(u) == label {
			return u, true
		}
	}
	return UrgencyUnknown, false
}

func normalizeLabel(raw string) string {
	label := strings.ToLower(strings.TrimSpace(raw))
	label = strings.Trim(label, `"'.`)
	return strings.NewReplacer(" ", "_", "-", "_").Replace(label)
}

type Classification struct {
	Intent  Intent  `json:"intent"`
	Urgency Urgency `json:"urgency"`
}

// FallbackClassification is returned when the classifier backend call fails.
func FallbackClassification() Classification {
	return Classification{Intent: IntentError, Urgency: UrgencyLow}
}

const FallbackReply = "Sorry, I am having trouble connecting to my services right now."

type ReplyRequest struct {
	Message        string         `json:"message"`
	Classification Classification `json:"classification"`
	Context        string         `json:"context"`
}

type Response struct {
	Intent  Intent  `json:"intent"`
	Urgency Urgency `json:"urgency"`
	Reply   string  `json:"reply"`
}

// ResponseFormat constrains a structured generation to a JSON schema.
type ResponseFormat struct {
	Name        string
	Description string
	Schema      map[string]any
}
