package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// LLM is the language-model capability shared by the classifier and the reply generator.
type LLM interface {
	Generate(ctx context.Context, input []*schema.Message) (*schema.Message, error)
	GenerateStructured(ctx context.Context, input []*schema.Message, format ResponseFormat) (*schema.Message, error)
}

// Classifier never fails; backend problems surface as FallbackClassification.
type Classifier interface {
	Classify(ctx context.Context, message string) Classification
}

// Replier never fails; backend problems surface as FallbackReply.
type Replier interface {
	CreateReply(ctx context.Context, req ReplyRequest) string
}

type Registry interface {
	Classifier() Classifier
	Replier() Replier
}

type ConversationMemory interface {
	Add(role Role, content string)
	Context() string
}
