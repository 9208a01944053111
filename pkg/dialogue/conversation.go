package dialogue

import (
	"time"

	"github.com/google/uuid"

	"sahayata-hq/ceres/pkg/inference"
)

// Stage is the phase of a conversation.
type Stage string

const (
	// StageGreeting is the opening turn before any question is asked.
	StageGreeting Stage = "greeting"

	// StageDataCollection means a field question is pending an answer.
	StageDataCollection Stage = "data_collection"

	// StageClarification means the last answer could not be understood
	// and the same field is being re-asked with an example.
	StageClarification Stage = "clarification"

	// StageResultDelivery means the verdict has been produced and
	// delivered; the conversation is finished.
	StageResultDelivery Stage = "result_delivery"
)

// FamilyField is the synthetic collectable field for the household
// relation list consumed by the family-structure predicate.
const FamilyField = "family_members"

// Conversation is the mutable state of one applicant's eligibility
// exchange. It is owned by a single session and not safe for
// concurrent use.
type Conversation struct {
	// ID uniquely identifies the conversation.
	ID string `json:"id"`

	// SchemeID is the scheme being checked.
	SchemeID string `json:"scheme_id"`

	// Stage is the current phase.
	Stage Stage `json:"stage"`

	// Facts are the typed values collected so far.
	Facts *inference.Facts `json:"-"`

	// CurrentField is the field awaiting an answer, "" when none.
	CurrentField string `json:"current_field"`

	// Attempts counts failed extraction attempts per field.
	Attempts map[string]int `json:"attempts"`

	// Skipped holds fields abandoned after exhausting clarification
	// attempts; they stay missing for the rest of the conversation.
	Skipped map[string]bool `json:"skipped"`

	// Verdict is set once the conversation reaches result delivery.
	Verdict *inference.Verdict `json:"verdict,omitempty"`

	// Turns counts applicant utterances processed.
	Turns int `json:"turns"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversation creates a conversation for a scheme check.
func NewConversation(schemeID string) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		ID:        uuid.NewString(),
		SchemeID:  schemeID,
		Stage:     StageGreeting,
		Facts:     inference.NewFacts(),
		Attempts:  make(map[string]int),
		Skipped:   make(map[string]bool),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Done reports whether the conversation has delivered its verdict.
func (c *Conversation) Done() bool {
	return c.Stage == StageResultDelivery
}
