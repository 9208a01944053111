package audit

import (
	"time"

	"github.com/google/uuid"

	"sahayata-hq/ceres/pkg/inference"
	"sahayata-hq/ceres/pkg/scheme/compiler"
)

// Record is one persisted eligibility decision.
type Record struct {
	// ID uniquely identifies the record.
	ID string `json:"id"`

	// ConversationID links the record to the dialogue session that
	// produced it, "" for direct API evaluations.
	ConversationID string `json:"conversation_id,omitempty"`

	// SchemeID and ContentHash pin the exact scheme version that
	// decided.
	SchemeID    string `json:"scheme_id"`
	ContentHash string `json:"content_hash"`

	// RegistryVersion is the registry content version at decision time.
	RegistryVersion string `json:"registry_version,omitempty"`

	// Status and Score summarize the verdict.
	Status inference.Status `json:"status"`
	Score  float64          `json:"score"`

	// Verdict is the full verdict for replay and review.
	Verdict *inference.Verdict `json:"verdict"`

	// LowConfidenceRules lists fallback rule ids that could not be
	// checked automatically; reviewers look at these first.
	LowConfidenceRules []string `json:"low_confidence_rules,omitempty"`

	// CreatedAt is when the decision was made.
	CreatedAt time.Time `json:"created_at"`
}

// NewRecord builds an audit record from a verdict and the program that
// produced it.
func NewRecord(program *compiler.CompiledProgram, verdict *inference.Verdict, conversationID, registryVersion string) *Record {
	rec := &Record{
		ID:              uuid.NewString(),
		ConversationID:  conversationID,
		SchemeID:        program.SchemeID,
		ContentHash:     program.ContentHash,
		RegistryVersion: registryVersion,
		Status:          verdict.Status,
		Score:           verdict.Score,
		Verdict:         verdict,
		CreatedAt:       time.Now().UTC(),
	}
	for _, r := range program.LowConfidenceRules() {
		rec.LowConfidenceRules = append(rec.LowConfidenceRules, r.ID)
	}
	return rec
}
