package dialogue

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sahayata-hq/ceres/pkg/extract"
	"sahayata-hq/ceres/pkg/inference"
	"sahayata-hq/ceres/pkg/inference/explain"
	"sahayata-hq/ceres/pkg/scheme/compiler"
)

// defaultMaxAttempts is how many times a field is asked before it is
// abandoned as permanently missing.
const defaultMaxAttempts = 3

// TurnResult is what the collector hands back after each utterance.
type TurnResult struct {
	// Prompt is the next thing to say to the applicant.
	Prompt string

	// Stage is the conversation stage after the turn.
	Stage Stage

	// Verdict is set on the result-delivery turn, nil before that.
	Verdict *inference.Verdict

	// Done is true once the verdict has been delivered.
	Done bool
}

// TurnMetrics receives per-utterance observations. The telemetry
// metrics collector satisfies it.
type TurnMetrics interface {
	RecordConversationTurn()
	RecordExtractionFailure(field string)
}

// Collector advances conversations. It holds no per-conversation
// state and is safe for concurrent use across conversations.
type Collector struct {
	extractors  *extract.Registry
	evaluator   *inference.Evaluator
	maxAttempts int
	metrics     TurnMetrics
	logger      *slog.Logger
}

// NewCollector creates a collector.
func NewCollector(extractors *extract.Registry, evaluator *inference.Evaluator, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		extractors:  extractors,
		evaluator:   evaluator,
		maxAttempts: defaultMaxAttempts,
		logger:      logger,
	}
}

// WithMaxAttempts overrides how many times a field is asked before it
// is abandoned. Non-positive values keep the default.
func (c *Collector) WithMaxAttempts(n int) *Collector {
	if n > 0 {
		c.maxAttempts = n
	}
	return c
}

// WithMetrics sets the turn metrics recorder.
func (c *Collector) WithMetrics(m TurnMetrics) *Collector {
	c.metrics = m
	return c
}

// Begin starts a conversation for a scheme and returns it with the
// opening prompt.
func (c *Collector) Begin(program *compiler.CompiledProgram) (*Conversation, string) {
	conv := NewConversation(program.SchemeID)
	prompt := greeting(program.SchemeName)

	field, ok := c.nextField(program, conv)
	if !ok {
		return conv, prompt + " " + c.deliver(program, conv)
	}
	conv.Stage = StageDataCollection
	conv.CurrentField = field
	return conv, prompt + " " + question(field)
}

// Advance processes one applicant utterance and returns the next
// prompt. After the verdict has been delivered further utterances
// return the same result.
func (c *Collector) Advance(program *compiler.CompiledProgram, conv *Conversation, utterance string) TurnResult {
	conv.Turns++
	conv.UpdatedAt = time.Now().UTC()
	if c.metrics != nil {
		c.metrics.RecordConversationTurn()
	}

	if conv.Done() {
		return TurnResult{
			Prompt:  "This check is complete. Start a new conversation to check another scheme.",
			Stage:   conv.Stage,
			Verdict: conv.Verdict,
			Done:    true,
		}
	}

	if conv.Stage == StageGreeting {
		field, ok := c.nextField(program, conv)
		if !ok {
			return c.finish(program, conv, "")
		}
		conv.Stage = StageDataCollection
		conv.CurrentField = field
		return TurnResult{Prompt: question(field), Stage: conv.Stage}
	}

	field := conv.CurrentField
	value, ok := c.extractField(program, conv, field, utterance)
	if !ok {
		if c.metrics != nil {
			c.metrics.RecordExtractionFailure(field)
		}
		conv.Attempts[field]++
		if conv.Attempts[field] >= c.maxAttempts {
			conv.Skipped[field] = true
			c.logger.Info("field abandoned after clarification attempts",
				"conversation_id", conv.ID,
				"scheme_id", conv.SchemeID,
				"field", field,
				"attempts", conv.Attempts[field],
			)
			return c.askNext(program, conv, "No problem, let's move on. ")
		}
		conv.Stage = StageClarification
		return TurnResult{Prompt: clarification(field), Stage: conv.Stage}
	}

	if field == FamilyField {
		for _, m := range value.([]inference.FamilyMember) {
			conv.Facts.AddFamilyMember(m.Relation, m.Age)
		}
	} else {
		conv.Facts.Set(field, value)
	}
	delete(conv.Attempts, field)
	return c.askNext(program, conv, "")
}

// extractField parses an utterance for a field, routing the synthetic
// family field to the relation-list parser.
func (c *Collector) extractField(program *compiler.CompiledProgram, conv *Conversation, field, utterance string) (interface{}, bool) {
	if field == FamilyField {
		members := parseFamily(utterance)
		if len(members) == 0 {
			return nil, false
		}
		return members, true
	}
	return c.extractors.Extract(field, program.FieldType(field), utterance)
}

// askNext moves to the next pending field or finishes the conversation.
func (c *Collector) askNext(program *compiler.CompiledProgram, conv *Conversation, prefix string) TurnResult {
	field, ok := c.nextField(program, conv)
	if !ok {
		return c.finish(program, conv, prefix)
	}
	conv.Stage = StageDataCollection
	conv.CurrentField = field
	return TurnResult{Prompt: prefix + question(field), Stage: conv.Stage}
}

// nextField returns the first declared field that is neither collected
// nor abandoned.
func (c *Collector) nextField(program *compiler.CompiledProgram, conv *Conversation) (string, bool) {
	for _, field := range c.collectableFields(program) {
		if conv.Skipped[field] {
			continue
		}
		if field == FamilyField {
			if len(conv.Facts.FamilyMembers()) == 0 {
				return field, true
			}
			continue
		}
		if !conv.Facts.Has(field) {
			return field, true
		}
	}
	return "", false
}

// collectableFields is the program's declared fields plus the family
// relation list when the scheme declares a family-structure predicate.
func (c *Collector) collectableFields(program *compiler.CompiledProgram) []string {
	fields := program.RequiredFields()
	if program.Family != nil {
		fields = append(fields, FamilyField)
	}
	return fields
}

// finish evaluates the collected facts and delivers the verdict.
func (c *Collector) finish(program *compiler.CompiledProgram, conv *Conversation, prefix string) TurnResult {
	prompt := prefix + c.deliver(program, conv)
	return TurnResult{
		Prompt:  prompt,
		Stage:   conv.Stage,
		Verdict: conv.Verdict,
		Done:    true,
	}
}

func (c *Collector) deliver(program *compiler.CompiledProgram, conv *Conversation) string {
	verdict := c.evaluator.Evaluate(program, conv.Facts)
	explain.Annotate(program, verdict)
	conv.Verdict = verdict
	conv.Stage = StageResultDelivery
	conv.CurrentField = ""

	var b strings.Builder
	b.WriteString(verdict.Explanation)
	for _, rec := range verdict.Recommendations {
		b.WriteString(" ")
		b.WriteString(rec)
	}
	return b.String()
}

// familyMemberPattern matches one "relation age" pair, e.g. "wife 32".
var familyMemberPattern = regexp.MustCompile(`([a-zA-Z]+)\s+(\d{1,3})`)

// parseFamily reads a comma-separated relation list like
// "wife 32, son 8, daughter 5".
func parseFamily(utterance string) []inference.FamilyMember {
	var members []inference.FamilyMember
	for _, m := range familyMemberPattern.FindAllStringSubmatch(utterance, -1) {
		age, err := strconv.Atoi(m[2])
		if err != nil || age > 120 {
			continue
		}
		members = append(members, inference.FamilyMember{
			Relation: strings.ToLower(m[1]),
			Age:      age,
		})
	}
	return members
}
