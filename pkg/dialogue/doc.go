// Package dialogue drives the conversational collection of applicant
// facts for a scheme eligibility check.
//
// A Conversation is the per-applicant state: collected facts, the
// field currently being asked about, per-field attempt counts, and the
// stage of the exchange. The Collector is stateless; it advances a
// conversation one utterance at a time, asking for each of the
// program's declared fields in order, clarifying up to a fixed number
// of attempts when extraction fails, and marking a field permanently
// missing after that so one misunderstood answer can never wedge the
// conversation. When no fields remain the collector evaluates the
// facts and delivers the verdict.
//
// Conversations are isolated: each owns its facts and is never shared
// across applicants. The store subpackage persists conversations so an
// applicant can resume after a dropped session.
package dialogue
