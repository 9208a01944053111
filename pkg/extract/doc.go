// Package extract turns free-text applicant utterances into typed fact
// values.
//
// Extraction is field-directed: the dialogue collector knows which
// field it asked about, looks up that field's extractor in the
// registry, and applies it to the reply. Field-specific extractors
// understand the units and spellings applicants actually use (lakh and
// crore amounts, hectare land sizes, caste category abbreviations);
// fields without a dedicated extractor fall back to a generic one
// keyed by the field's declared data type.
//
// Extractors are pure and report failure with a boolean rather than an
// error, so a misunderstood reply simply triggers a clarification turn.
package extract
