package extract

import (
	"regexp"
	"strconv"
	"strings"

	"sahayata-hq/ceres/pkg/scheme/ast"
)

// hectareToAcre converts declared hectares to the acre unit the rule
// values use.
const hectareToAcre = 2.47105

var (
	numberPattern = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d+)?`)
	agePattern    = regexp.MustCompile(`(\d{1,3})\s*(?:years?|yrs?|saal)?\b`)
	amountPattern = regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d+)?)\s*(lakhs?|lacs?|crores?|thousand|k)?`)
	landPattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(acres?|hectares?|ha)?\b`)
)

func builtinExtractors() []Extractor {
	return []Extractor{
		ageExtractor{},
		incomeExtractor{},
		landSizeExtractor{},
		genderExtractor{},
		categoryExtractor{},
		landOwnershipExtractor{},
		stateExtractor{},
		boolFieldExtractor{field: ast.FieldHasBankAccount},
		boolFieldExtractor{field: ast.FieldHasCertificate},
	}
}

// ageExtractor finds a plausible age in years. Values outside 0-120
// are rejected so a stray phone digit never becomes an age.
type ageExtractor struct{}

func (ageExtractor) Field() string { return ast.FieldAge }

func (ageExtractor) Extract(utterance string) (interface{}, bool) {
	for _, m := range agePattern.FindAllStringSubmatch(utterance, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n >= 0 && n <= 120 {
			return float64(n), true
		}
	}
	return nil, false
}

// incomeExtractor finds the largest monetary amount in the utterance,
// expanding lakh, crore, and thousand multipliers.
type incomeExtractor struct{}

func (incomeExtractor) Field() string { return ast.FieldAnnualIncome }

func (incomeExtractor) Extract(utterance string) (interface{}, bool) {
	best := -1.0
	for _, m := range amountPattern.FindAllStringSubmatch(utterance, -1) {
		n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(strings.TrimSuffix(m[2], "s")) {
		case "lakh", "lac":
			n *= 100000
		case "crore":
			n *= 10000000
		case "thousand", "k":
			n *= 1000
		}
		if n > best {
			best = n
		}
	}
	if best < 0 {
		return nil, false
	}
	return best, true
}

// landSizeExtractor finds a land area, converting hectares to acres.
type landSizeExtractor struct{}

func (landSizeExtractor) Field() string { return ast.FieldLandSizeAcres }

func (landSizeExtractor) Extract(utterance string) (interface{}, bool) {
	for _, m := range landPattern.FindAllStringSubmatch(utterance, -1) {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		unit := strings.ToLower(m[2])
		if strings.HasPrefix(unit, "hectare") || unit == "ha" {
			n *= hectareToAcre
		}
		return n, true
	}
	return nil, false
}

// genderExtractor canonicalizes declared gender.
type genderExtractor struct{}

func (genderExtractor) Field() string { return ast.FieldGender }

func (genderExtractor) Extract(utterance string) (interface{}, bool) {
	s := " " + strings.ToLower(utterance) + " "
	switch {
	case strings.Contains(s, "female") || strings.Contains(s, "woman") || strings.Contains(s, " lady "):
		return "female", true
	case strings.Contains(s, "male") || strings.Contains(s, " man "):
		return "male", true
	case strings.Contains(s, "other") || strings.Contains(s, "transgender"):
		return "other", true
	}
	return nil, false
}

// categoryExtractor canonicalizes caste category declarations.
type categoryExtractor struct{}

func (categoryExtractor) Field() string { return ast.FieldCategory }

func (categoryExtractor) Extract(utterance string) (interface{}, bool) {
	s := " " + strings.ToLower(utterance) + " "
	switch {
	case strings.Contains(s, "scheduled caste") || strings.Contains(s, " sc "):
		return "sc", true
	case strings.Contains(s, "scheduled tribe") || strings.Contains(s, " st "):
		return "st", true
	case strings.Contains(s, "other backward") || strings.Contains(s, " obc "):
		return "obc", true
	case strings.Contains(s, "general") || strings.Contains(s, "unreserved"):
		return "general", true
	}
	return nil, false
}

// landOwnershipExtractor canonicalizes how the applicant holds land.
type landOwnershipExtractor struct{}

func (landOwnershipExtractor) Field() string { return ast.FieldLandOwnership }

func (landOwnershipExtractor) Extract(utterance string) (interface{}, bool) {
	s := strings.ToLower(utterance)
	switch {
	case strings.Contains(s, "lease") || strings.Contains(s, "rent") || strings.Contains(s, "tenant"):
		return "leased", true
	case strings.Contains(s, "shar") || strings.Contains(s, "joint"):
		return "shared", true
	case strings.Contains(s, "institution") || strings.Contains(s, "trust") || strings.Contains(s, "temple"):
		return "institutional", true
	case strings.Contains(s, "own") || strings.Contains(s, "my land") || strings.Contains(s, "mine"):
		return "owned", true
	}
	return nil, false
}

// indianStates is the locale list the state extractor matches against.
var indianStates = []string{
	"andhra pradesh", "arunachal pradesh", "assam", "bihar", "chhattisgarh",
	"goa", "gujarat", "haryana", "himachal pradesh", "jharkhand",
	"karnataka", "kerala", "madhya pradesh", "maharashtra", "manipur",
	"meghalaya", "mizoram", "nagaland", "odisha", "punjab", "rajasthan",
	"sikkim", "tamil nadu", "telangana", "tripura", "uttar pradesh",
	"uttarakhand", "west bengal",
}

var statePattern = regexp.MustCompile(`(?i)\b(` + strings.Join(indianStates, "|") + `)\b`)

// stateExtractor matches the utterance against the fixed state list. A
// reply naming no state is rejected so clarification can trigger.
type stateExtractor struct{}

func (stateExtractor) Field() string { return ast.FieldState }

func (stateExtractor) Extract(utterance string) (interface{}, bool) {
	if m := statePattern.FindString(utterance); m != "" {
		return strings.ToLower(m), true
	}
	return nil, false
}

// boolFieldExtractor serves yes/no fields.
type boolFieldExtractor struct {
	field string
}

func (e boolFieldExtractor) Field() string { return e.field }

func (boolFieldExtractor) Extract(utterance string) (interface{}, bool) {
	return extractBool(utterance)
}

// extractBool reads an affirmative or negative reply. Negations are
// checked first so "don't have" never matches on "have".
func extractBool(utterance string) (interface{}, bool) {
	s := " " + strings.ToLower(strings.TrimSpace(utterance)) + " "
	negatives := []string{" no ", " nope ", " not ", " don't ", " dont ", " haven't ", " havent ", " false ", " nahi "}
	for _, n := range negatives {
		if strings.Contains(s, n) {
			return false, true
		}
	}
	positives := []string{" yes ", " yeah ", " yep ", " have ", " own ", " true ", " haan ", " ji "}
	for _, p := range positives {
		if strings.Contains(s, p) {
			return true, true
		}
	}
	return nil, false
}
