package grading

import (
	"strings"
	"unicode"

	"sqltester/internal/common"
)

// Students submit raw SQL and the stored answer key is raw SQL too, so
// everything goes through the same gate: single statement, SELECT only,
// no write or DDL keywords anywhere in the text.

var restrictedKeywords = map[string]struct{}{
	"INSERT":   {},
	"UPDATE":   {},
	"DELETE":   {},
	"MERGE":    {},
	"UPSERT":   {},
	"DROP":     {},
	"ALTER":    {},
	"CREATE":   {},
	"TRUNCATE": {},
	"GRANT":    {},
	"REVOKE":   {},
	"COPY":     {},
	"VACUUM":   {},
	"CALL":     {},
	"EXECUTE":  {},
}

// Prepare trims a submitted query and strips a single trailing
// semicolon. Anything beyond that is the submitter's problem.
func Prepare(query string) string {
	query = strings.TrimSpace(query)
	query = strings.TrimSuffix(query, ";")
	return strings.TrimSpace(query)
}

// Check rejects query text the sandbox refuses to run. The returned
// error wraps common.ErrQueryRejected with the reason.
//
// Matching is done on the raw text without parsing string literals, so
// a semicolon or a restricted keyword inside a literal (WHERE sep = ';'
// or WHERE title = 'drop by') is rejected too. Exercises here never
// need such literals and the gate stays conservative rather than
// carrying a quote-aware SQL lexer.
func Check(query string) error {
	if query == "" {
		return common.Errorf("empty query: %w", common.ErrQueryRejected)
	}
	if strings.Contains(query, ";") {
		return common.Errorf("multiple statements are not allowed: %w", common.ErrQueryRejected)
	}

	tokens := tokenize(query)
	if len(tokens) == 0 {
		return common.Errorf("empty query: %w", common.ErrQueryRejected)
	}
	if first := tokens[0]; first != "SELECT" && first != "WITH" {
		return common.Errorf("only SELECT statements are allowed: %w", common.ErrQueryRejected)
	}
	for _, tok := range tokens {
		if _, ok := restrictedKeywords[tok]; ok {
			return common.Errorf("%q is restricted: %w", tok, common.ErrQueryRejected)
		}
	}
	return nil
}

// tokenize splits query text into upper-cased identifier-ish tokens.
// Token-wise matching keeps column names like updated_at from tripping
// the UPDATE restriction.
func tokenize(query string) []string {
	return strings.FieldsFunc(strings.ToUpper(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
