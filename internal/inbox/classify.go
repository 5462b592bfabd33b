package inbox

import (
	"strings"

	"github.com/ejack923/gmail-dashboard-backend/internal/gmail"
	"github.com/ejack923/gmail-dashboard-backend/internal/rules"
)

// Haystack builds the lower-cased searchable text for a message:
// subject, sender and snippet concatenated. Missing fields contribute
// empty strings.
func Haystack(m gmail.Message) string {
	var b strings.Builder
	b.Grow(len(m.Subject) + len(m.From) + len(m.Snippet) + 2)
	b.WriteString(m.Subject)
	b.WriteByte(' ')
	b.WriteString(m.From)
	b.WriteByte(' ')
	b.WriteString(m.Snippet)
	return strings.ToLower(b.String())
}

// Classify returns the bucket label for a message: the first rule with
// a matching keyword wins, otherwise rules.Unassigned. Pure and
// deterministic given identical inputs.
func Classify(m gmail.Message, rs *rules.RuleSet) string {
	if name, ok := rs.Match(Haystack(m)); ok {
		return name
	}
	return rules.Unassigned
}
