package inbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejack923/gmail-dashboard-backend/internal/gmail"
	"github.com/ejack923/gmail-dashboard-backend/internal/rules"
)

func TestGroupByBucket(t *testing.T) {
	rs := testRules(t)

	messages := []gmail.Message{
		{ID: "1", Subject: "acme order"},
		{ID: "2", Subject: "team offsite"},
		{ID: "3", From: "alerts@globex.example"},
		{ID: "4", Snippet: "acme followup"},
	}

	grouped := GroupByBucket(messages, rs)

	require.Len(t, grouped, 3)
	assert.Equal(t, []string{"1", "4"}, ids(grouped["Acme Co"]))
	assert.Equal(t, []string{"3"}, ids(grouped["Globex"]))
	assert.Equal(t, []string{"2"}, ids(grouped[rules.Unassigned]))
}

func TestGroupByBucketEmpty(t *testing.T) {
	grouped := GroupByBucket(nil, testRules(t))
	assert.Empty(t, grouped)
}

func TestSummarize(t *testing.T) {
	rs := testRules(t)

	messages := []gmail.Message{
		{ID: "1", Subject: "acme order"},
		{ID: "2", Subject: "team offsite"},
		{ID: "3", From: "alerts@globex.example"},
		{ID: "4", Snippet: "acme followup"},
		{ID: "5", Subject: "newsletter"},
	}

	summary := Summarize(messages, rs)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, map[string]int{
		"Acme Co":        2,
		"Globex":         1,
		rules.Unassigned: 2,
	}, summary.ByBucket)
}

func TestSummarizeCountsSumToTotal(t *testing.T) {
	rs := testRules(t)

	messages := []gmail.Message{
		{Subject: "acme"},
		{Subject: "globex"},
		{Subject: "acme globex"},
		{Subject: "nothing"},
	}

	summary := Summarize(messages, rs)

	sum := 0
	for _, n := range summary.ByBucket {
		sum += n
	}
	assert.Equal(t, summary.Total, sum)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, testRules(t))

	assert.Equal(t, 0, summary.Total)
	assert.Empty(t, summary.ByBucket)
}

func ids(messages []gmail.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}
	return out
}
