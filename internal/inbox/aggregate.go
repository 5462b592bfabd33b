package inbox

import (
	"github.com/ejack923/gmail-dashboard-backend/internal/gmail"
	"github.com/ejack923/gmail-dashboard-backend/internal/rules"
)

// Summary holds per-bucket message counts for a fetch batch.
type Summary struct {
	Total    int            `json:"total"`
	ByBucket map[string]int `json:"byClient"`
}

// GroupByBucket partitions messages by bucket label. Every message
// lands in exactly one bucket; insertion order within a bucket is the
// fetch order.
func GroupByBucket(messages []gmail.Message, rs *rules.RuleSet) map[string][]gmail.Message {
	grouped := make(map[string][]gmail.Message)
	for _, m := range messages {
		bucket := Classify(m, rs)
		grouped[bucket] = append(grouped[bucket], m)
	}
	return grouped
}

// Summarize counts messages per bucket. The total always equals the
// input length and the bucket counts always sum to the total.
func Summarize(messages []gmail.Message, rs *rules.RuleSet) Summary {
	s := Summary{
		Total:    len(messages),
		ByBucket: make(map[string]int),
	}
	for _, m := range messages {
		s.ByBucket[Classify(m, rs)]++
	}
	return s
}
