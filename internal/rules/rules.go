package rules

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Unassigned is the bucket label for messages no rule matches.
const Unassigned = "Unassigned"

// ConfigError indicates a rules file that exists but cannot be used.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid rules config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Rule maps a set of keywords to a named bucket.
type Rule struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// RuleSet is an ordered list of rules. The zero value is a valid empty
// set under which every message classifies as Unassigned.
type RuleSet struct {
	rules []Rule
}

// New builds a RuleSet from the given rules, lower-casing every keyword
// so matching is case-insensitive without per-request normalization.
// A rule with an empty name is rejected.
func New(rr []Rule) (*RuleSet, error) {
	out := make([]Rule, 0, len(rr))
	for i, r := range rr {
		if strings.TrimSpace(r.Name) == "" {
			return nil, fmt.Errorf("rule %d has an empty name", i)
		}
		keywords := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			if k == "" {
				continue
			}
			keywords = append(keywords, strings.ToLower(k))
		}
		out = append(out, Rule{Name: r.Name, Keywords: keywords})
	}
	return &RuleSet{rules: out}, nil
}

// Load reads a rules file (a JSON array of {name, keywords} objects).
//
// The file is optional: when it does not exist an empty RuleSet is
// returned and a warning is logged. A file that exists but cannot be
// parsed or validated fails with ConfigError; rules are never silently
// dropped.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("rules file not found, classifying everything as Unassigned", "path", path)
			return &RuleSet{}, nil
		}
		return nil, &ConfigError{Path: path, Err: err}
	}

	var rr []Rule
	if err := json.Unmarshal(data, &rr); err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	rs, err := New(rr)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	slog.Info("loaded classification rules", "path", path, "rules", len(rr))
	return rs, nil
}

// Match returns the bucket name of the first rule with a keyword that
// is a substring of haystack. The haystack must already be lower-cased.
// The second return is false when no rule matches.
func (rs *RuleSet) Match(haystack string) (string, bool) {
	for _, r := range rs.rules {
		for _, k := range r.Keywords {
			if strings.Contains(haystack, k) {
				return r.Name, true
			}
		}
	}
	return "", false
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Buckets returns the bucket names in rule order.
func (rs *RuleSet) Buckets() []string {
	names := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		names[i] = r.Name
	}
	return names
}
