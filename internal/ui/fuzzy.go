package ui

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// rankOptions orders options by fuzzy match against query. Options that do
// not match are dropped; a blank query keeps the original order.
func rankOptions(options []string, query string) []string {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" || len(options) == 0 {
		return options
	}
	targets := make([]string, len(options))
	for i, opt := range options {
		targets[i] = strings.ToLower(opt)
	}
	matches := fuzzy.Find(query, targets)
	ranked := make([]string, 0, len(matches))
	for _, match := range matches {
		if match.Index >= 0 && match.Index < len(options) {
			ranked = append(ranked, options[match.Index])
		}
	}
	return ranked
}
