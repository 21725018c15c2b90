// Package timeutil parses natural-language time expressions for the
// CLI's `--at` flag (e.g. "yesterday", "3 days ago", "last
// monday"), on top of the teacher's own direct go.mod dependency on
// olebedev/when — listed in the teacher's go.mod but never wired to
// any of its visible commands; chronograph gives it the home the
// teacher's own CLI never did.
package timeutil

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// parser is built once: en.All plus common.All mirrors the library's
// own recommended "kitchen sink" rule set for English input.
var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseAt resolves a natural-language or RFC3339 instant relative to
// now. Bare RFC3339 timestamps are tried first so exact machine-
// generated values never go through fuzzy matching.
func ParseAt(expr string, now time.Time) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, expr); err == nil {
		return t, nil
	}

	result, err := parser.Parse(expr, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("timeutil: parse %q: %w", expr, err)
	}
	if result == nil {
		return time.Time{}, fmt.Errorf("timeutil: could not resolve %q to a time", expr)
	}
	return result.Time, nil
}
