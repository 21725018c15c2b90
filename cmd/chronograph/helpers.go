package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/chronograph-db/chronograph/cmd/chronograph/internal/tui"
	"github.com/chronograph-db/chronograph/internal/ids"
	"github.com/chronograph-db/chronograph/internal/timeutil"
)

// resolveAt parses a CLI --at flag, defaulting to now when unset.
func resolveAt(expr string) (time.Time, error) {
	if expr == "" {
		return time.Now(), nil
	}
	return timeutil.ParseAt(expr, time.Now())
}

func parseLocators(raw []string) ([]ids.Locator, error) {
	out := make([]ids.Locator, 0, len(raw))
	for _, s := range raw {
		loc, err := ids.ParseLocator(s)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}

// printEntity writes a short confirmation line to w (or, with --json,
// the locator alone) after a successful write. Callers pass
// cmd.OutOrStdout() so output honors any writer cobra was configured
// with (real stdout in production, an in-memory buffer under test).
func printEntity(w io.Writer, loc ids.Locator, verb string) error {
	if jsonOutput {
		return json.NewEncoder(w).Encode(map[string]string{
			"id":      string(loc.ID),
			"version": fmt.Sprint(loc.Version),
		})
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", verb, tui.AccentStyle.Render(loc.String()))
	return err
}

// printJSONOrLine writes v to w as JSON under --json, otherwise as
// Go's default verbose struct rendering (sufficient for a CLI
// inspection command; a full pretty-printer is out of scope).
func printJSONOrLine(w io.Writer, v any) error {
	if jsonOutput {
		return json.NewEncoder(w).Encode(v)
	}
	_, err := fmt.Fprintf(w, "%+v\n", v)
	return err
}
