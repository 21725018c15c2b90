package sqlstore

import (
	"strings"

	"github.com/chronograph-db/chronograph/internal/ids"
)

func encodeComponents(locs []ids.Locator) string {
	parts := make([]string, len(locs))
	for i, l := range locs {
		parts[i] = l.String()
	}
	return strings.Join(parts, ",")
}

func decodeComponents(s string) ([]ids.Locator, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]ids.Locator, 0, len(parts))
	for _, p := range parts {
		loc, err := ids.ParseLocator(p)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}
