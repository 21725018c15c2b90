package ids

import (
	"fmt"
	"strings"
)

// Locator names one version of one entity: a stable Id paired with a
// strictly increasing, 1-based Version.
type Locator struct {
	ID      Id
	Version int64
}

// NewLocator returns the first version (1) of a freshly generated Id.
func NewLocator() Locator {
	return Locator{ID: New(), Version: 1}
}

// Increment returns the locator for the next version of the same Id.
func (l Locator) Increment() Locator {
	return Locator{ID: l.ID, Version: l.Version + 1}
}

// Zero reports whether the locator is the unset zero value.
func (l Locator) Zero() bool {
	return l.ID == "" && l.Version == 0
}

// String renders the locator as "id@version", used for log lines and map
// keys where a struct key would be less readable.
func (l Locator) String() string {
	return fmt.Sprintf("%s@%d", l.ID, l.Version)
}

// ParseLocator parses the "id@version" form produced by String.
func ParseLocator(s string) (Locator, error) {
	idPart, versionPart, ok := strings.Cut(s, "@")
	if !ok {
		return Locator{}, fmt.Errorf("ids: malformed locator %q: missing '@'", s)
	}
	version, err := mustParseVersion(versionPart)
	if err != nil {
		return Locator{}, fmt.Errorf("ids: malformed locator %q: %w", s, err)
	}
	return Locator{ID: Id(idPart), Version: version}, nil
}
