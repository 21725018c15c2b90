// Package ids generates stable element identifiers and pairs them with
// versions to form locators.
package ids

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

// base62Alphabet is URL-safe and sorts lexicographically the same as the
// underlying byte order, which keeps ids reasonably index-friendly.
const base62Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// idLength is the fixed textual width of a generated id. 22 base62 characters
// comfortably cover the 128 bits of a UUID (122 of them random in version 4).
const idLength = 22

// Id is a stable, URL-safe, sortable textual identifier for a versioned
// entity. Two locators share an Id when they are different versions of the
// same logical node, edge, or component.
type Id string

// String implements fmt.Stringer.
func (id Id) String() string { return string(id) }

// New generates a random, collision-resistant Id.
//
// It draws 122 bits of entropy from a version-4 UUID (google/uuid; the
// remaining 6 of its 128 bits are fixed version and variant bits), which
// satisfies the P(collision over 1e9 ids) < 1e-12 requirement by a wide
// margin (the birthday bound for 1e9 draws over a 2^122 space is on the
// order of 1e-19). The raw bytes are base62-encoded so the result is
// URL-safe and free of separators that could be confused with a locator's
// "id@version" rendering.
func New() Id {
	raw := uuid.New()
	return Id(encodeBase62(raw[:], idLength))
}

// encodeBase62 renders data as a base62 string padded/truncated to length,
// following the same big.Int long-division approach the teacher's base36
// id encoder used, widened to a 62-symbol alphabet for density.
func encodeBase62(data []byte, length int) string {
	num := new(big.Int).SetBytes(data)

	base := big.NewInt(int64(len(base62Alphabet)))
	zero := big.NewInt(0)
	mod := new(big.Int)

	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base62Alphabet[mod.Int64()])
	}

	var result strings.Builder
	for i := len(chars) - 1; i >= 0; i-- {
		result.WriteByte(chars[i])
	}

	str := result.String()
	if len(str) < length {
		str = strings.Repeat("0", length-len(str)) + str
	}
	if len(str) > length {
		str = str[len(str)-length:]
	}
	return str
}

// Valid reports whether id looks like an Id produced by New: non-empty and
// composed only of base62Alphabet characters.
func Valid(id Id) bool {
	if id == "" {
		return false
	}
	for _, r := range string(id) {
		if !strings.ContainsRune(base62Alphabet, r) {
			return false
		}
	}
	return true
}

// mustParseVersion is a small helper shared by locator parsing; kept here to
// avoid a second small file.
func mustParseVersion(s string) (int64, error) {
	var v int64
	if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}
