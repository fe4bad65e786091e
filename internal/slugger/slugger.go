package slugger

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultPrefixLength is the number of id characters appended to heading slugs.
const DefaultPrefixLength = 8

// Slugger derives heading anchors. The zero value uses DefaultPrefixLength.
type Slugger struct {
	PrefixLength int
}

// New returns a slugger appending prefixLength id characters. Non-positive
// values fall back to DefaultPrefixLength.
func New(prefixLength int) Slugger {
	return Slugger{PrefixLength: prefixLength}
}

// SlugFor is Slugger.SlugFor with the default prefix length.
func SlugFor(title, id string) string {
	return Slugger{}.SlugFor(title, id)
}

// SlugFor returns `{normalized-title}-{id-prefix}`. When the title
// normalises to nothing the id prefix is returned alone.
func (s Slugger) SlugFor(title, id string) string {
	base := NormalizeTitle(title)
	prefix := s.idPrefix(id)
	switch {
	case base == "":
		return prefix
	case prefix == "":
		return base
	default:
		return base + "-" + prefix
	}
}

// NormalizeTitle lowercases, strips diacritics and punctuation, and joins
// the remaining words with hyphens.
func NormalizeTitle(title string) string {
	folded, _, err := transform.String(diacritics(), strings.ToLower(title))
	if err != nil {
		folded = strings.ToLower(title)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}

// PageSlug returns a routing slug for a page title. It does not carry an id
// suffix and is not guaranteed unique.
func PageSlug(title string) string {
	candidate := strings.TrimSpace(title)
	if candidate == "" {
		return ""
	}
	normalized, err := slug.Default().Normalize(candidate)
	if err != nil || normalized == "" {
		return NormalizeTitle(candidate)
	}
	return normalized
}

// idPrefix takes the first hexadecimal characters of id. Ids without any
// hex digit fall back to their letters and digits so the suffix still
// disambiguates.
func (s Slugger) idPrefix(id string) string {
	length := s.PrefixLength
	if length <= 0 {
		length = DefaultPrefixLength
	}
	lowered := strings.ToLower(id)
	if prefix := takeRunes(lowered, length, isHex); prefix != "" {
		return prefix
	}
	return takeRunes(lowered, length, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
}

func takeRunes(s string, n int, keep func(rune) bool) string {
	var b strings.Builder
	for _, r := range s {
		if !keep(r) {
			continue
		}
		b.WriteRune(r)
		if b.Len() >= n {
			break
		}
	}
	return b.String()
}

func isHex(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f')
}

func diacritics() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
