package sanitizer

import (
	"regexp"
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reNonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	rePostcode     = regexp.MustCompile(`^([A-Z]{1,2}[0-9][A-Z0-9]?)\s*([0-9][A-Z]{2})$`)
)

// TrimAndNormalize collapses runs of whitespace into single spaces and
// trims the result.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}
	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeAddress(address string) string {
	return TrimAndNormalize(address)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeCastleName trims and collapses whitespace but keeps case; the
// validator compares castle names case-insensitively anyway.
func NormalizeCastleName(name string) string {
	return TrimAndNormalize(name)
}

// Slugify produces the URL identifier for a castle.
func Slugify(name string) string {
	p := Pipeline{
		strings.ToLower,
		func(s string) string { return reNonSlugChars.ReplaceAllString(s, "-") },
		func(s string) string { return strings.Trim(s, "-") },
	}
	return p.Apply(name)
}

// NormalizePostcode uppercases a UK postcode and inserts the single space
// before the inward code. Input that does not look like a postcode is
// returned trimmed and uppercased for the validator to reject.
func NormalizePostcode(postcode string) string {
	s := strings.ToUpper(strings.Join(strings.Fields(postcode), ""))
	if s == "" {
		return ""
	}
	if m := rePostcode.FindStringSubmatch(s); m != nil {
		return m[1] + " " + m[2]
	}
	return strings.ToUpper(TrimAndNormalize(postcode))
}

// SanitizeSlice normalizes each value, dropping empties and duplicates.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
