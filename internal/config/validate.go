package config

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Rules holds the tunable parameters of the validation predicates.
type Rules struct {
	HexDigitsMin int
	HexDigitsMax int
	MemoryUnits  []string
}

// DefaultRules returns the rules for 24 to 32 bit addresses with sizes in K.
func DefaultRules() Rules {
	return Rules{HexDigitsMin: 6, HexDigitsMax: 8, MemoryUnits: []string{"K"}}
}

// maxRepeat is the largest repetition count accepted by package regexp.
const maxRepeat = 1000

// Validate reports the first parameter that cannot produce a usable predicate.
func (r Rules) Validate() error {
	switch {
	case r.HexDigitsMin < 1:
		return invalidf("rules.hex_digits_min", fmt.Sprint(r.HexDigitsMin), "must be at least 1")
	case r.HexDigitsMax < r.HexDigitsMin:
		return invalidf("rules.hex_digits_max", fmt.Sprint(r.HexDigitsMax),
			"must not be less than hex_digits_min (%d)", r.HexDigitsMin)
	case r.HexDigitsMax > maxRepeat:
		return invalidf("rules.hex_digits_max", fmt.Sprint(r.HexDigitsMax), "must not exceed %d", maxRepeat)
	case len(r.MemoryUnits) == 0:
		return invalidf("rules.memory_units", "[]", "must be set and non-empty")
	}
	for i, u := range r.MemoryUnits {
		if err := NonEmpty(fmt.Sprintf("rules.memory_units[%d]", i), u); err != nil {
			return err
		}
	}
	return nil
}

// patterns caches compiled predicates by their source.
var patterns sync.Map

func compile(expr string) (*regexp.Regexp, error) {
	if re, ok := patterns.Load(expr); ok {
		return re.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	actual, _ := patterns.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp), nil
}

func (r Rules) hexPattern() (*regexp.Regexp, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return compile(fmt.Sprintf(`^0x[0-9A-Fa-f]{%d,%d}$`, r.HexDigitsMin, r.HexDigitsMax))
}

func (r Rules) sizePattern() (*regexp.Regexp, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	units := make([]string, len(r.MemoryUnits))
	for i, u := range r.MemoryUnits {
		units[i] = regexp.QuoteMeta(u)
	}
	return compile(`(?i)^[0-9]*[02468](?:` + strings.Join(units, "|") + `)$`)
}

// NonEmpty fails for an empty string.
func NonEmpty(field, value string) error {
	if value == "" {
		return invalidf(field, `""`, "must be set and non-empty")
	}
	return nil
}

// HexAddress checks value is 0x followed by HexDigitsMin..HexDigitsMax hex digits.
func HexAddress(field, value string, rules Rules) error {
	re, err := rules.hexPattern()
	if err != nil {
		return err
	}
	if !re.MatchString(value) {
		return invalidf(field, value, "must be a hexadecimal number with digits between %d and %d",
			rules.HexDigitsMin, rules.HexDigitsMax)
	}
	return nil
}

// MemorySize checks value is an even decimal number followed by exactly one
// of the configured units, case-insensitively.
func MemorySize(field, value string, rules Rules) error {
	re, err := rules.sizePattern()
	if err != nil {
		return err
	}
	if !re.MatchString(value) {
		return invalidf(field, value, "must be an even-numbered memory size followed by one of %s units",
			strings.Join(rules.MemoryUnits, ", "))
	}
	return nil
}

// RegionPair checks a memory region given as [origin, length].
func RegionPair(field string, values []string, rules Rules) error {
	if len(values) == 0 {
		return invalidf(field, "[]", "must be set and non-empty")
	}
	if len(values) != 2 {
		return invalidf(field, fmt.Sprintf("%q", values),
			"must be exactly [origin, length], found %d elements", len(values))
	}
	if err := HexAddress(field+"[0] (origin)", values[0], rules); err != nil {
		return err
	}
	return MemorySize(field+"[1] (length)", values[1], rules)
}
