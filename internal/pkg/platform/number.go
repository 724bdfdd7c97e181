package platform

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseAbbrevNumber parses counts the way profile pages render them:
// "1.2M", "345K", "2,481", "1.1B" or a plain integer.
func ParseAbbrevNumber(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, errors.New("empty number")
	}

	multiplier := float64(1)
	switch s[len(s)-1] {
	case 'K', 'k':
		multiplier = 1_000
		s = s[:len(s)-1]
	case 'M', 'm':
		multiplier = 1_000_000
		s = s[:len(s)-1]
	case 'B', 'b':
		multiplier = 1_000_000_000
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %q", raw)
	}

	return int64(math.Round(value * multiplier)), nil
}
