package platform

import "testing"

func TestParseAbbrevNumber(t *testing.T) {
	cases := []struct {
		raw  string
		want int64
	}{
		{"42", 42},
		{"2,481", 2481},
		{"345K", 345_000},
		{"1.2M", 1_200_000},
		{"1.1B", 1_100_000_000},
		{"3.5k", 3500},
		{" 12M ", 12_000_000},
		// 4.35 has no exact binary representation; truncation would
		// yield 4349.
		{"4.35K", 4350},
	}
	for _, tc := range cases {
		got, err := ParseAbbrevNumber(tc.raw)
		if err != nil {
			t.Errorf("ParseAbbrevNumber(%q): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAbbrevNumber(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParseAbbrevNumberInvalid(t *testing.T) {
	for _, raw := range []string{"", "  ", "abc", "1.2X2"} {
		if _, err := ParseAbbrevNumber(raw); err == nil {
			t.Errorf("ParseAbbrevNumber(%q): expected error", raw)
		}
	}
}
