package validate

import "testing"

func TestIDNumber(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"A123456789", true},
		{"a123456789", true},
		{"Z000000000", true},
		{"1234567890", false}, // starts with a digit
		{"A12345678", false},  // too short
		{"A1234567890", false},
		{"AB23456789", false},
		{"A12345678X", false},
		{"", false},
		{" A123456789", false},
		{"A123456789 ", false},
	}
	for _, c := range cases {
		if got := IDNumber(c.in); got != c.want {
			t.Errorf("IDNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"0912345678", true},
		{"09123456789", true}, // extra trailing digits tolerated
		{"0912345678x", true}, // trailing garbage tolerated
		{"091234567", false},  // nine digits
		{"x0912345678", false},
		{"", false},
		{"phone", false},
	}
	for _, c := range cases {
		if got := Phone(c.in); got != c.want {
			t.Errorf("Phone(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
