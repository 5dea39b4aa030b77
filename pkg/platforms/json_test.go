package platforms

import (
	"encoding/json"
	"testing"
)

func TestFlexInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
		wantErr  bool
	}{
		{`42`, 42, false},
		{`"42"`, 42, false},
		{`"1500000"`, 1500000, false},
		{`null`, 0, false},
		{`""`, 0, false},
		{`1.5e3`, 1500, false},
		{`"abc"`, 0, true},
	}

	for _, test := range tests {
		var f FlexInt
		err := json.Unmarshal([]byte(test.input), &f)
		if test.wantErr {
			if err == nil {
				t.Errorf("%s: expected error", test.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error %v", test.input, err)
			continue
		}
		if f.Int() != test.expected {
			t.Errorf("%s: expected %d, got %d", test.input, test.expected, f.Int())
		}
	}
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"abc"`, "abc"},
		{`123456`, "123456"},
		{`null`, ""},
	}

	for _, test := range tests {
		var f FlexString
		if err := json.Unmarshal([]byte(test.input), &f); err != nil {
			t.Errorf("%s: unexpected error %v", test.input, err)
			continue
		}
		if f.String() != test.expected {
			t.Errorf("%s: expected %q, got %q", test.input, test.expected, f.String())
		}
	}
}

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"@natgeo", "natgeo"},
		{"natgeo", "natgeo"},
		{"  @spaced  ", "spaced"},
		{"@", ""},
	}

	for _, test := range tests {
		if got := NormalizeUsername(test.input); got != test.expected {
			t.Errorf("NormalizeUsername(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}
