package platforms

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt is an integer that tolerates the shapes the upstream APIs actually
// send: a JSON number, a quoted decimal string, or null.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("cannot parse %q as integer: %w", s, err)
	}
	*f = FlexInt(n)
	return nil
}

// Int returns the plain integer value.
func (f FlexInt) Int() int {
	return int(f)
}

// FlexString is a string that also accepts a bare JSON number or null.
// Post ids and pagination cursors arrive in both forms.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		*f = ""
		return nil
	}
	*f = FlexString(strings.Trim(s, `"`))
	return nil
}

// String returns the plain string value.
func (f FlexString) String() string {
	return string(f)
}
