package quote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Scalar is an optional item field that upstream may send as a JSON number,
// string or boolean. Null and absent fields are unset.
type Scalar struct {
	str   string
	num   float64
	isNum bool
	set   bool
}

// Num returns a numeric scalar.
func Num(f float64) Scalar { return Scalar{num: f, isNum: true, set: true} }

// Str returns a string scalar.
func Str(s string) Scalar { return Scalar{str: s, set: true} }

func (s *Scalar) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = Scalar{}
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = Str(v)
	case bytes.Equal(b, []byte("true")), bytes.Equal(b, []byte("false")):
		*s = Str(string(b))
	default:
		f, err := strconv.ParseFloat(string(b), 64)
		if err != nil {
			return fmt.Errorf("expected number or string, got %s", b)
		}
		*s = Num(f)
	}
	return nil
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	switch {
	case !s.set:
		return []byte("null"), nil
	case s.isNum:
		return json.Marshal(s.num)
	default:
		return json.Marshal(s.str)
	}
}

// IsSet reports whether the field was present and non-null.
func (s Scalar) IsSet() bool { return s.set }

// IsNumber reports whether the field was sent as a JSON number.
func (s Scalar) IsNumber() bool { return s.set && s.isNum }

// String renders the value; numbers use the shortest exact form, so 12.0
// renders as "12".
func (s Scalar) String() string {
	if !s.set {
		return ""
	}
	if s.isNum {
		return strconv.FormatFloat(s.num, 'f', -1, 64)
	}
	return s.str
}

// Float returns the numeric value, parsing numeric strings.
func (s Scalar) Float() (float64, bool) {
	if !s.set {
		return 0, false
	}
	if s.isNum {
		return s.num, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s.str), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
