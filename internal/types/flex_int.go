package types

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexInt is an int that unmarshals from a JSON number, numeric string,
// boolean or null. Anything that is not a number coerces to zero, the way
// loosely typed form posts arrive from the host.
type FlexInt int

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FlexInt(IntOf(v))
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// Int converts FlexInt back to int.
func (f FlexInt) Int() int {
	return int(f)
}

// IntOf coerces a decoded JSON or form value to an int.
// "12" and 12.7 give 12, "12abc" gives 12, "" / nil / "abc" give 0.
func IntOf(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	case json.Number:
		return IntOf(string(n))
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		return leadingInt(n)
	case []string:
		if len(n) == 0 {
			return 0
		}
		return leadingInt(n[0])
	}
	return 0
}

// leadingInt parses the optional sign and digits at the start of s
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
