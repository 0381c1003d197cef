package common

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// The auction source is loose with types: prices arrive as numbers or
// numeric strings, flags as booleans, strings or 0/1, and any field may be
// null or missing. The Flex types below accept all of those shapes and
// never return a decoding error; an unusable value decodes as "not set".

var nullLiteral = []byte("null")

// FlexFloat is a float that remembers whether the source supplied a usable number
type FlexFloat struct {
	Value float64
	Valid bool
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, nullLiteral) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		f.set(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
		s = strings.TrimPrefix(s, "$")
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			f.set(n)
		}
	}
	return nil
}

func (f *FlexFloat) set(n float64) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return
	}
	f.Value = n
	f.Valid = true
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return nullLiteral, nil
	}
	return json.Marshal(f.Value)
}

// Or returns the value, or def when unset
func (f FlexFloat) Or(def float64) float64 {
	if !f.Valid {
		return def
	}
	return f.Value
}

// Ptr returns nil when unset
func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// FlexInt rounds any numeric shape to the nearest int. A value outside the
// int range is unusable and decodes as 0.
type FlexInt int

func (fi *FlexInt) UnmarshalJSON(b []byte) error {
	var f FlexFloat
	_ = f.UnmarshalJSON(b)
	r := math.Round(f.Or(0))
	if r < float64(math.MinInt) || r >= float64(math.MaxInt) {
		r = 0
	}
	*fi = FlexInt(r)
	return nil
}

// FlexBool distinguishes "false" from "not supplied"
type FlexBool struct {
	Value bool
	Set   bool
}

func (fb *FlexBool) UnmarshalJSON(b []byte) error {
	*fb = FlexBool{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, nullLiteral) {
		return nil
	}

	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*fb = FlexBool{Value: v, Set: true}
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*fb = FlexBool{Value: n != 0, Set: true}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "1":
			*fb = FlexBool{Value: true, Set: true}
		case "false", "no", "n", "0":
			*fb = FlexBool{Value: false, Set: true}
		}
	}
	return nil
}

func (fb FlexBool) MarshalJSON() ([]byte, error) {
	if !fb.Set {
		return nullLiteral, nil
	}
	return json.Marshal(fb.Value)
}

// IsTrue reports an explicit true
func (fb FlexBool) IsTrue() bool {
	return fb.Set && fb.Value
}

// IsFalse reports an explicit false
func (fb FlexBool) IsFalse() bool {
	return fb.Set && !fb.Value
}

// FlexString accepts strings and renders numbers/booleans as text
type FlexString string

func (fs *FlexString) UnmarshalJSON(b []byte) error {
	*fs = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, nullLiteral) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*fs = FlexString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*fs = FlexString(n.String())
		return nil
	}

	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*fs = FlexString(strconv.FormatBool(v))
	}
	return nil
}

func (fs FlexString) String() string {
	return string(fs)
}

// FlexStrings accepts a list of scalars or a single string
type FlexStrings []string

func (fs *FlexStrings) UnmarshalJSON(b []byte) error {
	*fs = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, nullLiteral) {
		return nil
	}

	var items []FlexString
	if err := json.Unmarshal(b, &items); err == nil {
		out := make([]string, 0, len(items))
		for _, item := range items {
			if item != "" {
				out = append(out, string(item))
			}
		}
		*fs = out
		return nil
	}

	var single FlexString
	_ = single.UnmarshalJSON(b)
	if single != "" {
		*fs = FlexStrings{string(single)}
	}
	return nil
}
