package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalNumber is the accepted numeric syntax: no hex, no digit
// separators, no NaN or Inf spellings.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ValueKind tags the shape of an answer.
type ValueKind uint8

const (
	// KindNone marks an absent answer.
	KindNone ValueKind = iota
	KindText
	KindList
	// KindNumber keeps the value as entered so unparsable input can still be reported.
	KindNumber
)

// Value is a submitted answer: a string, a list of strings, or a number
// carried as text. The zero Value is "not answered".
type Value struct {
	Kind ValueKind
	Text string
	List []string
}

func TextValue(s string) Value { return Value{Kind: KindText, Text: s} }

func ListValue(items ...string) Value {
	return Value{Kind: KindList, List: append([]string{}, items...)}
}

func NumberValue(raw string) Value { return Value{Kind: KindNumber, Text: raw} }

func FloatValue(f float64) Value {
	return Value{Kind: KindNumber, Text: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Present reports whether an answer was captured at all.
func (v Value) Present() bool { return v.Kind != KindNone }

// Blank reports whether the answer counts as empty for required checks.
func (v Value) Blank() bool {
	switch v.Kind {
	case KindNone:
		return true
	case KindList:
		return len(v.List) == 0
	default:
		return strings.TrimSpace(v.Text) == ""
	}
}

// Float parses a numeric answer written as a finite decimal literal.
func (v Value) Float() (float64, bool) {
	if v.Kind == KindList || v.Kind == KindNone {
		return 0, false
	}
	s := strings.TrimSpace(v.Text)
	if !decimalNumber.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// String coerces the answer the way the rule comparison expects: lists are
// joined with commas, everything else is the text as entered.
func (v Value) String() string {
	if v.Kind == KindList {
		return strings.Join(v.List, ",")
	}
	return v.Text
}

// Has reports whether a list answer includes item.
func (v Value) Has(item string) bool {
	if v.Kind != KindList {
		return false
	}
	for _, it := range v.List {
		if it == item {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no backing array.
func (v Value) Clone() Value {
	if v.List != nil {
		v.List = append([]string{}, v.List...)
	}
	return v
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNone:
		return []byte("null"), nil
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case KindNumber:
		if f, ok := v.Float(); ok {
			return json.Marshal(f)
		}
		return json.Marshal(v.Text)
	default:
		return json.Marshal(v.Text)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case string:
		*v = TextValue(t)
	case json.Number:
		*v = NumberValue(t.String())
	case bool:
		*v = TextValue(strconv.FormatBool(t))
	case []any:
		items := make([]string, 0, len(t))
		for _, it := range t {
			items = append(items, fmt.Sprint(it))
		}
		*v = Value{Kind: KindList, List: items}
	default:
		return fmt.Errorf("unsupported answer shape %T", raw)
	}
	return nil
}

// DecodeAnswer decodes a raw answer into the shape the question's type
// expects. Numeric questions accept numbers or numeric strings; the text is
// kept as entered and checked later by validation.
func DecodeAnswer(t QuestionType, raw json.RawMessage) (Value, error) {
	var v Value
	if len(bytes.TrimSpace(raw)) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return Value{}, err
	}
	if !v.Present() {
		return v, nil
	}
	switch t {
	case MultiChoice:
		if v.Kind != KindList {
			return Value{}, fmt.Errorf("%s answer must be an array", t)
		}
	case Numeric:
		if v.Kind == KindList {
			return Value{}, fmt.Errorf("%s answer must be a number", t)
		}
		v.Kind = KindNumber
	default:
		if v.Kind == KindList {
			return Value{}, fmt.Errorf("%s answer must be a string", t)
		}
		v.Kind = KindText
	}
	return v, nil
}
