package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	ValueKindText      = "text"
	ValueKindBoolean   = "boolean"
	ValueKindSelection = "selection"
	ValueKindNumber    = "number"
)

var ErrUnknownValueKind = errors.New("unknown value kind")

// Value is a tagged union over the four attribute types a symptom entry can
// hold. Exactly one payload field is meaningful, selected by Kind. Entries
// used to gain and lose loosely-typed attributes matching whatever field
// titles existed; the union keeps the attribute map checkable against the
// current field definitions.
type Value struct {
	Kind      string  `json:"kind"`
	Text      string  `json:"text,omitempty"`
	Flag      bool    `json:"flag,omitempty"`
	Selection string  `json:"selection,omitempty"`
	Number    float64 `json:"number,omitempty"`
}

func TextValue(text string) Value {
	return Value{Kind: ValueKindText, Text: text}
}

func BooleanValue(flag bool) Value {
	return Value{Kind: ValueKindBoolean, Flag: flag}
}

func SelectionValue(option string) Value {
	return Value{Kind: ValueKindSelection, Selection: option}
}

func NumberValue(number float64) Value {
	return Value{Kind: ValueKindNumber, Number: number}
}

// NumericValue reports the numeric payload of the value, if it has one.
func (value Value) NumericValue() (float64, bool) {
	if value.Kind == ValueKindNumber {
		return value.Number, true
	}
	return 0, false
}

// IsTrue reports whether the value is a boolean set to true.
func (value Value) IsTrue() bool {
	return value.Kind == ValueKindBoolean && value.Flag
}

// Display renders the payload the way the history table shows it.
func (value Value) Display() string {
	switch value.Kind {
	case ValueKindText:
		return value.Text
	case ValueKindBoolean:
		if value.Flag {
			return "Yes"
		}
		return "No"
	case ValueKindSelection:
		return value.Selection
	case ValueKindNumber:
		return trimFloat(value.Number)
	}
	return ""
}

func trimFloat(number float64) string {
	if number == float64(int64(number)) {
		return fmt.Sprintf("%d", int64(number))
	}
	return fmt.Sprintf("%g", number)
}

func (value *Value) UnmarshalJSON(data []byte) error {
	type alias Value
	decoded := alias{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	switch decoded.Kind {
	case ValueKindText, ValueKindBoolean, ValueKindSelection, ValueKindNumber:
		*value = Value(decoded)
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownValueKind, decoded.Kind)
}
