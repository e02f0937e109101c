// Copyright 2025 Brujula Authors
// SPDX-License-Identifier: Apache-2.0

package features

import (
	"encoding/json"
	"fmt"
	"math"
)

// Kind of a feature value. The kind is declared explicitly so that
// round-tripping a feature through a numeric vector never silently
// changes an integer into a float.
type Kind int

const (
	KindNumber Kind = iota
	KindInteger
	KindCategory
)

// A single feature value: either numeric (float or integer) or categorical.
type Value struct {
	kind Kind
	num  float64
	str  string
}

func Number(v float64) Value  { return Value{kind: KindNumber, num: v} }
func Integer(v int64) Value   { return Value{kind: KindInteger, num: float64(v)} }
func Category(v string) Value { return Value{kind: KindCategory, str: v} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) IsNumeric() bool { return v.kind != KindCategory }

// Get the numeric value. Zero for categorical values.
func (v Value) Float() float64 { return v.num }

// Get the numeric value rounded to an integer. Zero for categorical values.
func (v Value) Int() int64 { return int64(math.Round(v.num)) }

// Get the categorical value. Empty for numeric values.
func (v Value) Category() string { return v.str }

func (v Value) Equal(o Value) bool {
	if v.kind == KindCategory || o.kind == KindCategory {
		return v.kind == o.kind && v.str == o.str
	}
	return v.num == o.num
}

func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return fmt.Sprintf("%d", v.Int())
	case KindCategory:
		return v.str
	default:
		return fmt.Sprintf("%g", v.num)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInteger:
		return json.Marshal(v.Int())
	case KindCategory:
		return json.Marshal(v.str)
	default:
		return json.Marshal(v.num)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch value := raw.(type) {
	case string:
		*v = Category(value)
	case float64:
		// JSON has no integer type, so integral numbers are declared integers.
		if value == math.Trunc(value) {
			*v = Integer(int64(value))
		} else {
			*v = Number(value)
		}
	default:
		return fmt.Errorf("unsupported feature value: %v", raw)
	}
	return nil
}

// A named set of feature values.
type Set map[string]Value

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for name, value := range s {
		out[name] = value
	}
	return out
}
