package record

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindTime
	KindString
	KindArray
	KindObject
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindTime:
		return "time"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a tagged union over the shapes a field can take after the payload
// has been decoded and its date strings revived. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	t    time.Time
	arr  []Value
	obj  *Record
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps b.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps f.
func Number(f float64) Value { return Value{kind: KindNumber, n: f} }

// String wraps s. No date revival is applied.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Time wraps t, normalised to UTC.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t.UTC()} }

// Array wraps vs.
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }

// Object wraps a nested record.
func Object(r Record) Value { return Value{kind: KindObject, obj: &r} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the numeric payload and whether v is a number.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string payload and whether v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsTime returns the time payload and whether v is a time.
func (v Value) AsTime() (time.Time, bool) { return v.t, v.kind == KindTime }

// AsArray returns the array elements and whether v is an array.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the nested record and whether v is an object.
func (v Value) AsObject() (Record, bool) {
	if v.kind != KindObject || v.obj == nil {
		return Record{}, false
	}
	return *v.obj, true
}

// Text renders scalars the way they appear in a URL path or a log line:
// strings verbatim, numbers without exponent where possible, times as
// ISO-8601 UTC milliseconds. Arrays and objects render as their JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.s
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.n)
	case KindTime:
		return formatTime(v.t)
	default:
		return string(v.AppendJSON(nil))
	}
}

// Interface converts v to plain Go values (nil, bool, float64, time.Time,
// string, []any, map[string]any).
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindTime:
		return v.t
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		if v.obj == nil {
			return map[string]any{}
		}
		return v.obj.Map()
	default:
		return nil
	}
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, e := range v.arr {
			arr[i] = e.Clone()
		}
		return Value{kind: KindArray, arr: arr}
	case KindObject:
		if v.obj == nil {
			return Object(Record{})
		}
		return Object(v.obj.Clone())
	default:
		return v
	}
}

// FromAny converts decoded Go values into a Value. Strings pass through date
// revival so that values built from maps behave like decoded payloads.
// Unsupported types are rendered with fmt.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case Record:
		return Object(t)
	case []Record:
		arr := make([]Value, len(t))
		for i, r := range t {
			arr[i] = Object(r)
		}
		return Array(arr...)
	case bool:
		return Bool(t)
	case string:
		return reviveString(t)
	case time.Time:
		return Time(t)
	case int:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case float32:
		return Number(float64(t))
	case float64:
		return Number(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case []any:
		arr := make([]Value, len(t))
		for i, e := range t {
			arr[i] = FromAny(e)
		}
		return Array(arr...)
	case []string:
		arr := make([]Value, len(t))
		for i, e := range t {
			arr[i] = reviveString(e)
		}
		return Array(arr...)
	case map[string]any:
		return Object(FromMap(t))
	default:
		return String(fmt.Sprint(t))
	}
}
