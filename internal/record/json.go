package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-openapi/strfmt"
)

// ErrNotObject is returned when a payload element that must be a record is
// some other JSON value.
var ErrNotObject = errors.New("record: payload element is not an object")

// DecodeValue parses any JSON document, reviving date strings on the way.
func DecodeValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readValue(dec)
	if err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return Value{}, fmt.Errorf("record: trailing data after JSON value")
	}
	return v, nil
}

// Decode parses a single JSON object.
func Decode(data []byte) (Record, error) {
	v, err := DecodeValue(data)
	if err != nil {
		return Record{}, err
	}
	r, ok := v.AsObject()
	if !ok {
		return Record{}, ErrNotObject
	}
	return r, nil
}

// DecodeList parses a JSON array of objects.
func DecodeList(data []byte) ([]Record, error) {
	v, err := DecodeValue(data)
	if err != nil {
		return nil, err
	}
	arr, ok := v.AsArray()
	if !ok {
		return nil, fmt.Errorf("record: expected JSON array, got %s", v.Kind())
	}
	return objects(arr)
}

// DecodeLenient accepts an empty body, a single object or an array of
// objects. It mirrors how endpoints answer with either shape.
func DecodeLenient(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	v, err := DecodeValue(data)
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case KindNull:
		return nil, nil
	case KindObject:
		r, _ := v.AsObject()
		return []Record{r}, nil
	case KindArray:
		arr, _ := v.AsArray()
		return objects(arr)
	default:
		return nil, ErrNotObject
	}
}

func objects(arr []Value) ([]Record, error) {
	out := make([]Record, 0, len(arr))
	for i, e := range arr {
		r, ok := e.AsObject()
		if !ok {
			return nil, fmt.Errorf("element %d: %w", i, ErrNotObject)
		}
		out = append(out, r)
	}
	return out, nil
}

func readValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var r Record
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return Value{}, err
				}
				key, ok := kt.(string)
				if !ok {
					return Value{}, fmt.Errorf("record: unexpected object key %v", kt)
				}
				v, err := readValue(dec)
				if err != nil {
					return Value{}, err
				}
				r.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			if r.fields == nil {
				r.fields = []Field{}
			}
			return Object(r), nil
		case '[':
			arr := []Value{}
			for dec.More() {
				v, err := readValue(dec)
				if err != nil {
					return Value{}, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return Value{}, err
			}
			return Array(arr...), nil
		default:
			return Value{}, fmt.Errorf("record: unexpected delimiter %q", rune(t))
		}
	case string:
		return reviveString(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("record: number %q: %w", t, err)
		}
		return Number(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("record: unexpected token %v", tok)
	}
}

// MarshalJSON renders the canonical serialization.
func (v Value) MarshalJSON() ([]byte, error) { return v.AppendJSON(nil), nil }

// UnmarshalJSON decodes with date revival.
func (v *Value) UnmarshalJSON(data []byte) error {
	dv, err := DecodeValue(data)
	if err != nil {
		return err
	}
	*v = dv
	return nil
}

// MarshalJSON renders the canonical serialization.
func (r Record) MarshalJSON() ([]byte, error) { return r.AppendJSON(nil), nil }

// UnmarshalJSON decodes with date revival and keeps payload field order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dr, err := Decode(data)
	if err != nil {
		return err
	}
	*r = dr
	return nil
}

// String returns the canonical serialization.
func (r Record) String() string { return string(r.AppendJSON(nil)) }

// AppendJSON appends the canonical serialization of r: fields in order, no
// insignificant whitespace, dates as ISO-8601 UTC with milliseconds.
func (r Record) AppendJSON(buf []byte) []byte {
	buf = append(buf, '{')
	for i, f := range r.fields {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = appendQuoted(buf, f.Name)
		buf = append(buf, ':')
		buf = f.Value.AppendJSON(buf)
	}
	return append(buf, '}')
}

// AppendJSON appends the canonical serialization of v.
func (v Value) AppendJSON(buf []byte) []byte {
	switch v.kind {
	case KindBool:
		return strconv.AppendBool(buf, v.b)
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return append(buf, "null"...)
		}
		return append(buf, formatNumber(v.n)...)
	case KindTime:
		return appendQuoted(buf, formatTime(v.t))
	case KindString:
		return appendQuoted(buf, v.s)
	case KindArray:
		buf = append(buf, '[')
		for i, e := range v.arr {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = e.AppendJSON(buf)
		}
		return append(buf, ']')
	case KindObject:
		if v.obj == nil {
			return append(buf, "{}"...)
		}
		return v.obj.AppendJSON(buf)
	default:
		return append(buf, "null"...)
	}
}

const hexDigits = "0123456789abcdef"

// appendQuoted escapes only what JSON requires; HTML characters and
// non-ASCII text are written verbatim.
func appendQuoted(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for _, c := range s {
		switch c {
		case '"':
			buf = append(buf, '\\', '"')
		case '\\':
			buf = append(buf, '\\', '\\')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		default:
			if c < 0x20 {
				buf = append(buf, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
				continue
			}
			buf = utf8.AppendRune(buf, c)
		}
	}
	return append(buf, '"')
}

// formatNumber follows the shortest round-trip rendering used by browsers:
// plain decimal between 1e-6 and 1e21, exponent form outside it.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return strfmt.DateTime(t.UTC()).String()
}
