// Package record models the schemaless rows returned by the trac8 REST API.
//
// A Record keeps its fields in payload order so that its canonical
// serialization (used by free-text search) is stable across calls.
package record

import (
	"sort"
)

// IDField is the field every record is keyed by within its collection.
const IDField = "id"

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value Value
}

// Record is an ordered mapping from field name to Value.
type Record struct {
	fields []Field
}

// New builds a record from fields in the given order. Later duplicates
// overwrite earlier ones in place.
func New(fields ...Field) Record {
	var r Record
	for _, f := range fields {
		r.Set(f.Name, f.Value)
	}
	return r
}

// FromMap builds a record from m with keys in sorted order.
func FromMap(m map[string]any) Record {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := Record{fields: make([]Field, 0, len(keys))}
	for _, k := range keys {
		r.fields = append(r.fields, Field{Name: k, Value: FromAny(m[k])})
	}
	return r
}

// Len reports the number of fields.
func (r Record) Len() int { return len(r.fields) }

// Fields returns the fields in order. The slice must not be modified.
func (r Record) Fields() []Field { return r.fields }

// Get returns the value of the named field.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Set replaces the named field or appends it.
func (r *Record) Set(name string, v Value) {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i].Value = v
			return
		}
	}
	r.fields = append(r.fields, Field{Name: name, Value: v})
}

// Delete removes the named field and reports whether it was present.
func (r *Record) Delete(name string) bool {
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields = append(r.fields[:i], r.fields[i+1:]...)
			return true
		}
	}
	return false
}

// ID returns the record's id rendered as text. Numeric ids render without a
// fractional part so that 7 and "7" address the same record.
func (r Record) ID() (string, bool) {
	v, ok := r.Get(IDField)
	if !ok || v.IsNull() {
		return "", false
	}
	return v.Text(), true
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	if r.fields == nil {
		return Record{}
	}
	out := Record{fields: make([]Field, len(r.fields))}
	for i, f := range r.fields {
		out.fields[i] = Field{Name: f.Name, Value: f.Value.Clone()}
	}
	return out
}

// Map converts the record to plain Go values.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		m[f.Name] = f.Value.Interface()
	}
	return m
}
