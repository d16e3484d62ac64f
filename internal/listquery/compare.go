package listquery

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

// sortKey is the value found at the sort field, or its absence.
type sortKey struct {
	v       record.Value
	present bool
}

// rank orders kinds against each other: missing and null first, then
// bool, number, time, string, and arrays/objects last.
func (k sortKey) rank() int {
	if !k.present {
		return 0
	}
	switch k.v.Kind() {
	case record.KindNull:
		return 0
	case record.KindBool:
		return 1
	case record.KindNumber:
		return 2
	case record.KindTime:
		return 3
	case record.KindString:
		return 4
	default:
		return 5
	}
}

// compareKeys is a total order over sort keys. It never fails, whatever mix
// of kinds a collection holds under one field.
func compareKeys(a, b sortKey) int {
	ra, rb := a.rank(), b.rank()
	if ra != rb {
		return cmp.Compare(ra, rb)
	}
	switch ra {
	case 0:
		return 0
	case 1:
		ab, _ := a.v.AsBool()
		bb, _ := b.v.AsBool()
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		default:
			return 1
		}
	case 2:
		an, _ := a.v.AsNumber()
		bn, _ := b.v.AsNumber()
		return cmp.Compare(an, bn)
	case 3:
		at, _ := a.v.AsTime()
		bt, _ := b.v.AsTime()
		return at.Compare(bt)
	case 4:
		as, _ := a.v.AsString()
		bs, _ := b.v.AsString()
		return strings.Compare(as, bs)
	default:
		return strings.Compare(string(a.v.AppendJSON(nil)), string(b.v.AppendJSON(nil)))
	}
}

// FieldValue resolves field on r. A name present verbatim wins; otherwise a
// dotted name walks nested objects and array indexes ("location.name",
// "tags.0").
func FieldValue(r record.Record, field string) (record.Value, bool) {
	if v, ok := r.Get(field); ok {
		return v, true
	}
	if !strings.Contains(field, ".") {
		return record.Value{}, false
	}
	parts := strings.Split(field, ".")
	cur, ok := r.Get(parts[0])
	if !ok {
		return record.Value{}, false
	}
	for _, p := range parts[1:] {
		switch cur.Kind() {
		case record.KindObject:
			obj, _ := cur.AsObject()
			if cur, ok = obj.Get(p); !ok {
				return record.Value{}, false
			}
		case record.KindArray:
			arr, _ := cur.AsArray()
			i, err := strconv.Atoi(p)
			if err != nil || i < 0 || i >= len(arr) {
				return record.Value{}, false
			}
			cur = arr[i]
		default:
			return record.Value{}, false
		}
	}
	return cur, true
}

// Sort returns a new slice of records ordered by field in direction dir.
// The sort is stable: records with equal keys keep their input order in
// both directions. The input slice is not modified.
func Sort(records []record.Record, field string, dir Direction) []record.Record {
	type keyed struct {
		r record.Record
		k sortKey
	}
	ks := make([]keyed, len(records))
	for i, r := range records {
		v, ok := FieldValue(r, field)
		ks[i] = keyed{r: r, k: sortKey{v: v, present: ok}}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int {
		c := compareKeys(a.k, b.k)
		if dir == Descending {
			return -c
		}
		return c
	})

	out := make([]record.Record, len(ks))
	for i, k := range ks {
		out[i] = k.r
	}
	return out
}
