package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_KeepsFieldOrder(t *testing.T) {
	r, err := Decode([]byte(`{"name":"Dock A","id":1,"enabled":true,"location":{"id":4,"name":"Bay"},"tags":["x",2]}`))
	require.NoError(t, err)

	names := make([]string, 0, r.Len())
	for _, f := range r.Fields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"name", "id", "enabled", "location", "tags"}, names)
	assert.Equal(t, `{"name":"Dock A","id":1,"enabled":true,"location":{"id":4,"name":"Bay"},"tags":["x",2]}`, r.String())
}

func TestDecode_RevivesDates(t *testing.T) {
	r, err := Decode([]byte(`{"seen":"2024-03-05T10:11:12.345Z","rfc":"Tue, 05 Mar 2024 10:11:12 GMT","plain":"2024-03-05"}`))
	require.NoError(t, err)

	seen, _ := r.Get("seen")
	ts, ok := seen.AsTime()
	require.True(t, ok, "iso string should be revived")
	assert.True(t, ts.Equal(time.Date(2024, 3, 5, 10, 11, 12, 345_000_000, time.UTC)), "got %v", ts)

	rfc, _ := r.Get("rfc")
	ts, ok = rfc.AsTime()
	require.True(t, ok, "gmt string should be revived")
	assert.True(t, ts.Equal(time.Date(2024, 3, 5, 10, 11, 12, 0, time.UTC)), "got %v", ts)

	plain, _ := r.Get("plain")
	assert.Equal(t, KindString, plain.Kind())

	// revived dates serialize back as ISO milliseconds
	assert.Equal(t, `{"seen":"2024-03-05T10:11:12.345Z","rfc":"2024-03-05T10:11:12.000Z","plain":"2024-03-05"}`, r.String())
}

func TestDecode_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	r, err := Decode([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"b":2}`, r.String())
}

func TestDecodeList(t *testing.T) {
	rs, err := DecodeList([]byte(`[{"id":1},{"id":"2"}]`))
	require.NoError(t, err)
	require.Len(t, rs, 2)

	id, ok := rs[0].ID()
	assert.True(t, ok)
	assert.Equal(t, "1", id)
	id, _ = rs[1].ID()
	assert.Equal(t, "2", id)

	_, err = DecodeList([]byte(`{"id":1}`))
	assert.Error(t, err)

	_, err = DecodeList([]byte(`[1,2]`))
	assert.ErrorIs(t, err, ErrNotObject)

	_, err = DecodeList([]byte(`[{"id":1}] trailing`))
	assert.Error(t, err)
}

func TestDecodeLenient(t *testing.T) {
	rs, err := DecodeLenient(nil)
	require.NoError(t, err)
	assert.Empty(t, rs)

	rs, err = DecodeLenient([]byte(`{"id":9}`))
	require.NoError(t, err)
	require.Len(t, rs, 1)

	rs, err = DecodeLenient([]byte(`[{"id":1},{"id":2}]`))
	require.NoError(t, err)
	assert.Len(t, rs, 2)

	_, err = DecodeLenient([]byte(`"text"`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestSerialization_EscapesLikeBrowser(t *testing.T) {
	r := New(
		Field{Name: "html", Value: String("<a&b>")},
		Field{Name: "quote", Value: String("say \"hi\"\n")},
		Field{Name: "ctrl", Value: String("\x01")},
		Field{Name: "uni", Value: String("Zürich")},
	)
	assert.Equal(t, `{"html":"<a&b>","quote":"say \"hi\"\n","ctrl":"\u0001","uni":"Zürich"}`, r.String())
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:       "0",
		1:       "1",
		-3:      "-3",
		1.5:     "1.5",
		0.1:     "0.1",
		1e21:    "1e+21",
		1.5e-7:  "1.5e-7",
		123456:  "123456",
		1e20:    "100000000000000000000",
		0.00001: "0.00001",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatNumber(in), "formatNumber(%v)", in)
	}
}

func TestSetDeleteClone(t *testing.T) {
	r := New(Field{Name: "id", Value: Number(1)})
	r.Set("name", String("A"))
	r.Set("id", Number(2))
	assert.Equal(t, `{"id":2,"name":"A"}`, r.String())

	c := r.Clone()
	c.Set("name", String("B"))
	assert.Equal(t, `{"id":2,"name":"A"}`, r.String())

	assert.True(t, c.Delete("name"))
	assert.False(t, c.Delete("name"))
	assert.Equal(t, `{"id":2}`, c.String())
}

func TestFromMapAndJSONRoundTrip(t *testing.T) {
	r := FromMap(map[string]any{"b": 1, "a": "2024-01-02T03:04:05.000Z", "c": nil})
	assert.Equal(t, `{"a":"2024-01-02T03:04:05.000Z","b":1,"c":null}`, r.String())

	a, _ := r.Get("a")
	assert.Equal(t, KindTime, a.Kind())

	var out Record
	require.NoError(t, json.Unmarshal([]byte(r.String()), &out))
	assert.Equal(t, r.String(), out.String())

	raw, err := json.Marshal([]Record{r})
	require.NoError(t, err)
	assert.Equal(t, "["+r.String()+"]", string(raw))
}

func TestValueText(t *testing.T) {
	assert.Equal(t, "7", Number(7).Text())
	assert.Equal(t, "x", String("x").Text())
	assert.Equal(t, "true", Bool(true).Text())
	assert.Equal(t, "", Null().Text())
	assert.Equal(t, "2024-01-02T03:04:05.000Z", Time(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)).Text())
	assert.Equal(t, `[1,"a"]`, Array(Number(1), String("a")).Text())
}
