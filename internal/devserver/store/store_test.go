package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

func openMem(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func named(name string) record.Record {
	return record.New(record.Field{Name: "name", Value: record.String(name)})
}

func TestPutAssignsIDsAndKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)

	a, err := s.Put(ctx, "location", named("North"))
	require.NoError(t, err)
	b, err := s.Put(ctx, "location", named("South"))
	require.NoError(t, err)

	aid, _ := a.ID()
	bid, _ := b.ID()
	assert.Equal(t, "1", aid)
	assert.Equal(t, "2", bid)

	all, err := s.List(ctx, "location")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, `{"name":"North","id":1}`, all[0].String())

	other, err := s.List(ctx, "tag")
	require.NoError(t, err)
	assert.NotNil(t, other)
	assert.Empty(t, other)
}

func TestPutReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	for _, n := range []string{"A", "B", "C"} {
		_, err := s.Put(ctx, "reader", named(n))
		require.NoError(t, err)
	}
	upd := named("B2")
	upd.Set(record.IDField, record.Number(2))
	_, err := s.Put(ctx, "reader", upd)
	require.NoError(t, err)

	all, err := s.List(ctx, "reader")
	require.NoError(t, err)
	require.Len(t, all, 3)
	v, _ := all[1].Get("name")
	assert.Equal(t, "B2", v.Text())

	got, err := s.Get(ctx, "reader", "2")
	require.NoError(t, err)
	assert.Equal(t, all[1].String(), got.String())
}

func TestNextIDIgnoresTextIDs(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	r := named("x")
	r.Set(record.IDField, record.String("abc"))
	_, err := s.Put(ctx, "tag", r)
	require.NoError(t, err)
	r2 := named("y")
	r2.Set(record.IDField, record.Number(41))
	_, err = s.Put(ctx, "tag", r2)
	require.NoError(t, err)

	n, err := s.NextID(ctx, "tag")
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)
}

func TestGetDeleteNotFound(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	_, err := s.Get(ctx, "item", "9")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "item", "9"), ErrNotFound)

	_, err = s.Put(ctx, "item", named("box"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, "item", "1"))
	_, err = s.Get(ctx, "item", "1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDatesSurviveRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openMem(t)
	r, err := record.Decode([]byte(`{"id":1,"updated":"2024-03-01T10:00:00.000Z"}`))
	require.NoError(t, err)
	_, err = s.Put(ctx, "read_event", r)
	require.NoError(t, err)

	got, err := s.Get(ctx, "read_event", "1")
	require.NoError(t, err)
	v, _ := got.Get("updated")
	assert.Equal(t, record.KindTime, v.Kind())
}

func TestCountsAndFileBacked(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dev.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Put(ctx, "user", named("ann"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "user", named("bob"))
	require.NoError(t, err)
	require.NoError(t, s.HealthPing(ctx))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"user": 2}, counts)
}
