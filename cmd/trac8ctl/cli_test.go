package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mazi76erX2/trac8-frontend/internal/devserver"
	"github.com/mazi76erX2/trac8-frontend/internal/devserver/store"
	"github.com/mazi76erX2/trac8-frontend/internal/record"
)

func startDev(t *testing.T) (*devserver.Server, string) {
	t.Helper()
	st, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	s := devserver.New(st, devserver.WithToken("cli-token"))

	ctx := context.Background()
	for i, name := range []string{"Dock A", "Dock B", "Warehouse"} {
		r := record.New(
			record.Field{Name: "id", Value: record.Number(float64(i + 1))},
			record.Field{Name: "name", Value: record.String(name)},
		)
		require.NoError(t, s.Seed(ctx, "reader", r))
		require.NoError(t, s.Seed(ctx, "location", r))
	}
	hs := httptest.NewServer(s.Handler())
	t.Cleanup(hs.Close)
	return s, hs.URL
}

func run(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--api-url", url, "--token", "cli-token"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestListPaged(t *testing.T) {
	_, url := startDev(t)
	for _, res := range []string{"reader", "location"} {
		out, err := run(t, url, "list", res, "--sort", "name", "--order", "asc", "--page", "2", "--page-size", "2")
		require.NoError(t, err, res)
		assert.Equal(t, []string{`{"id":3,"name":"Warehouse"}`, "total: 3"}, lines(out), res)
	}
}

func TestListAllWithSearch(t *testing.T) {
	_, url := startDev(t)
	out, err := run(t, url, "list", "reader", "--all", "--search", "DOCK", "--sort", "name")
	require.NoError(t, err)
	assert.Equal(t, []string{
		`{"id":2,"name":"Dock B"}`,
		`{"id":1,"name":"Dock A"}`,
		"total: 2",
	}, lines(out))
}

func TestGetAndCount(t *testing.T) {
	_, url := startDev(t)

	out, err := run(t, url, "get", "reader", "2")
	require.NoError(t, err)
	assert.Equal(t, `{"id":2,"name":"Dock B"}`, strings.TrimSpace(out))

	out, err = run(t, url, "get", "reader", "2", "--search", "warehouse")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))

	out, err = run(t, url, "count", "location", "--search", "dock")
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))
}

func TestReaderCommands(t *testing.T) {
	s, url := startDev(t)

	out, err := run(t, url, "readers", "connect", "1", "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"connect 1: ok", "connect 3: ok"}, lines(out))
	assert.True(t, s.Connected("1"))

	s.RaiseAlarm("2")
	out, err = run(t, url, "readers", "stop-alarm", "--async", "2")
	require.NoError(t, err)
	assert.Equal(t, "stop-alarm 2: enqueued", strings.TrimSpace(out))
	assert.False(t, s.Alarming("2"))

	out, err = run(t, url, "readers", "status")
	require.NoError(t, err)
	got := lines(out)
	require.Len(t, got, 5)
	assert.Equal(t, []string{"ID", "NAME", "CONNECTED"}, strings.Fields(got[0]))
	assert.Equal(t, []string{"1", "Dock", "A", "true"}, strings.Fields(got[1]))
	assert.Equal(t, []string{"2", "Dock", "B", "false"}, strings.Fields(got[2]))
	assert.Equal(t, "total: 3", got[4])

	_, err = run(t, url, "readers", "disconnect", "99")
	assert.ErrorContains(t, err, "reader 99")
}

func TestErrors(t *testing.T) {
	_, url := startDev(t)

	_, err := run(t, url, "list", "spaceship")
	assert.ErrorContains(t, err, "unknown resource")

	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--api-url", url, "list", "reader"})
	assert.Error(t, cmd.Execute(), "missing token")

	t.Setenv("TRAC8_PAGE_SIZE", "0")
	_, err = run(t, url, "count", "reader")
	assert.ErrorContains(t, err, "PAGE_SIZE")
}
