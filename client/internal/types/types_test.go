package types

import "testing"

func TestParseReaderCommand(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"connect", "disconnect", "stop-alarm"} {
		c, err := ParseReaderCommand(in)
		if err != nil || string(c) != in {
			t.Fatalf("ParseReaderCommand(%q) = %q, %v", in, c, err)
		}
	}
	for _, in := range []string{"", "Connect", "reboot"} {
		if _, err := ParseReaderCommand(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestCountResponseInt(t *testing.T) {
	t.Parallel()
	n, err := CountResponse{Data: " 42\n"}.Int()
	if err != nil || n != 42 {
		t.Fatalf("Int() = %d, %v", n, err)
	}
	if _, err := (CountResponse{Data: "many"}).Int(); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestListOptionsQuery(t *testing.T) {
	t.Parallel()
	q := ListOptions{SortField: "name", SortMethod: "asc", Page: 2, PageSize: 5, SearchQuery: "dock", ID: "3", FilterModel: map[string]any{"x": 1}}.Query()
	if q.SortField != "name" || q.SortMethod != "asc" || q.Page != 2 || q.PageSize != 5 || q.SearchQuery != "dock" || q.ID != "3" {
		t.Fatalf("unexpected query %+v", q)
	}
}

func TestListResponseFirst(t *testing.T) {
	t.Parallel()
	var nilResp *ListResponse
	if _, ok := nilResp.First(); ok {
		t.Fatal("nil response has no first record")
	}
	if _, ok := (&ListResponse{}).First(); ok {
		t.Fatal("empty response has no first record")
	}
}
