package sheep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientLatestOK(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"announcements": [` + entryJSON("000001", "ok", "1", "A1", 1000) + `]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	ann, err := c.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if ann.AnnouncementID != "A1" {
		t.Fatalf("AnnouncementID = %q, want A1", ann.AnnouncementID)
	}
}

func TestClientLatestServerError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Latest(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
}

func TestClientLatestTimeout(t *testing.T) {
	t.Parallel()
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(srv.URL, 50*time.Millisecond)
	_, err := c.Latest(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *FetchError", err)
	}
}

func TestClientLatestBadPayload(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`this is not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Latest(context.Background())
	var fo *FormatError
	if !errors.As(err, &fo) {
		t.Fatalf("error = %v, want *FormatError", err)
	}
}

func TestParsePushTime(t *testing.T) {
	t.Parallel()
	h, m, err := parsePushTime("08:00")
	if err != nil {
		t.Fatalf("parsePushTime error: %v", err)
	}
	if h != 8 || m != 0 {
		t.Fatalf("unexpected result: %d:%d", h, m)
	}

	for _, bad := range []string{"", "8", "24:00", "12:60", "ab:cd"} {
		if _, _, err := parsePushTime(bad); err == nil {
			t.Fatalf("parsePushTime(%q) should fail", bad)
		}
	}
}
