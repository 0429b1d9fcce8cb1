package sheep

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func entryJSON(sec, title, org, id string, ts int64) string {
	return fmt.Sprintf(`{"secCode":%q,"announcementTitle":%q,"orgId":%q,"announcementId":%q,"announcementTime":%d}`,
		sec, title, org, id, ts)
}

func TestExtractLatestFormatErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `{"announcements": [`},
		{name: "top-level array", body: `[1,2,3]`},
		{name: "missing key", body: `{"totalpages": 3}`},
		{name: "not an array", body: `{"announcements": {"a": 1}}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractLatest([]byte(tt.body))
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error = %v, want *FormatError", err)
			}
		})
	}
}

func TestExtractLatestSnippetTruncated(t *testing.T) {
	t.Parallel()
	long := `{"unexpected":"` + strings.Repeat("x", 500) + `"}`
	_, err := ExtractLatest([]byte(long))
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *FormatError", err)
	}
	if len(fe.Snippet) > snippetMax+3 {
		t.Fatalf("snippet length = %d, want <= %d", len(fe.Snippet), snippetMax+3)
	}
}

func TestExtractLatestEmptyAndInvalid(t *testing.T) {
	t.Parallel()

	_, err := ExtractLatest([]byte(`{"announcements": []}`))
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("error = %v, want ErrEmptyResult", err)
	}

	// entries present but none complete: null and missing fields
	body := `{"announcements": [
		{"secCode":"000001","announcementTitle":"t","orgId":null,"announcementId":"A1","announcementTime":1},
		{"secCode":"000002","announcementTitle":"t","announcementId":"A2","announcementTime":2}
	]}`
	_, err = ExtractLatest([]byte(body))
	if !errors.Is(err, ErrNoValidEntries) {
		t.Fatalf("error = %v, want ErrNoValidEntries", err)
	}
}

func TestExtractLatestPicksMax(t *testing.T) {
	t.Parallel()
	body := `{"announcements": [` +
		entryJSON("000001", "older", "1", "A1", 100) + "," +
		entryJSON("000002", "newest", "2", "A2", 300) + "," +
		entryJSON("000003", "middle", "3", "A3", 200) +
		`]}`
	ann, err := ExtractLatest([]byte(body))
	if err != nil {
		t.Fatalf("ExtractLatest error: %v", err)
	}
	if ann.AnnouncementID != "A2" || ann.Title != "newest" {
		t.Fatalf("picked %s (%s), want A2 (newest)", ann.AnnouncementID, ann.Title)
	}
}

func TestExtractLatestTieKeepsFirst(t *testing.T) {
	t.Parallel()
	body := `{"announcements": [` +
		entryJSON("000001", "first", "1", "A1", 500) + "," +
		entryJSON("000002", "second", "2", "A2", 500) +
		`]}`
	ann, err := ExtractLatest([]byte(body))
	if err != nil {
		t.Fatalf("ExtractLatest error: %v", err)
	}
	if ann.AnnouncementID != "A1" {
		t.Fatalf("picked %s, want A1 (first seen wins ties)", ann.AnnouncementID)
	}
}

func TestExtractLatestSkipsIncomplete(t *testing.T) {
	t.Parallel()
	// the incomplete entry has the highest timestamp but must be ignored
	body := `{"announcements": [` +
		entryJSON("000001", "valid", "1", "A1", 100) + "," +
		`{"secCode":"000009","announcementTitle":"broken","orgId":"9","announcementId":"A9","announcementTime":null}` +
		`]}`
	ann, err := ExtractLatest([]byte(body))
	if err != nil {
		t.Fatalf("ExtractLatest error: %v", err)
	}
	if ann.AnnouncementID != "A1" {
		t.Fatalf("picked %s, want A1", ann.AnnouncementID)
	}
}

func TestExtractLatestNormalizes(t *testing.T) {
	t.Parallel()
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local).UnixMilli()
	body := `{"announcements": [` + entryJSON("000001", "<em>Test</em> Notice", "123", "456", ts) + `]}`
	ann, err := ExtractLatest([]byte(body))
	if err != nil {
		t.Fatalf("ExtractLatest error: %v", err)
	}
	if ann.Title != "Test Notice" {
		t.Fatalf("Title = %q, want %q", ann.Title, "Test Notice")
	}
	if ann.Date != "2024-05-01" {
		t.Fatalf("Date = %q, want 2024-05-01", ann.Date)
	}
	want := "https://www.cninfo.com.cn/new/disclosure/detail?orgId=123&announcementId=456&announcementTime=2024-05-01"
	if ann.DetailURL != want {
		t.Fatalf("DetailURL = %q, want %q", ann.DetailURL, want)
	}
}

func TestCleanTitleIdempotent(t *testing.T) {
	t.Parallel()
	clean := "某公司关于股东回馈活动的公告"
	if got := cleanTitle(clean); got != clean {
		t.Fatalf("cleanTitle changed a clean title: %q", got)
	}
	if got := cleanTitle("<em>股东回馈</em>公告"); got != "股东回馈公告" {
		t.Fatalf("cleanTitle = %q", got)
	}
}
