package sheep

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultSourceURL is the cninfo full-text search for 股东回馈 announcements,
// newest first.
const DefaultSourceURL = "https://www.cninfo.com.cn/new/fulltextSearch/full?searchkey=%E8%82%A1%E4%B8%9C%E5%9B%9E%E9%A6%88&sdate=&edate=&isfulltext=false&sortName=pubdate&sortType=desc&pageNum=1&pageSize=20&type="

const detailURLBase = "https://www.cninfo.com.cn/new/disclosure/detail"

const snippetMax = 200

// Announcement is one validated, normalized disclosure record.
// Value type, produced fresh per fetch.
type Announcement struct {
	SecCode        string
	Title          string
	OrgID          string
	AnnouncementID string
	TimestampMS    int64
	Date           string // YYYY-MM-DD, derived from TimestampMS in local time
	DetailURL      string
}

// rawEntry mirrors one element of the source "announcements" array.
// Pointer fields distinguish absent/null from zero values.
type rawEntry struct {
	SecCode          *string `json:"secCode"`
	Title            *string `json:"announcementTitle"`
	OrgID            *string `json:"orgId"`
	AnnouncementID   *string `json:"announcementId"`
	AnnouncementTime *int64  `json:"announcementTime"`
}

func (r rawEntry) complete() bool {
	return r.SecCode != nil && r.Title != nil && r.OrgID != nil &&
		r.AnnouncementID != nil && r.AnnouncementTime != nil
}

// ExtractLatest parses a raw search payload and returns the newest valid
// announcement. It either returns a fully populated Announcement or fails
// with one of the typed errors in errors.go.
func ExtractLatest(body []byte) (Announcement, error) {
	if !json.Valid(body) {
		return Announcement{}, &FormatError{Reason: "not valid JSON"}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return Announcement{}, &FormatError{Reason: "top-level value is not an object", Snippet: snippet(body)}
	}

	rawList, ok := top["announcements"]
	if !ok {
		return Announcement{}, &FormatError{Reason: "missing 'announcements' key", Snippet: snippet(body)}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawList, &items); err != nil {
		return Announcement{}, &FormatError{Reason: "'announcements' is not an array", Snippet: snippet(rawList)}
	}

	if len(items) == 0 {
		return Announcement{}, ErrEmptyResult
	}

	// Stable max by announcementTime: strictly-greater wins, so the first
	// seen entry is kept on ties.
	var best rawEntry
	found := false
	for _, it := range items {
		var e rawEntry
		if err := json.Unmarshal(it, &e); err != nil {
			continue
		}
		if !e.complete() {
			continue
		}
		if !found || *e.AnnouncementTime > *best.AnnouncementTime {
			best = e
			found = true
		}
	}
	if !found {
		return Announcement{}, ErrNoValidEntries
	}

	ts := *best.AnnouncementTime
	date := time.UnixMilli(ts).Format("2006-01-02")
	ann := Announcement{
		SecCode:        *best.SecCode,
		Title:          cleanTitle(*best.Title),
		OrgID:          *best.OrgID,
		AnnouncementID: *best.AnnouncementID,
		TimestampMS:    ts,
		Date:           date,
		DetailURL: fmt.Sprintf("%s?orgId=%s&announcementId=%s&announcementTime=%s",
			detailURLBase, *best.OrgID, *best.AnnouncementID, date),
	}
	return ann, nil
}

// cleanTitle drops the <em>/</em> highlight markup the search endpoint
// injects around matched keywords. Idempotent.
func cleanTitle(s string) string {
	s = strings.ReplaceAll(s, "<em>", "")
	s = strings.ReplaceAll(s, "</em>", "")
	return s
}

// snippet truncates b to a short diagnostic string, cutting on a rune
// boundary so logs stay valid UTF-8.
func snippet(b []byte) string {
	if len(b) <= snippetMax {
		return string(b)
	}
	cut := snippetMax
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut]) + "..."
}
