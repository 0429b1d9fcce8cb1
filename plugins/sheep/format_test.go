package sheep

import (
	"strings"
	"testing"
)

func TestFormatFullContainsAllFields(t *testing.T) {
	t.Parallel()
	ann := Announcement{
		SecCode:        "000001",
		Title:          "股东回馈活动公告",
		Date:           "2024-05-01",
		DetailURL:      "https://www.cninfo.com.cn/new/disclosure/detail?orgId=1&announcementId=2&announcementTime=2024-05-01",
		AnnouncementID: "2",
	}
	out := FormatFull(ann)
	for _, want := range []string{ann.Date, ann.SecCode, ann.Title, ann.DetailURL} {
		if !strings.Contains(out, want) {
			t.Fatalf("FormatFull output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) < 5 {
		t.Fatalf("FormatFull has %d lines, want >= 5", len(lines))
	}
}

func TestFormatDateOnly(t *testing.T) {
	t.Parallel()
	ann := Announcement{Date: "2024-05-01"}
	if got := FormatDateOnly(ann); got != "2024-05-01" {
		t.Fatalf("FormatDateOnly = %q", got)
	}
}
