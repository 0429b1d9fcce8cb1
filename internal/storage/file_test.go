package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreAppendAndRecent(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := Config{Driver: "file", Path: filepath.Join(dir, "history.db")}

	st, err := Open(cfg, slog.Default())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()

	for i, id := range []string{"100", "200", "300"} {
		e := DeliveryEntry{
			At:             time.Date(2024, 5, 1, 8, i, 0, 0, time.UTC),
			AnnouncementID: id,
			SecCode:        "000001",
			Title:          "股东回馈活动公告",
			Date:           "2024-05-01",
			DetailURL:      "https://www.cninfo.com.cn/new/disclosure/detail?orgId=1&announcementId=" + id + "&announcementTime=2024-05-01",
			ChatID:         -100123,
		}
		if err := st.AppendDelivery(ctx, e); err != nil {
			t.Fatalf("AppendDelivery: %v", err)
		}
	}

	got, err := st.RecentDeliveries(ctx, 2)
	if err != nil {
		t.Fatalf("RecentDeliveries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].AnnouncementID != "300" || got[1].AnnouncementID != "200" {
		t.Fatalf("unexpected order: %s, %s", got[0].AnnouncementID, got[1].AnnouncementID)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// reopen: tail must be reloaded from disk
	st2, err := Open(cfg, slog.Default())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st2.Close()
	got, err = st2.RecentDeliveries(ctx, 10)
	if err != nil {
		t.Fatalf("RecentDeliveries after reopen: %v", err)
	}
	if len(got) != 3 || got[0].AnnouncementID != "300" {
		t.Fatalf("after reopen: len=%d first=%v", len(got), got)
	}
}

func TestOpenDisabled(t *testing.T) {
	t.Parallel()
	for _, driver := range []string{"", "none"} {
		st, err := Open(Config{Driver: driver}, nil)
		if err != nil || st != nil {
			t.Fatalf("Open(%q) = %v, %v; want nil, nil", driver, st, err)
		}
	}
}
