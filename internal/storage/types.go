package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free file backend (jsonl)
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// DeliveryEntry records one announcement push to one destination.
// Keep it compact and schema-stable.
type DeliveryEntry struct {
	At             time.Time `json:"at"`
	AnnouncementID string    `json:"announcement_id"`
	SecCode        string    `json:"sec_code"`
	Title          string    `json:"title"`
	Date           string    `json:"date"`
	DetailURL      string    `json:"detail_url"`
	ChatID         int64     `json:"chat_id"`
}
