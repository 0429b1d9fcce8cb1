package sheep

import "perkbot/internal/kit"

// State holds the per-plugin delivery state. It lives from plugin start to
// stop and is deliberately not persisted: a restarted bot re-delivers at
// most one announcement, which is acceptable for this feed.
//
// Mutation is confined to two paths that never interleave mid-write: the
// daily loop after a successful send (LastDeliveredID) and the setgroup
// command (Destinations). The plugin guards both behind its own mutex
// anyway because status/read commands run on the dispatcher pool.
type State struct {
	LastDeliveredID string
	Destinations    []kit.ChatTarget
	PushHour        int
	PushMinute      int
}

// ShouldDeliver reports whether ann should go out today. Stale (non-today)
// announcements and repeats of the last delivered one are suppressed.
func (s *State) ShouldDeliver(ann Announcement, today string) bool {
	if ann.Date != today {
		return false
	}
	if ann.AnnouncementID == s.LastDeliveredID {
		return false
	}
	return true
}

// RecordDelivered marks ann as sent. Call only after at least one
// destination accepted the message; a failed send must leave the state
// untouched so the next cycle retries.
func (s *State) RecordDelivered(ann Announcement) {
	s.LastDeliveredID = ann.AnnouncementID
}
