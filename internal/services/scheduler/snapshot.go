package scheduler

import "time"

func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	enabled := s.cfg.Enabled
	tz := s.cfg.Timezone
	workers := s.cfg.Workers
	defTimeout := s.cfg.DefaultTimeout
	defs := make([]scheduleDef, len(s.defs))
	copy(defs, s.defs)
	c := s.c
	loc := s.loc
	queue := s.queue
	s.mu.Unlock()

	if loc == nil {
		loc = time.Local
	}
	if tz == "" {
		tz = loc.String()
	}
	if workers <= 0 {
		workers = 2
	}

	items := make([]ScheduleInfo, 0, len(defs))
	for _, d := range defs {
		it := ScheduleInfo{ID: d.id, Name: d.name, Spec: d.spec, Timeout: d.timeout}
		if c != nil && d.entryID != 0 {
			e := c.Entry(d.entryID)
			it.Next = e.Next
			it.Prev = e.Prev
		}
		items = append(items, it)
	}

	ql, qc := 0, 0
	if queue != nil {
		ql, qc = len(queue), cap(queue)
	}

	s.hmu.Lock()
	hist := make([]RunRecord, len(s.history))
	copy(hist, s.history)
	s.hmu.Unlock()

	return Snapshot{
		Enabled:        enabled,
		Timezone:       tz,
		Workers:        workers,
		QueueLen:       ql,
		QueueCap:       qc,
		DefaultTimeout: defTimeout,
		Schedules:      items,
		History:        hist,
	}
}
