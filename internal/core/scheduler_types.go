package core

import sch "perkbot/internal/services/scheduler"

// Re-export scheduler types for the plugin SDK so plugin packages do not
// import internal/services/scheduler directly.
type Snapshot = sch.Snapshot
type ScheduleInfo = sch.ScheduleInfo
type RunRecord = sch.RunRecord
