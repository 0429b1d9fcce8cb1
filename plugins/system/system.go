// Package system exposes process health and scheduler inspection commands.
package system

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"perkbot/internal/core"
	"perkbot/internal/kit"
)

type Plugin struct {
	core.PluginBase
	startedAt time.Time
}

func New() *Plugin             { return &Plugin{} }
func (p *Plugin) Name() string { return "system" }

func (p *Plugin) Init(ctx context.Context, deps core.PluginDeps) error {
	p.InitBase(deps, p.Name())
	if p.startedAt.IsZero() {
		p.startedAt = time.Now()
	}
	return nil
}

func (p *Plugin) Start(ctx context.Context) error {
	p.StartBase(ctx)
	return nil
}

func (p *Plugin) Stop(ctx context.Context) error { return p.StopBase(ctx) }

func (p *Plugin) Commands() []core.Command {
	return []core.Command{
		{
			Route:       "ping",
			Aliases:     []string{"health"},
			Description: "health check",
			Usage:       "/ping",
			Access:      core.AccessEveryone,
			Handle: func(ctx context.Context, req *core.Request) error {
				_, _ = req.Adapter.SendText(ctx, req.Chat, "pong", nil)
				return nil
			},
		},
		{
			Route:       "uptime",
			Aliases:     []string{"up"},
			Description: "show process uptime",
			Usage:       "/uptime",
			Access:      core.AccessEveryone,
			Handle: func(ctx context.Context, req *core.Request) error {
				_, _ = req.Adapter.SendText(ctx, req.Chat, "uptime: "+durRel(time.Since(p.startedAt)), nil)
				return nil
			},
		},
		{
			Route:       "sysinfo",
			Description: "runtime/system info (owner only)",
			Usage:       "/sysinfo",
			Access:      core.AccessOwnerOnly,
			Handle:      p.cmdSysinfo,
		},
		{
			Route:       "sched list",
			Aliases:     []string{"tasks"},
			Description: "list scheduled tasks (owner only)",
			Usage:       "/sched_list",
			Access:      core.AccessOwnerOnly,
			Handle:      p.cmdSchedList,
		},
		{
			Route:       "sched runs",
			Description: "recent scheduler runs (owner only)",
			Usage:       "/sched_runs",
			Access:      core.AccessOwnerOnly,
			Handle:      p.cmdSchedRuns,
		},
	}
}

func (p *Plugin) cmdSysinfo(ctx context.Context, req *core.Request) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	mod := ""
	if bi, ok := debug.ReadBuildInfo(); ok {
		mod = bi.Main.Path + " " + bi.Main.Version
	}

	msg := strings.Join([]string{
		"🧠 *sysinfo*",
		"- go: " + runtime.Version(),
		"- module: " + mod,
		fmt.Sprintf("- goroutines: %d", runtime.NumGoroutine()),
		"- mem_alloc: " + fmtBytes(m.Alloc),
		"- mem_sys: " + fmtBytes(m.Sys),
		"- uptime: " + durRel(time.Since(p.startedAt)),
	}, "\n")

	_, _ = req.Adapter.SendText(ctx, req.Chat, msg, &kit.SendOptions{ParseMode: "Markdown"})
	return nil
}

func (p *Plugin) cmdSchedList(ctx context.Context, req *core.Request) error {
	s := p.scheduler()
	if s == nil || !s.Enabled() {
		_, _ = req.Adapter.SendText(ctx, req.Chat, "scheduler is disabled", nil)
		return nil
	}

	snap := s.Snapshot()
	if len(snap.Schedules) == 0 {
		_, _ = req.Adapter.SendText(ctx, req.Chat, "no scheduled tasks", nil)
		return nil
	}

	sort.Slice(snap.Schedules, func(i, j int) bool { return snap.Schedules[i].Name < snap.Schedules[j].Name })

	now := time.Now()
	lines := make([]string, 0, len(snap.Schedules)+2)
	lines = append(lines, "⏱ scheduled tasks ("+snap.Timezone+"):")
	lines = append(lines, fmt.Sprintf("- workers: %d, queue: %d/%d", snap.Workers, snap.QueueLen, snap.QueueCap))

	for _, t := range snap.Schedules {
		next := "-"
		if !t.Next.IsZero() {
			next = t.Next.Local().Format("2006-01-02 15:04:05")
			if t.Next.After(now) {
				next += " (" + durRel(t.Next.Sub(now)) + ")"
			}
		}
		timeout := "-"
		if t.Timeout > 0 {
			timeout = t.Timeout.String()
		}
		lines = append(lines, fmt.Sprintf("- %s: spec=%s, next=%s, timeout=%s", t.Name, t.Spec, next, timeout))
	}

	_, _ = req.Adapter.SendText(ctx, req.Chat, strings.Join(lines, "\n"), &kit.SendOptions{DisablePreview: true})
	return nil
}

func (p *Plugin) cmdSchedRuns(ctx context.Context, req *core.Request) error {
	s := p.scheduler()
	if s == nil || !s.Enabled() {
		_, _ = req.Adapter.SendText(ctx, req.Chat, "scheduler is disabled", nil)
		return nil
	}

	snap := s.Snapshot()
	if len(snap.History) == 0 {
		_, _ = req.Adapter.SendText(ctx, req.Chat, "no runs recorded yet", nil)
		return nil
	}

	const show = 15
	hist := snap.History
	if len(hist) > show {
		hist = hist[len(hist)-show:]
	}

	lines := make([]string, 0, len(hist)+1)
	lines = append(lines, fmt.Sprintf("🗒 last %d runs:", len(hist)))
	for i := len(hist) - 1; i >= 0; i-- {
		r := hist[i]
		status := "ok"
		if r.Error != "" {
			status = "err: " + r.Error
		}
		line := fmt.Sprintf("- %s %s (%s, %s)",
			r.Started.Local().Format("15:04:05"), r.Name, r.Duration.Round(time.Millisecond), status)
		if r.Attempts > 1 {
			line += fmt.Sprintf(" attempts=%d", r.Attempts)
		}
		lines = append(lines, line)
	}

	_, _ = req.Adapter.SendText(ctx, req.Chat, strings.Join(lines, "\n"), &kit.SendOptions{DisablePreview: true})
	return nil
}

func (p *Plugin) scheduler() core.SchedulerPort {
	if p.Deps.Services == nil {
		return nil
	}
	return p.Deps.Services.Scheduler
}

func fmtBytes(n uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case n >= gb:
		return fmt.Sprintf("%.1fGB", float64(n)/gb)
	case n >= mb:
		return fmt.Sprintf("%.1fMB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.1fKB", float64(n)/kb)
	default:
		return fmt.Sprintf("%dB", n)
	}
}

func durRel(d time.Duration) string {
	if d < 0 {
		d = -d
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
}
