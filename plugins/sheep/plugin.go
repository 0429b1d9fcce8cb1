package sheep

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"perkbot/internal/core"
	"perkbot/internal/kit"
	"perkbot/internal/storage"
)

const defaultPushTime = "08:00"

type Config struct {
	// SourceURL overrides the built-in cninfo search endpoint.
	SourceURL string `json:"source_url"`
	// PushTime is the daily trigger wall-clock time, "HH:MM".
	PushTime string `json:"push_time"`
	// Destinations are chat ids pushed to on the daily run. Can also be
	// set at runtime with /sheep setgroup.
	Destinations []int64 `json:"destinations"`
	// FetchTimeout is a Go duration string (default "10s").
	FetchTimeout string `json:"fetch_timeout"`
	// Recheck optionally adds an interval re-check between daily runs,
	// e.g. "2h". Empty disables it. The dedup gate keeps re-checks from
	// double-sending.
	Recheck string `json:"recheck"`
	// History optionally records delivered announcements. Best effort:
	// dedup decisions never depend on it.
	History HistoryConfig `json:"history"`
}

type HistoryConfig struct {
	Driver string `json:"driver"` // "", "none", "file", "sqlite"
	Path   string `json:"path"`
}

type Plugin struct {
	core.PluginBase

	mu        sync.Mutex
	cfg       Config
	client    *Client
	state     State
	store     storage.Store
	startedAt time.Time

	loop *dailyLoop
}

func New() *Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return "sheep" }

func (p *Plugin) Init(ctx context.Context, deps core.PluginDeps) error {
	p.InitBase(deps, p.Name())
	p.mu.Lock()
	defer p.mu.Unlock()
	p.client = NewClient("", 0)
	h, m, _ := parsePushTime(defaultPushTime)
	p.state.PushHour, p.state.PushMinute = h, m
	return nil
}

func (p *Plugin) ValidateConfig(ctx context.Context, raw json.RawMessage) error {
	cfg, err := core.DecodePluginConfig[Config](raw)
	if err != nil {
		return err
	}
	if cfg.PushTime != "" {
		if _, _, err := parsePushTime(cfg.PushTime); err != nil {
			return fmt.Errorf("push_time: %w", err)
		}
	}
	if cfg.FetchTimeout != "" {
		d, err := time.ParseDuration(cfg.FetchTimeout)
		if err != nil {
			return fmt.Errorf("fetch_timeout: %w", err)
		}
		if d < time.Second || d > time.Minute {
			return fmt.Errorf("fetch_timeout: %s outside 1s..60s", cfg.FetchTimeout)
		}
	}
	if cfg.Recheck != "" {
		d, err := time.ParseDuration(cfg.Recheck)
		if err != nil {
			return fmt.Errorf("recheck: %w", err)
		}
		if d < time.Minute {
			return fmt.Errorf("recheck: %s is below the 1m floor", cfg.Recheck)
		}
	}
	switch cfg.History.Driver {
	case "", "none", "file", "sqlite", "sqlite3":
	default:
		return fmt.Errorf("history.driver: unknown driver %q", cfg.History.Driver)
	}
	return nil
}

func (p *Plugin) OnConfigChange(ctx context.Context, raw json.RawMessage) error {
	cfg, err := core.DecodePluginConfig[Config](raw)
	if err != nil {
		return err
	}
	if cfg.PushTime == "" {
		cfg.PushTime = defaultPushTime
	}
	h, m, err := parsePushTime(cfg.PushTime)
	if err != nil {
		return fmt.Errorf("push_time: %w", err)
	}
	timeout := defaultFetchTimeout
	if cfg.FetchTimeout != "" {
		if timeout, err = time.ParseDuration(cfg.FetchTimeout); err != nil {
			return fmt.Errorf("fetch_timeout: %w", err)
		}
	}

	p.mu.Lock()
	prev := p.cfg
	p.cfg = cfg
	p.client = NewClient(cfg.SourceURL, timeout)
	pushChanged := p.state.PushHour != h || p.state.PushMinute != m
	p.state.PushHour, p.state.PushMinute = h, m
	// Config destinations win when set; otherwise a runtime setgroup choice
	// survives reloads.
	if len(cfg.Destinations) > 0 {
		p.state.Destinations = targetsFromIDs(cfg.Destinations)
	} else if len(prev.Destinations) > 0 {
		p.state.Destinations = nil
	}
	running := p.loop != nil
	p.mu.Unlock()

	if running {
		if err := p.applyRecheck(cfg.Recheck); err != nil {
			return err
		}
		if pushChanged {
			p.restartLoop()
		}
	}
	return nil
}

func (p *Plugin) Start(ctx context.Context) error {
	p.StartBase(ctx)

	p.mu.Lock()
	p.startedAt = time.Now()
	cfg := p.cfg
	st, err := storage.Open(storage.Config{Driver: cfg.History.Driver, Path: cfg.History.Path}, p.Log)
	if err != nil {
		// History is optional; a broken store must not block the plugin.
		p.Log.Warn("delivery history disabled", slog.Any("err", err))
		st = nil
	}
	p.store = st
	loop := newDailyLoop(p.Log, p.nextRun, p.checkAndNotify)
	p.loop = loop
	p.mu.Unlock()

	loop.Start(p.Context())
	if err := p.applyRecheck(cfg.Recheck); err != nil {
		p.Log.Warn("recheck schedule not installed", slog.Any("err", err))
	}
	return nil
}

func (p *Plugin) Stop(ctx context.Context) error {
	p.mu.Lock()
	loop := p.loop
	st := p.store
	p.loop = nil
	p.store = nil
	p.mu.Unlock()

	p.RemoveSchedule("recheck")
	if loop != nil {
		if err := loop.Stop(ctx); err != nil {
			p.Log.Warn("daily loop did not stop in time", slog.Any("err", err))
		}
	}
	if st != nil {
		_ = st.Close()
	}
	return p.StopBase(ctx)
}

// nextRun feeds the loop; push time is read under the lock so a config
// change mid-flight sees a consistent pair.
func (p *Plugin) nextRun(now time.Time) time.Time {
	p.mu.Lock()
	h, m := p.state.PushHour, p.state.PushMinute
	p.mu.Unlock()
	return NextRunAt(now, h, m)
}

// restartLoop bounces the loop so it recomputes its sleep from the new
// push time.
func (p *Plugin) restartLoop() {
	p.mu.Lock()
	loop := p.loop
	p.mu.Unlock()
	if loop == nil {
		return
	}
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := loop.Stop(sctx); err != nil {
		p.Log.Warn("daily loop restart: stop timed out", slog.Any("err", err))
	}
	loop.Start(p.Context())
}

// applyRecheck installs or removes the interval re-check on the shared
// scheduler.
func (p *Plugin) applyRecheck(spec string) error {
	p.RemoveSchedule("recheck")
	if spec == "" {
		return nil
	}
	every, err := time.ParseDuration(spec)
	if err != nil {
		return err
	}
	_, err = p.Every("recheck", every, 2*time.Minute, p.checkAndNotify)
	return err
}

// checkAndNotify is the shared check body for the daily loop and the
// interval re-check: fetch, gate, format, deliver, record. A fetch or
// extraction failure propagates to the caller (the loop cools down); a
// delivery failure only logs, so dedup state stays unset and the next
// cycle retries.
func (p *Plugin) checkAndNotify(ctx context.Context) error {
	p.mu.Lock()
	client := p.client
	dests := append([]kit.ChatTarget(nil), p.state.Destinations...)
	st := p.store
	p.mu.Unlock()

	ann, err := client.Latest(ctx)
	if err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	p.mu.Lock()
	deliver := p.state.ShouldDeliver(ann, today)
	p.mu.Unlock()
	if !deliver {
		p.Log.Debug("no new announcement to deliver",
			slog.String("date", ann.Date),
			slog.String("announcement_id", ann.AnnouncementID))
		return nil
	}
	if len(dests) == 0 {
		p.Log.Info("announcement ready but no destination configured",
			slog.String("announcement_id", ann.AnnouncementID))
		return nil
	}

	text := FormatFull(ann)
	delivered := 0
	for _, d := range dests {
		err := p.Notify(ctx, kit.Notification{
			Channel:  "telegram",
			Priority: 5,
			Target:   d,
			Text:     text,
		})
		if err != nil {
			p.Log.Warn("announcement delivery failed",
				slog.Int64("chat_id", d.ChatID),
				slog.Any("err", err))
			continue
		}
		delivered++
		if st != nil {
			_ = st.AppendDelivery(ctx, storage.DeliveryEntry{
				At:             time.Now(),
				AnnouncementID: ann.AnnouncementID,
				SecCode:        ann.SecCode,
				Title:          ann.Title,
				Date:           ann.Date,
				DetailURL:      ann.DetailURL,
				ChatID:         d.ChatID,
			})
		}
	}
	if delivered > 0 {
		p.mu.Lock()
		p.state.RecordDelivered(ann)
		p.mu.Unlock()
		p.Log.Info("announcement delivered",
			slog.String("announcement_id", ann.AnnouncementID),
			slog.String("sec_code", ann.SecCode),
			slog.Int("destinations", delivered))
	}
	return nil
}

func targetsFromIDs(ids []int64) []kit.ChatTarget {
	out := make([]kit.ChatTarget, 0, len(ids))
	for _, id := range ids {
		out = append(out, kit.ChatTarget{ChatID: id})
	}
	return out
}

// parsePushTime parses "HH:MM" (24h clock).
func parsePushTime(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(strings.TrimSpace(hh))
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad hour in %q", s)
	}
	minute, err = strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad minute in %q", s)
	}
	return hour, minute, nil
}
