package sheep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"perkbot/internal/core"
	"perkbot/internal/kit"
	"perkbot/pkg/tgui"
)

func (p *Plugin) Commands() []core.Command {
	return []core.Command{
		{
			Route:       "sheep",
			Aliases:     []string{"shareholderperks"},
			Description: "fetch the latest 股东回馈 announcement",
			Usage:       "/sheep",
			Access:      core.AccessEveryone,
			Handle:      p.cmdSheep,
		},
		{
			Route:       "sheep status",
			Description: "push time, destinations, next run (owner only)",
			Usage:       "/sheep_status",
			Access:      core.AccessOwnerOnly,
			Handle:      p.cmdStatus,
		},
		{
			Route:       "sheep setgroup",
			Aliases:     []string{"set_shareholder_group"},
			Description: "push daily announcements to this chat (owner only)",
			Usage:       "/sheep setgroup",
			Access:      core.AccessOwnerOnly,
			Handle:      p.cmdSetGroup,
		},
		{
			Route:       "sheep history",
			Description: "recently delivered announcements (owner only)",
			Usage:       "/sheep history [n]",
			Access:      core.AccessOwnerOnly,
			Handle:      p.cmdHistory,
		},
	}
}

func (p *Plugin) Callbacks() []core.CallbackRoute {
	return []core.CallbackRoute{
		{
			Action:      "refresh_status",
			Description: "refresh the status message in place",
			Handle: func(ctx context.Context, req *core.Request, payload string) error {
				text, rm := p.statusMessage()
				ref := kit.MessageRef{ChatID: req.Chat.ChatID, ThreadID: req.Chat.ThreadID, MessageID: req.Update.Callback.MessageID}
				return req.Adapter.EditText(ctx, ref, text, &kit.SendOptions{DisablePreview: true, ReplyMarkupAdapter: rm})
			},
		},
	}
}

// cmdSheep fetches on demand and always replies exactly once. It never
// touches dedup state: the result goes to the invoker, not the broadcast
// destinations.
func (p *Plugin) cmdSheep(ctx context.Context, req *core.Request) error {
	p.mu.Lock()
	client := p.client
	p.mu.Unlock()

	ann, err := client.Latest(ctx)
	if err != nil {
		p.Log.Warn("manual check failed", slog.Any("err", err))
		_, _ = req.Adapter.SendText(ctx, req.Chat, errorText(err), nil)
		return nil
	}
	_, _ = req.Adapter.SendText(ctx, req.Chat, FormatFull(ann), &kit.SendOptions{DisablePreview: true})
	return nil
}

func (p *Plugin) cmdStatus(ctx context.Context, req *core.Request) error {
	text, rm := p.statusMessage()
	_, _ = req.Adapter.SendText(ctx, req.Chat, text, &kit.SendOptions{DisablePreview: true, ReplyMarkupAdapter: rm})
	return nil
}

func (p *Plugin) cmdSetGroup(ctx context.Context, req *core.Request) error {
	target := req.Chat
	p.mu.Lock()
	p.state.Destinations = []kit.ChatTarget{target}
	p.mu.Unlock()

	p.Log.Info("push destination set",
		slog.Int64("chat_id", target.ChatID),
		slog.Int("thread_id", target.ThreadID))
	_, _ = req.Adapter.SendText(ctx, req.Chat, "本群已设为股东回馈推送目标", nil)
	return nil
}

func (p *Plugin) cmdHistory(ctx context.Context, req *core.Request) error {
	n := 10
	if len(req.Args) > 0 {
		if v, err := strconv.Atoi(req.Args[0]); err == nil && v > 0 {
			n = v
		}
	}
	if n > 50 {
		n = 50
	}

	p.mu.Lock()
	st := p.store
	p.mu.Unlock()
	if st == nil {
		_, _ = req.Adapter.SendText(ctx, req.Chat, "delivery history is not enabled", nil)
		return nil
	}

	entries, err := st.RecentDeliveries(ctx, n)
	if err != nil {
		_, _ = req.Adapter.SendText(ctx, req.Chat, "history read failed: "+err.Error(), nil)
		return nil
	}
	if len(entries) == 0 {
		_, _ = req.Adapter.SendText(ctx, req.Chat, "no deliveries recorded yet", nil)
		return nil
	}

	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, fmt.Sprintf("last %d deliveries:", len(entries)))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- %s %s %s (chat %d)",
			e.At.Local().Format("01-02 15:04"), e.SecCode, e.Title, e.ChatID))
	}
	_, _ = req.Adapter.SendText(ctx, req.Chat, strings.Join(lines, "\n"), &kit.SendOptions{DisablePreview: true})
	return nil
}

// statusMessage renders the status text plus its refresh button. Shared by
// the status command and the refresh callback.
func (p *Plugin) statusMessage() (string, any) {
	p.mu.Lock()
	h, m := p.state.PushHour, p.state.PushMinute
	last := p.state.LastDeliveredID
	ndest := len(p.state.Destinations)
	src := p.client.URL()
	startedAt := p.startedAt
	p.mu.Unlock()

	now := time.Now()
	next := NextRunAt(now, h, m)
	if last == "" {
		last = "-"
	}

	lines := []string{
		"🐑 sheep status",
		fmt.Sprintf("- push time: %02d:%02d", h, m),
		fmt.Sprintf("- destinations: %d", ndest),
		"- last delivered: " + last,
		fmt.Sprintf("- next run: %s (in %s)",
			next.Format("2006-01-02 15:04"),
			time.Until(next).Round(time.Second)),
		"- source: " + src,
	}
	if !startedAt.IsZero() {
		lines = append(lines, "- running since: "+startedAt.Format("2006-01-02 15:04:05"))
	}
	lines = append(lines, "- updated: "+now.Format("15:04:05"))

	rm := tgui.NewInline().
		Row(tgui.Btn("🔄 Refresh", tgui.Data(p.Name(), "refresh_status", ""))).
		Markup()
	return strings.Join(lines, "\n"), rm
}

// errorText maps the typed extraction failures to a short user-facing
// notice. Raw transport detail stays in the logs.
func errorText(err error) string {
	var fe *FetchError
	var fo *FormatError
	switch {
	case errors.As(err, &fe):
		return "获取公告失败，请稍后再试"
	case errors.As(err, &fo):
		return "公告数据格式异常，请稍后再试"
	case errors.Is(err, ErrEmptyResult):
		return "未获取到任何公告"
	case errors.Is(err, ErrNoValidEntries):
		return "公告数据缺少关键字段"
	default:
		return "查询失败，请稍后再试"
	}
}
