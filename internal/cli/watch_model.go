package cli

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/daywatch/internal/cli/formatter"
	"github.com/alexanderramin/daywatch/internal/domain"
	"github.com/alexanderramin/daywatch/internal/repository"
	"github.com/alexanderramin/daywatch/internal/schedule"
	"github.com/alexanderramin/daywatch/internal/timer"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxNotices = 5

// watchKeyMap defines the dashboard keybindings.
type watchKeyMap struct {
	Start  key.Binding
	Pause  key.Binding
	Resume key.Binding
	Stop   key.Binding
	Snooze key.Binding
	DND    key.Binding
	Quit   key.Binding
}

var watchKeys = watchKeyMap{
	Start:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
	Pause:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
	Resume: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
	Stop:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
	Snooze: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "snooze")),
	DND:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dnd")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// watchTickMsg drives the once-a-second dashboard refresh.
type watchTickMsg time.Time

// watchModel is the bubbletea model behind "daywatch watch". It renders
// today's timetable, the live timer, and recent reminder notifications.
type watchModel struct {
	app    *App
	timer  *timer.Service
	policy *schedule.Policy

	day      string
	entries  []*domain.TimetableEntry
	labels   map[string]string
	notices  []string
	noticeCh <-chan string

	width    int
	loadErr  error
	quitting bool
}

func newWatchModel(app *App, ts *timer.Service, policy *schedule.Policy, noticeCh <-chan string) watchModel {
	m := watchModel{
		app:      app,
		timer:    ts,
		policy:   policy,
		noticeCh: noticeCh,
		labels:   make(map[string]string),
	}
	m.loadDay()
	return m
}

// loadDay fetches today's timetable entries and caches activity titles.
func (m *watchModel) loadDay() {
	ctx := context.Background()
	m.day = time.Now().Format("2006-01-02")
	m.entries = nil

	tt, err := m.app.Timetables.GetByDate(ctx, m.day)
	if repository.IsNotFound(err) {
		return
	}
	if err != nil {
		m.loadErr = err
		return
	}

	entries, err := m.app.Timetables.ListEntries(ctx, tt.ID)
	if err != nil {
		m.loadErr = err
		return
	}
	m.entries = entries

	for _, e := range entries {
		if _, ok := m.labels[e.ActivityID]; !ok {
			m.labels[e.ActivityID] = activityLabel(ctx, m.app, e.ActivityID)
		}
	}
}

// currentEntry returns the slot covering the given wall-clock time, or nil.
func (m *watchModel) currentEntry(now time.Time) *domain.TimetableEntry {
	clock := now.Format("15:04")
	for _, e := range m.entries {
		if e.StartTime <= clock && clock < e.EndTime {
			return e
		}
	}
	return nil
}

func (m *watchModel) pushNotice(s string) {
	m.notices = append(m.notices, s)
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

func watchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m watchModel) Init() tea.Cmd {
	return watchTick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case watchTickMsg:
		// Drain any notifications emitted since the last frame.
		for {
			select {
			case s := <-m.noticeCh:
				m.pushNotice(s)
			default:
				if time.Now().Format("2006-01-02") != m.day {
					m.loadDay()
				}
				return m, watchTick()
			}
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m watchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()

	switch {
	case key.Matches(msg, watchKeys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, watchKeys.Start):
		entry := m.currentEntry(time.Now())
		if entry == nil || entry.ActivityID == "" {
			m.pushNotice("No assigned slot is active right now")
			return m, nil
		}
		if _, err := m.timer.Start(ctx, entry.ActivityID); err != nil {
			m.pushNotice("Timer: " + err.Error())
		}
		return m, nil

	case key.Matches(msg, watchKeys.Pause):
		m.timer.Pause()
		return m, nil

	case key.Matches(msg, watchKeys.Resume):
		m.timer.Resume()
		return m, nil

	case key.Matches(msg, watchKeys.Stop):
		if _, err := m.timer.Stop(ctx); err != nil {
			m.pushNotice("Timer: " + err.Error())
		}
		return m, nil

	case key.Matches(msg, watchKeys.Snooze):
		m.policy.Snooze()
		return m, nil

	case key.Matches(msg, watchKeys.DND):
		enabled := m.policy.DoNotDisturb(ctx)
		if err := m.policy.SetDoNotDisturb(ctx, !enabled); err != nil {
			m.pushNotice("DND: " + err.Error())
		}
		return m, nil
	}

	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}
	if m.loadErr != nil {
		return formatter.StyleRed.Render("Error: "+m.loadErr.Error()) + "\n"
	}

	var b strings.Builder

	b.WriteString(formatter.Header("daywatch " + m.day))
	b.WriteString("\n\n")
	b.WriteString(m.timerLine())
	b.WriteString("\n\n")
	b.WriteString(m.timetableView())
	b.WriteString("\n")

	if len(m.notices) > 0 {
		b.WriteString(formatter.Dim("Recent:"))
		b.WriteString("\n")
		for _, n := range m.notices {
			b.WriteString("  " + formatter.Dim(n) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(formatter.Dim("s start · p pause · r resume · x stop · n snooze · d dnd · q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m watchModel) timerLine() string {
	state := m.timer.State()
	line := formatter.StatePill(state) + "  " +
		formatter.Bold(formatter.FormatSeconds(m.timer.Elapsed()))

	if state != domain.TimerIdle {
		if label, ok := m.labels[m.timer.CurrentActivityID()]; ok {
			line += "  " + formatter.StyleBlue.Render(label)
		}
	}

	ctx := context.Background()
	if m.policy.DoNotDisturb(ctx) {
		line += "  " + formatter.StyleYellow.Render("[DND]")
	}
	return line
}

func (m watchModel) timetableView() string {
	if len(m.entries) == 0 {
		return formatter.Dim("No timetable for today. Plan one with 'daywatch timetable set'.") + "\n"
	}

	now := time.Now()
	current := m.currentEntry(now)

	headers := []string{"", "START", "END", "ACTIVITY", "NOTE"}
	rows := make([][]string, 0, len(m.entries))
	for _, e := range m.entries {
		marker := " "
		if current != nil && e.ID == current.ID {
			marker = formatter.StyleGreen.Render("▶")
		}
		rows = append(rows, []string{
			marker,
			e.StartTime,
			e.EndTime,
			m.labels[e.ActivityID],
			formatter.Dim(e.Note),
		})
	}

	table := formatter.RenderTable(headers, rows)
	if m.width > 0 {
		return lipgloss.NewStyle().MaxWidth(m.width).Render(table) + "\n"
	}
	return table
}
