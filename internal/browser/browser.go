// Package browser is an interactive catalog viewer. The left pane lists the
// tables, the right pane the entries of the selected table, and the bottom
// pane the details or reference tree of the selected entry.
package browser

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/catalog"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/keys"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/log"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/pubsub"
	"github.com/Rubidium37/MoreFriendly.NetDXF-sub004/internal/render"
)

// historySize is how many catalog changes the browser keeps on screen.
const historySize = 3

// Loader rebuilds the catalog, typically by applying the manifest again.
type Loader func(ctx context.Context) (*catalog.Catalog, error)

type pane int

const (
	tablesPane pane = iota
	entriesPane
)

// LoadedMsg carries the result of a reload.
type LoadedMsg struct {
	Catalog *catalog.Catalog
	Err     error
}

// Model holds the browser state.
type Model struct {
	cat      *catalog.Catalog
	load     Loader
	keys     keys.KeyMap
	help     help.Model
	tables   []catalog.Table
	table    int
	entry    int
	focus    pane
	showRefs bool
	status   string
	failed   bool
	width    int
	height   int

	changes *pubsub.ContinuousListener[catalog.Change]
	logs    *log.LogListener
	history []string
	lastLog string
}

// New creates a browser over cat. load may be nil, which disables reload.
func New(cat *catalog.Catalog, load Loader) Model {
	m := Model{
		keys: keys.DefaultKeyMap(),
		help: help.New(),
		load: load,
	}
	return m.setCatalog(cat)
}

func (m Model) setCatalog(cat *catalog.Catalog) Model {
	m.cat = cat
	m.tables = cat.Tables()
	m.table = min(m.table, len(m.tables)-1)
	m.entry = min(m.entry, max(m.current().Count()-1, 0))
	return m
}

// WithChanges shows the catalog changes published on broker. Catalogs
// returned by the loader should publish on the same broker.
func (m Model) WithChanges(ctx context.Context, broker *pubsub.Broker[catalog.Change]) Model {
	m.changes = pubsub.NewContinuousListener(ctx, broker)
	return m
}

// WithLog shows the latest debug log entry. It does nothing unless the
// debug log is open.
func (m Model) WithLog(ctx context.Context) Model {
	m.logs = log.NewListener(ctx)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.changes != nil {
		cmds = append(cmds, m.changes.Listen())
	}
	if m.logs != nil {
		cmds = append(cmds, m.logs.Listen())
	}
	return tea.Batch(cmds...)
}

func (m Model) current() catalog.Table {
	return m.tables[m.table]
}

// Selected returns the highlighted entry, if the table has any.
func (m Model) Selected() (catalog.Resource, bool) {
	res := m.current().Resources()
	if m.entry < 0 || m.entry >= len(res) {
		return nil, false
	}
	return res[m.entry], true
}

// Status returns the last action message.
func (m Model) Status() string { return m.status }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case LoadedMsg:
		if msg.Err != nil {
			m.status, m.failed = "reload failed: "+msg.Err.Error(), true
			log.ErrorErr(log.CatCLI, "Reload failed", msg.Err)
			return m, nil
		}
		m = m.setCatalog(msg.Catalog)
		m.status, m.failed = "reloaded", false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case pubsub.Event[catalog.Change]:
		m.history = append(m.history, describe(msg))
		if len(m.history) > historySize {
			m.history = m.history[len(m.history)-historySize:]
		}
		return m, m.changes.Listen()

	case log.LogEvent:
		m.lastLog = strings.TrimSpace(msg.Payload)
		return m, m.logs.Listen()
	}
	return m, nil
}

// describe turns a change event into a status line.
func describe(ev pubsub.Event[catalog.Change]) string {
	ch := ev.Payload
	switch {
	case ev.Type == pubsub.ReplacedEvent:
		return fmt.Sprintf("%s %s %s: %s to %s", ch.TypeName, ch.Handle, ch.Relation, ch.OldName, ch.Name)
	case ev.Type == pubsub.RenamedEvent:
		return fmt.Sprintf("renamed %s %s to %s", ch.Kind, ch.OldName, ch.Name)
	case ch.Name == "":
		return fmt.Sprintf("%s %s %s", ev.Type, ch.TypeName, ch.Handle)
	default:
		return fmt.Sprintf("%s %s %s", ev.Type, ch.Kind, ch.Name)
	}
}

// Zone ids for mouse hit testing.
func tableZone(i int) string { return "browser-table-" + strconv.Itoa(i) }
func entryZone(i int) string { return "browser-entry-" + strconv.Itoa(i) }

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return m.move(-1)
	case tea.MouseButtonWheelDown:
		return m.move(1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionRelease {
			return m
		}
	default:
		return m
	}

	for i := range m.tables {
		if z := zone.Get(tableZone(i)); z != nil && z.InBounds(msg) {
			m.focus, m.table, m.entry = tablesPane, i, 0
			return m
		}
	}
	for i := range m.current().Count() {
		if z := zone.Get(entryZone(i)); z != nil && z.InBounds(msg) {
			m.focus, m.entry = entriesPane, i
			return m
		}
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m = m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m = m.move(1)
	case key.Matches(msg, m.keys.Top):
		m = m.move(-len(m.tables) - m.current().Count())
	case key.Matches(msg, m.keys.Bottom):
		m = m.move(len(m.tables) + m.current().Count())
	case key.Matches(msg, m.keys.NextPane):
		m.focus = entriesPane
	case key.Matches(msg, m.keys.PrevPane):
		m.focus = tablesPane
	case key.Matches(msg, m.keys.References):
		m.showRefs = !m.showRefs
	case key.Matches(msg, m.keys.Remove):
		m = m.remove()
	case key.Matches(msg, m.keys.Reload):
		if m.load == nil {
			m.status = "reload needs a manifest"
			return m, nil
		}
		load := m.load
		m.status = "reloading..."
		return m, func() tea.Msg {
			cat, err := load(context.Background())
			return LoadedMsg{Catalog: cat, Err: err}
		}
	}
	return m, nil
}

func (m Model) move(delta int) Model {
	if m.focus == tablesPane {
		m.table = clamp(m.table+delta, 0, len(m.tables)-1)
		m.entry = 0
		return m
	}
	m.entry = clamp(m.entry+delta, 0, max(m.current().Count()-1, 0))
	return m
}

// remove tries to remove the selected entry through the table, which refuses
// reserved and referenced entries.
func (m Model) remove() Model {
	r, ok := m.Selected()
	if !ok {
		return m
	}
	name := r.Name()
	if !m.current().Remove(name) {
		reason := "in use"
		if r.IsReserved() {
			reason = "reserved"
		}
		m.status, m.failed = fmt.Sprintf("cannot remove %s %s: %s", r.Kind(), name, reason), true
		return m
	}
	m.status, m.failed = fmt.Sprintf("removed %s %s", r.Kind(), name), false
	m.entry = clamp(m.entry, 0, max(m.current().Count()-1, 0))
	return m
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

var (
	paneStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(render.MutedColor).Padding(0, 1)
	focusedPaneStyle = paneStyle.BorderForeground(render.HeaderColor)
	cursorStyle      = lipgloss.NewStyle().Bold(true)
)

// View implements tea.Model.
func (m Model) View() string {
	tables := m.tablesView()
	entries := m.entriesView()
	top := lipgloss.JoinHorizontal(lipgloss.Top, tables, entries)

	var detail string
	if r, ok := m.Selected(); ok {
		if m.showRefs {
			detail = render.ReferenceTree(m.cat, r)
		} else {
			detail = render.Label(r) + "\n" + render.Detail(r)
		}
		if m.width > 4 {
			detail = wordwrap.String(detail, m.width-4)
		}
	}
	parts := []string{top, paneStyle.Render(strings.TrimRight(detail, "\n"))}
	if m.status != "" {
		style := render.SuccessStyle
		if m.failed {
			style = render.ErrorStyle
		}
		parts = append(parts, style.Render(m.status))
	}
	for _, h := range m.history {
		parts = append(parts, render.MutedStyle.Render("· "+h))
	}
	if m.lastLog != "" {
		parts = append(parts, render.MutedStyle.Render(ansi.Truncate(m.lastLog, max(m.width, 20), "…")))
	}
	parts = append(parts, m.help.View(m.keys))
	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) tablesView() string {
	var b strings.Builder
	b.WriteString(render.HeaderStyle.Render("TABLES"))
	for i, t := range m.tables {
		line := fmt.Sprintf("%-13s %3d", t.Kind(), t.Count())
		b.WriteString("\n" + zone.Mark(tableZone(i), cursor(i == m.table, line)))
	}
	style := paneStyle
	if m.focus == tablesPane {
		style = focusedPaneStyle
	}
	return style.Render(b.String())
}

func (m Model) entriesView() string {
	t := m.current()
	tbl := &render.Table{Headers: []string{"NAME", "HANDLE", "REFS"}}
	for _, r := range t.Resources() {
		tbl.Rows = append(tbl.Rows, []string{r.Name(), r.Handle().String(), strconv.Itoa(len(t.GetReferences(r.Name())))})
	}
	lines := strings.Split(strings.TrimRight(tbl.String(), "\n"), "\n")

	var b strings.Builder
	b.WriteString(render.HeaderStyle.Render("  " + lines[0]))
	for i, line := range lines[1:] {
		b.WriteString("\n" + zone.Mark(entryZone(i), cursor(i == m.entry && m.focus == entriesPane, line)))
	}
	if t.Count() == 0 {
		b.WriteString("\n" + render.MutedStyle.Render("  (empty)"))
	}
	style := paneStyle
	if m.focus == entriesPane {
		style = focusedPaneStyle
	}
	return style.Render(b.String())
}

func cursor(selected bool, line string) string {
	if selected {
		return cursorStyle.Render("> " + line)
	}
	return "  " + line
}

// Run starts m on the terminal.
func Run(m Model) error {
	zone.NewGlobal()
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
