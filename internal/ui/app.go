package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/gadaielektronik/pawndesk/internal/orders"
	"github.com/gadaielektronik/pawndesk/internal/prefs"
	"github.com/gadaielektronik/pawndesk/internal/state"
	"github.com/gadaielektronik/pawndesk/internal/summary"
)

// rightPane selects what the pane beside the order table shows.
type rightPane int

const (
	paneDetail rightPane = iota
	paneRegions
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Logger    *zap.Logger
	Prefs     prefs.Prefs
	PrefsPath string
	APIURL    string        // shown in the offline header
	PollEvery time.Duration // shown in the command bar
	ClockTick time.Duration // header clock redraw period
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	store     *state.Store
	log       *zap.Logger
	prefs     prefs.Prefs
	prefsPath string
	apiURL    string
	pollEvery time.Duration
	clockTick time.Duration
	changes   <-chan struct{}
	unsub     func()
	now       func() time.Time

	keys  keyMap
	theme Theme
	money moneyFormatter

	width  int
	height int
	ready  bool
	pane   rightPane

	// Data derived from the latest snapshot
	snapshot state.Snapshot
	counts   summary.StatusCounts
	regions  []summary.RegionCount
	total    float64

	selectedRow int

	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model. It subscribes to store changes; the
// subscription ends when the store is closed.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clockTick := opts.ClockTick
	if clockTick <= 0 {
		clockTick = time.Second
	}
	p := opts.Prefs
	if p.Theme == "" {
		p = prefs.Default()
	}

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		log:       log,
		prefs:     p,
		prefsPath: opts.PrefsPath,
		apiURL:    opts.APIURL,
		pollEvery: opts.PollEvery,
		clockTick: clockTick,
		now:       time.Now,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(p.Theme),
		money:     newMoneyFormatter(p.Unit(), p.Tag()),
	}
	if m.store != nil {
		m.changes, m.unsub = m.store.Subscribe()
		m.applySnapshot(m.store.Snapshot())
	}
	return m
}

// release ends the store subscription. The change channel is closed, so a
// pending waitForChange resolves to storeClosedMsg.
func (m Model) release() {
	if m.unsub != nil {
		m.unsub()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.clockTick)}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m, tickCmd(m.clockTick)

	case changeMsg:
		if m.store != nil {
			m.applySnapshot(m.store.Snapshot())
		}
		return m, waitForChange(m.changes)

	case storeClosedMsg:
		m.changes = nil
		return m, nil

	case actionDoneMsg:
		m.logAction(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, done := m.modal.Update(msg, m.keys)
		if done {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
				m.log.Warn("save preferences failed", zap.Error(err))
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.pane == paneDetail {
			m.pane = paneRegions
		} else {
			m.pane = paneDetail
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.snapshot.Notice != nil && m.store != nil {
			m.store.DismissNotice()
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.store == nil {
			return m, nil
		}
		return m, refreshCmd(m.ctx, m.store)

	case key.Matches(msg, m.keys.Verify):
		o, ok := m.selectedOrder()
		if !ok || !m.canVerify(o) {
			return m, nil
		}
		return m, verifyCmd(m.ctx, m.store, o.ID)

	case key.Matches(msg, m.keys.Delete):
		o, ok := m.selectedOrder()
		if !ok || m.store == nil {
			return m, nil
		}
		store, ctx := m.store, m.ctx
		m.modal = confirmDelete{
			orderID:  o.ID,
			customer: o.CustomerName,
			onYes: func(id int64) tea.Cmd {
				return removeCmd(ctx, store, id)
			},
		}
		return m, nil
	}

	return m.handleTableKey(msg)
}

// handleTableKey moves the selection.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.snapshot.Orders)
	if count == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < count-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	}
	return m, nil
}

// applySnapshot stores a new snapshot, recomputes the aggregates and keeps
// the selection on the same order id when it is still present.
func (m *Model) applySnapshot(snap state.Snapshot) {
	var selectedID int64
	if o, ok := m.selectedOrder(); ok {
		selectedID = o.ID
	}

	m.snapshot = snap
	m.counts = summary.CountStatuses(snap.Orders)
	m.regions = summary.RegionBreakdown(snap.Orders)
	m.total = summary.TotalValue(snap.Orders)

	count := len(snap.Orders)
	if count == 0 {
		m.selectedRow = 0
		return
	}
	if selectedID > 0 {
		if i := orders.Find(snap.Orders, selectedID); i >= 0 {
			m.selectedRow = i
			return
		}
	}
	if m.selectedRow >= count {
		m.selectedRow = count - 1
	}
}

func (m Model) selectedOrder() (orders.Order, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Orders) {
		return orders.Order{}, false
	}
	return m.snapshot.Orders[m.selectedRow], true
}

// canVerify mirrors the store's own guard so the verify key can be shown
// as disabled.
func (m Model) canVerify(o orders.Order) bool {
	return m.store != nil && o.CanVerify() && !m.snapshot.IsSending(o.ID)
}

func (m Model) logAction(msg actionDoneMsg) {
	// Refresh failures are logged by the store itself.
	if msg.err == nil || msg.action == actionRefresh {
		return
	}
	m.log.Debug("action finished with error",
		zap.String("action", msg.action),
		zap.Int64("order_id", msg.id),
		zap.Error(msg.err))
}

// Messages

type tickMsg time.Time

type changeMsg struct{}

type storeClosedMsg struct{}

const actionRefresh = "refresh"

type actionDoneMsg struct {
	action string
	id     int64
	err    error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return storeClosedMsg{}
		}
		return changeMsg{}
	}
}

func refreshCmd(ctx context.Context, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: actionRefresh, err: store.Refresh(ctx)}
	}
}

func verifyCmd(ctx context.Context, store *state.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		_, err := store.Verify(ctx, id)
		return actionDoneMsg{action: state.ActionVerify, id: id, err: err}
	}
}

func removeCmd(ctx context.Context, store *state.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{action: state.ActionDelete, id: id, err: store.Remove(ctx, id)}
	}
}

// Run starts the Bubble Tea program and blocks until the operator quits or
// ctx is cancelled.
func Run(opts Options) error {
	m := New(opts)
	defer m.release()
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
