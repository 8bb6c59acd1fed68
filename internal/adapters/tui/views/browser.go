package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"segnalibro/internal/adapters/tui/styles"
	"segnalibro/internal/domain"
	"segnalibro/internal/engine"
	"segnalibro/internal/ports"
)

// BrowserKeyMap defines key bindings for the browser view
type BrowserKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Enter       key.Binding
	Back        key.Binding
	Search      key.Binding
	ClearSearch key.Binding
	New         key.Binding
	Rename      key.Binding
	EditURL     key.Binding
	Move        key.Binding
	Delete      key.Binding
	Copy        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var BrowserKeys = BrowserKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter", "l", "right", "o"),
		key.WithHelp("enter", "open"),
	),
	Back: key.NewBinding(
		key.WithKeys("h", "left", "backspace"),
		key.WithHelp("h/←", "back"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	ClearSearch: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear search"),
	),
	New: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	EditURL: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "edit url"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c", "y"),
		key.WithHelp("c", "copy url"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// SearchKeyMap defines key bindings while the search input is focused
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Accept key.Binding
	Cancel key.Binding
}

var SearchKeys = SearchKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "down"),
	),
	Accept: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "to results"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// BrowserModel is the model for the main list view. It renders the engine's
// current folder or, while a search is active, its result list, and it
// forwards every edit through the engine so the list converges via the
// change feed rather than by reloading.
type BrowserModel struct {
	ViewState
	engine        *engine.Engine
	opener        ports.URLOpener
	paginator     *Paginator
	searchInput   textinput.Model
	searchFocused bool
	spinner       spinner.Model
}

// NewBrowserModel creates a new browser model
func NewBrowserModel(eng *engine.Engine, opener ports.URLOpener) *BrowserModel {
	input := textinput.New()
	input.Placeholder = "Search bookmarks..."
	input.CharLimit = 100

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	return &BrowserModel{
		engine:      eng,
		opener:      opener,
		paginator:   NewPaginator(20),
		searchInput: input,
		spinner:     s,
	}
}

// Init initializes the browser
func (m *BrowserModel) Init() tea.Cmd {
	m.paginator.SetTotal(len(m.rows()))
	return nil
}

// rows returns whatever list the browser currently shows: search results
// while a search is active, the current folder's children otherwise.
func (m *BrowserModel) rows() []domain.Entry {
	if m.engine.Searching() {
		return m.engine.SearchResults()
	}
	return m.engine.VisibleItems()
}

func (m *BrowserModel) selectedEntry() (domain.Entry, bool) {
	rows := m.rows()
	cursor := m.paginator.Cursor()
	if cursor < 0 || cursor >= len(rows) {
		return domain.Entry{}, false
	}
	return rows[cursor], true
}

type enteredMsg struct{}

type openedMsg struct {
	title string
}

type copiedMsg struct{}

type errMsg struct {
	err error
}

// Update handles messages for the browser
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case EngineUpdatedMsg:
		m.paginator.SetTotal(len(m.rows()))
		return m, nil

	case spinner.TickMsg:
		if m.searchPending() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case enteredMsg:
		m.searchInput.SetValue("")
		m.resetList()
		return m, nil

	case openedMsg:
		m.SetMessage(fmt.Sprintf("Opened %s", msg.title), false)
		return m, nil

	case copiedMsg:
		m.SetMessage("Copied URL to clipboard", false)
		return m, nil

	case errMsg:
		m.SetMessage(msg.err.Error(), true)
		return m, nil

	case tea.KeyMsg:
		if m.searchFocused {
			return m, m.updateSearch(msg)
		}
		m.ClearMessage()
		return m, m.handleKey(msg)
	}

	return m, nil
}

// updateSearch routes keys while the search input owns the keyboard. Every
// edit restarts the engine's debounce; the result list refreshes through
// the update signal when the query settles.
func (m *BrowserModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	switch {
	case key.Matches(msg, SearchKeys.Cancel):
		m.searchFocused = false
		m.searchInput.Blur()
		m.dismissSearch()
		return nil

	case key.Matches(msg, SearchKeys.Accept):
		m.searchFocused = false
		m.searchInput.Blur()
		if strings.TrimSpace(m.searchInput.Value()) == "" {
			m.dismissSearch()
		}
		return nil

	case key.Matches(msg, SearchKeys.Up):
		m.paginator.CursorUp()
		return nil

	case key.Matches(msg, SearchKeys.Down):
		m.paginator.CursorDown()
		return nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		m.engine.Search(after)
		return tea.Batch(cmd, m.spinner.Tick)
	}
	return cmd
}

// searchPending reports whether a search dispatch is still in flight; the
// engine hands out a nil result slice until the first dispatch commits.
func (m *BrowserModel) searchPending() bool {
	return m.engine.Searching() && m.engine.SearchResults() == nil
}

func (m *BrowserModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, BrowserKeys.Quit):
		return tea.Quit

	case key.Matches(msg, BrowserKeys.Up):
		m.paginator.CursorUp()
		return nil

	case key.Matches(msg, BrowserKeys.Down):
		m.paginator.CursorDown()
		return nil

	case key.Matches(msg, BrowserKeys.Enter):
		entry, ok := m.selectedEntry()
		if !ok {
			return nil
		}
		if entry.IsFolder {
			return m.enterFolder(entry.ID)
		}
		return m.openBookmark(entry)

	case key.Matches(msg, BrowserKeys.Back):
		if m.engine.Searching() {
			m.dismissSearch()
			return nil
		}
		return m.goBack()

	case key.Matches(msg, BrowserKeys.ClearSearch):
		if m.engine.Searching() {
			m.dismissSearch()
		}
		return nil

	case key.Matches(msg, BrowserKeys.Search):
		m.searchFocused = true
		m.searchInput.Focus()
		return textinput.Blink

	case key.Matches(msg, BrowserKeys.New):
		parent, ok := m.engine.CurrentFolder()
		if !ok {
			return nil
		}
		return func() tea.Msg {
			return SwitchToCreateMsg{Parent: parent}
		}

	case key.Matches(msg, BrowserKeys.Rename):
		entry, ok := m.selectedEntry()
		if !ok {
			return nil
		}
		return func() tea.Msg {
			return SwitchToRenameMsg{Target: entry, Mode: RenameModeTitle}
		}

	case key.Matches(msg, BrowserKeys.EditURL):
		entry, ok := m.selectedEntry()
		if !ok {
			return nil
		}
		if entry.IsFolder {
			m.SetMessage("folders have no URL", true)
			return nil
		}
		return func() tea.Msg {
			return SwitchToRenameMsg{Target: entry, Mode: RenameModeURL}
		}

	case key.Matches(msg, BrowserKeys.Move):
		entry, ok := m.selectedEntry()
		if !ok {
			return nil
		}
		return func() tea.Msg {
			return SwitchToMoveMsg{Source: entry}
		}

	case key.Matches(msg, BrowserKeys.Delete):
		entry, ok := m.selectedEntry()
		if !ok {
			return nil
		}
		return func() tea.Msg {
			return SwitchToDeleteMsg{Target: entry}
		}

	case key.Matches(msg, BrowserKeys.Copy):
		entry, ok := m.selectedEntry()
		if !ok {
			return nil
		}
		if entry.IsFolder {
			m.SetMessage("folders have no URL", true)
			return nil
		}
		return m.copyURL(entry)

	case key.Matches(msg, BrowserKeys.Help):
		return func() tea.Msg {
			return SwitchToHelpMsg{}
		}
	}

	return nil
}

// dismissSearch drops the query on both sides, input and engine
func (m *BrowserModel) dismissSearch() {
	m.engine.ClearSearch()
	m.searchInput.SetValue("")
	m.resetList()
}

func (m *BrowserModel) resetList() {
	m.paginator.Reset()
	m.paginator.SetTotal(len(m.rows()))
}

func (m *BrowserModel) enterFolder(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.EnterFolder(context.Background(), id); err != nil {
			return errMsg{err}
		}
		return enteredMsg{}
	}
}

func (m *BrowserModel) goBack() tea.Cmd {
	return func() tea.Msg {
		if err := m.engine.GoBack(context.Background()); err != nil {
			return errMsg{err}
		}
		return enteredMsg{}
	}
}

func (m *BrowserModel) openBookmark(entry domain.Entry) tea.Cmd {
	return func() tea.Msg {
		if err := m.opener.OpenURL(entry.URL); err != nil {
			return errMsg{err}
		}
		return openedMsg{title: entry.Title}
	}
}

func (m *BrowserModel) copyURL(entry domain.Entry) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(entry.URL); err != nil {
			return errMsg{err}
		}
		return copiedMsg{}
	}
}

// View renders the browser
func (m *BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Segnalibro"))
	b.WriteString("\n")
	b.WriteString(m.renderBreadcrumb())
	b.WriteString("\n\n")

	searching := m.engine.Searching()
	if m.searchFocused || searching {
		if m.searchFocused {
			b.WriteString(styles.InputFocused.Render(m.searchInput.View()))
		} else {
			b.WriteString(styles.InputField.Render(m.searchInput.View()))
		}
		b.WriteString("\n\n")
	}

	rows := m.rows()
	switch {
	case m.engine.Loading() && len(rows) == 0:
		b.WriteString(styles.MutedText.Render("Loading..."))
		b.WriteString("\n")
	case searching && rows == nil:
		b.WriteString(m.spinner.View())
		b.WriteString(styles.MutedText.Render("Searching..."))
		b.WriteString("\n")
	case searching && len(rows) == 0:
		b.WriteString(styles.MutedText.Render("No results found"))
		b.WriteString("\n")
	case len(rows) == 0:
		b.WriteString(styles.MutedText.Render("Empty folder"))
		b.WriteString("\n")
	default:
		if searching {
			b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d results for %q", len(rows), m.engine.Query())))
			b.WriteString("\n")
		}
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			b.WriteString(m.renderEntry(rows[i], i == m.paginator.Cursor()))
			b.WriteString("\n")
		}
		if m.paginator.TotalPages() > 1 {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages())))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n")
	} else if err := m.engine.LastError(); err != nil {
		b.WriteString(RenderMessage(err.Error(), true))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelpLine())

	return styles.App.Render(b.String())
}

func (m *BrowserModel) renderBreadcrumb() string {
	crumbs := m.engine.Breadcrumb()
	if len(crumbs) == 0 {
		return styles.Subtitle.Render("No folder selected")
	}
	parts := make([]string, 0, len(crumbs))
	for _, crumb := range crumbs {
		parts = append(parts, styles.Crumb.Render(crumb.Title))
	}
	return strings.Join(parts, styles.CrumbSeparator.String())
}

func (m *BrowserModel) renderEntry(e domain.Entry, selected bool) string {
	width := 0
	if m.Width > 4 {
		width = m.Width - 4
	}
	text := truncate(entryText(e), width)
	switch {
	case selected:
		return styles.NodeSelected.Render(text)
	case e.IsFolder:
		return styles.NodeFolder.Render(text)
	default:
		return styles.NodeBookmark.Render(text)
	}
}

func (m *BrowserModel) renderHelpLine() string {
	if m.searchFocused {
		return RenderHelpLine(SearchKeys.Accept, SearchKeys.Cancel)
	}
	return RenderHelpLine(
		BrowserKeys.Enter,
		BrowserKeys.Back,
		BrowserKeys.Search,
		BrowserKeys.New,
		BrowserKeys.Delete,
		BrowserKeys.Help,
		BrowserKeys.Quit,
	)
}

// entryText is the unstyled list line for an entry: a glyph, the title and
// either the child count (folders, when known) or the URL (bookmarks)
func entryText(e domain.Entry) string {
	if e.IsFolder {
		if e.ChildCount >= 0 {
			return fmt.Sprintf("%s%s (%d)", styles.GlyphFolder, e.Title, e.ChildCount)
		}
		return styles.GlyphFolder + e.Title
	}
	return fmt.Sprintf("%s%s  %s", styles.GlyphBookmark, e.Title, e.URL)
}

// truncate caps s at max runes, marking the cut with an ellipsis. max <= 0
// disables the cap.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// SetSize updates the view dimensions and the list page size
func (m *BrowserModel) SetSize(width, height int) {
	m.ViewState.SetSize(width, height)
	rows := height - 10
	if rows < 5 {
		rows = 5
	}
	m.paginator.SetPageSize(rows)
}

// Messages for view switching
type SwitchToCreateMsg struct {
	Parent domain.Entry
}

type SwitchToRenameMsg struct {
	Target domain.Entry
	Mode   RenameMode
}

type SwitchToMoveMsg struct {
	Source domain.Entry
}

type SwitchToDeleteMsg struct {
	Target domain.Entry
}

type SwitchToHelpMsg struct{}

type SwitchToBrowserMsg struct{}
