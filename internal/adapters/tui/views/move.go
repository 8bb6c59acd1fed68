package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"segnalibro/internal/adapters/tui/styles"
	"segnalibro/internal/application/commands"
	"segnalibro/internal/domain"
	"segnalibro/internal/engine"
	"segnalibro/internal/ports"
)

// MoveKeyMap defines key bindings for the move view
type MoveKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

var MoveKeys = MoveKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "move here"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// moveTarget is one selectable destination folder
type moveTarget struct {
	ID    string
	Title string
	Depth int
}

// MoveModel is the model for the move view. It lists every folder the
// source can legally move into and sends the move on selection; the moved
// node is appended at the end of the destination.
type MoveModel struct {
	ViewState
	engine    *engine.Engine
	store     ports.BookmarkStore
	source    domain.Entry
	targets   []moveTarget
	paginator *Paginator
}

// NewMoveModel creates a new move view model
func NewMoveModel(eng *engine.Engine, store ports.BookmarkStore) *MoveModel {
	return &MoveModel{
		engine:    eng,
		store:     store,
		paginator: NewPaginator(15),
	}
}

// SetSource sets the node to be moved
func (m *MoveModel) SetSource(source domain.Entry) {
	m.source = source
	m.targets = nil
	m.ClearMessage()
	m.paginator.Reset()
}

// Init loads the destination folders
func (m *MoveModel) Init() tea.Cmd {
	return m.loadTargets
}

func (m *MoveModel) loadTargets() tea.Msg {
	result, err := commands.NewTreeCommand(m.store, "").Execute(context.Background())
	if err != nil {
		return MoveErrMsg{Err: err}
	}
	return moveTargetsMsg{targets: moveTargets(result.Root, m.source.ID)}
}

type moveTargetsMsg struct {
	targets []moveTarget
}

// moveTargets flattens the tree's folders into destination rows, skipping
// the source and everything beneath it. The root itself is not offered;
// its folder children sit at depth zero.
func moveTargets(root *domain.Node, sourceID string) []moveTarget {
	var out []moveTarget
	var walk func(n *domain.Node, depth int)
	walk = func(n *domain.Node, depth int) {
		for _, child := range n.Children {
			if !child.IsFolder() || child.ID == sourceID {
				continue
			}
			out = append(out, moveTarget{ID: child.ID, Title: child.Title, Depth: depth})
			walk(child, depth+1)
		}
	}
	walk(root, 0)
	return out
}

// Update handles messages for the move view
func (m *MoveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case moveTargetsMsg:
		m.targets = msg.targets
		m.paginator.Reset()
		m.paginator.SetTotal(len(m.targets))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, MoveKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, MoveKeys.Up):
			m.paginator.CursorUp()
			return m, nil

		case key.Matches(msg, MoveKeys.Down):
			m.paginator.CursorDown()
			return m, nil

		case key.Matches(msg, MoveKeys.Submit):
			return m, m.move()
		}
	}

	return m, nil
}

func (m *MoveModel) move() tea.Cmd {
	cursor := m.paginator.Cursor()
	if cursor < 0 || cursor >= len(m.targets) {
		return nil
	}
	target := m.targets[cursor]
	return func() tea.Msg {
		if err := m.engine.Move(context.Background(), m.source.ID, target.ID, -1); err != nil {
			return MoveErrMsg{Err: err}
		}
		return MoveSuccessMsg{
			Message: fmt.Sprintf("Moved %s to %s", m.source.Title, target.Title),
		}
	}
}

// MoveSuccessMsg indicates successful move
type MoveSuccessMsg struct {
	Message string
}

// MoveErrMsg indicates an error during move
type MoveErrMsg struct {
	Err error
}

// View renders the move view
func (m *MoveModel) View() string {
	v := NewViewBuilder().
		Title("Move").
		Line(styles.InputLabel.Render("Moving:")).
		Line("  " + m.source.Title).
		BlankLine().
		Subtitle("Pick the destination folder.")

	switch {
	case m.targets == nil:
		v.Muted("Loading folders...")
	case len(m.targets) == 0:
		v.Muted("No destination folders")
	default:
		start, end := m.paginator.VisibleRange()
		for i := start; i < end; i++ {
			v.Line(m.renderTarget(m.targets[i], i == m.paginator.Cursor()))
		}
		if m.paginator.TotalPages() > 1 {
			v.Muted(fmt.Sprintf("page %d/%d", m.paginator.CurrentPage(), m.paginator.TotalPages()))
		}
	}

	v.BlankLine().
		Message(m.Message, m.MessageErr).
		Help(MoveKeys.Down, MoveKeys.Submit, MoveKeys.Cancel)

	return v.String()
}

func (m *MoveModel) renderTarget(t moveTarget, selected bool) string {
	text := strings.Repeat("  ", t.Depth) + styles.GlyphFolder + t.Title
	if selected {
		return styles.NodeSelected.Render(text)
	}
	return styles.NodeFolder.Render(text)
}
