package views

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"segnalibro/internal/adapters/tui/styles"
	"segnalibro/internal/engine"
)

// DeleteModel is the model for the delete confirmation view
type DeleteModel struct {
	ConfirmationModel
	engine *engine.Engine
}

// NewDeleteModel creates a new delete view model
func NewDeleteModel(eng *engine.Engine) *DeleteModel {
	return &DeleteModel{
		ConfirmationModel: NewConfirmationModel(),
		engine:            eng,
	}
}

// Init initializes the delete view
func (m *DeleteModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the delete view
func (m *DeleteModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg,
			func() tea.Msg { return m.doDelete() },
			func() tea.Msg { return SwitchToBrowserMsg{} },
		)
		if handled {
			return m, cmd
		}
	}

	return m, nil
}

func (m *DeleteModel) doDelete() tea.Msg {
	if m.Target.ID == "" {
		return DeleteErrMsg{Err: fmt.Errorf("no target selected")}
	}

	if err := m.engine.Remove(context.Background(), m.Target.ID); err != nil {
		return DeleteErrMsg{Err: err}
	}

	return DeleteSuccessMsg{
		Message: fmt.Sprintf("Deleted %s", m.Target.Title),
	}
}

// DeleteSuccessMsg indicates successful deletion
type DeleteSuccessMsg struct {
	Message string
}

// DeleteErrMsg indicates an error during deletion
type DeleteErrMsg struct {
	Err error
}

// View renders the delete confirmation view
func (m *DeleteModel) View() string {
	v := NewViewBuilder().
		Title("Delete").
		Line(styles.ErrorMsg.Render("This cannot be undone.")).
		BlankLine().
		Line(RenderTargetInfo(m.Target, "Delete")).
		BlankLine()

	if m.Target.IsFolder {
		v.Muted("  Everything inside the folder is deleted with it.").BlankLine()
	}

	v.Message(m.Message, m.MessageErr).
		Raw(RenderConfirmPrompt("Delete it?"))

	return v.String()
}
