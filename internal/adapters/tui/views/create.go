package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"segnalibro/internal/adapters/tui/styles"
	"segnalibro/internal/domain"
	"segnalibro/internal/engine"
)

// CreateKeyMap defines key bindings for the create view
type CreateKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var CreateKeys = CreateKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "create"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// CreateModel is the model for the create view. An empty URL makes the new
// node a folder.
type CreateModel struct {
	ViewState
	engine *engine.Engine
	parent domain.Entry
	form   *InputForm
}

// NewCreateModel creates a new create view model
func NewCreateModel(eng *engine.Engine) *CreateModel {
	form := NewInputForm(
		NewInputField("Title:", "Title", 200),
		NewInputField("URL (empty creates a folder):", "https://", 500),
	)
	return &CreateModel{
		engine: eng,
		form:   form,
	}
}

// SetParent sets the folder the new node goes into
func (m *CreateModel) SetParent(parent domain.Entry) {
	m.parent = parent
	m.ClearMessage()
	m.form.Reset()
}

// Init initializes the create view
func (m *CreateModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles messages for the create view
func (m *CreateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, CreateKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, CreateKeys.Submit):
			return m, m.create()
		}
	}

	_, cmd := m.form.Update(msg)
	return m, cmd
}

func (m *CreateModel) create() tea.Cmd {
	return func() tea.Msg {
		title := m.form.Value(0)
		url := m.form.Value(1)

		if title == "" {
			return CreateErrMsg{Err: fmt.Errorf("title is required")}
		}

		ctx := context.Background()
		if url == "" {
			if _, err := m.engine.CreateFolder(ctx, m.parent.ID, title); err != nil {
				return CreateErrMsg{Err: err}
			}
			return CreateSuccessMsg{Message: fmt.Sprintf("Created folder %s", title)}
		}
		if _, err := m.engine.CreateBookmark(ctx, m.parent.ID, title, url); err != nil {
			return CreateErrMsg{Err: err}
		}
		return CreateSuccessMsg{Message: fmt.Sprintf("Created bookmark %s", title)}
	}
}

// CreateSuccessMsg indicates successful creation
type CreateSuccessMsg struct {
	Message string
}

// CreateErrMsg indicates an error during creation
type CreateErrMsg struct {
	Err error
}

// View renders the create view
func (m *CreateModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Create"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render(fmt.Sprintf("Creating in %s", m.parent.Title)))
	b.WriteString("\n\n")

	b.WriteString(m.form.RenderField(0))
	b.WriteString("\n\n")

	b.WriteString(m.form.RenderField(1))
	b.WriteString("\n\n")

	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n\n")
	}

	b.WriteString(m.form.RenderHelp("create"))

	return styles.App.Render(b.String())
}
