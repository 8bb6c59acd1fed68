package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"segnalibro/internal/adapters/tui/styles"
	"segnalibro/internal/domain"
	"segnalibro/internal/engine"
)

// RenameKeyMap defines key bindings for the rename view
type RenameKeyMap struct {
	Submit key.Binding
	Cancel key.Binding
}

var RenameKeys = RenameKeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
}

// RenameMode selects which field of the target is edited
type RenameMode int

const (
	RenameModeTitle RenameMode = iota
	RenameModeURL
)

// RenameModel is the model for the rename and edit-URL views
type RenameModel struct {
	ViewState
	engine *engine.Engine
	target domain.Entry
	mode   RenameMode
	input  textinput.Model
}

// NewRenameModel creates a new rename view model
func NewRenameModel(eng *engine.Engine) *RenameModel {
	input := textinput.New()
	input.CharLimit = 500
	return &RenameModel{
		engine: eng,
		input:  input,
	}
}

// SetTarget sets the node to edit and which of its fields to edit
func (m *RenameModel) SetTarget(target domain.Entry, mode RenameMode) {
	m.target = target
	m.mode = mode
	m.ClearMessage()
	if mode == RenameModeURL {
		m.input.Placeholder = "https://"
		m.input.SetValue(target.URL)
	} else {
		m.input.Placeholder = "Title"
		m.input.SetValue(target.Title)
	}
	m.input.CursorEnd()
	m.input.Focus()
}

// Init initializes the rename view
func (m *RenameModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the rename view
func (m *RenameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, RenameKeys.Cancel):
			return m, func() tea.Msg {
				return SwitchToBrowserMsg{}
			}

		case key.Matches(msg, RenameKeys.Submit):
			return m, m.apply()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *RenameModel) apply() tea.Cmd {
	return func() tea.Msg {
		value := strings.TrimSpace(m.input.Value())
		if value == "" {
			return RenameErrMsg{Err: fmt.Errorf("value is required")}
		}

		ctx := context.Background()
		if m.mode == RenameModeURL {
			if err := m.engine.SetURL(ctx, m.target.ID, value); err != nil {
				return RenameErrMsg{Err: err}
			}
			return RenameSuccessMsg{Message: fmt.Sprintf("Changed URL of %s", m.target.Title)}
		}
		if err := m.engine.Rename(ctx, m.target.ID, value); err != nil {
			return RenameErrMsg{Err: err}
		}
		return RenameSuccessMsg{Message: fmt.Sprintf("Renamed to %s", value)}
	}
}

// RenameSuccessMsg indicates a successful edit
type RenameSuccessMsg struct {
	Message string
}

// RenameErrMsg indicates an error during the edit
type RenameErrMsg struct {
	Err error
}

// View renders the rename view
func (m *RenameModel) View() string {
	var b strings.Builder

	title := "Rename"
	label := "New title:"
	if m.mode == RenameModeURL {
		title = "Edit URL"
		label = "New URL:"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render("Target:"))
	b.WriteString("\n")
	b.WriteString("  " + m.target.Title)
	if !m.target.IsFolder && m.target.URL != "" {
		b.WriteString("\n  " + styles.MutedText.Render(m.target.URL))
	}
	b.WriteString("\n\n")

	b.WriteString(styles.InputLabel.Render(label))
	b.WriteString("\n")
	b.WriteString(styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	if m.Message != "" {
		b.WriteString(RenderMessage(m.Message, m.MessageErr))
		b.WriteString("\n\n")
	}

	b.WriteString(RenderHelpLine(RenameKeys.Submit, RenameKeys.Cancel))

	return styles.App.Render(b.String())
}
