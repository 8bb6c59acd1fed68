package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"segnalibro/internal/adapters/tui/views"
	"segnalibro/internal/engine"
	"segnalibro/internal/ports"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBrowser ViewState = iota
	ViewCreate
	ViewRename
	ViewMove
	ViewDelete
	ViewHelp
)

// App is the main TUI application model
type App struct {
	engine *engine.Engine

	state   ViewState
	browser *views.BrowserModel
	create  *views.CreateModel
	rename  *views.RenameModel
	move    *views.MoveModel
	del     *views.DeleteModel
	help    *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(eng *engine.Engine, store ports.BookmarkStore, opener ports.URLOpener) *App {
	return &App{
		engine:  eng,
		state:   ViewBrowser,
		browser: views.NewBrowserModel(eng, opener),
		create:  views.NewCreateModel(eng),
		rename:  views.NewRenameModel(eng),
		move:    views.NewMoveModel(eng, store),
		del:     views.NewDeleteModel(eng),
		help:    views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.browser.Init(), a.listenForUpdates())
}

// listenForUpdates blocks on the engine's coalesced change signal and
// re-arms itself after every delivery.
func (a *App) listenForUpdates() tea.Cmd {
	return func() tea.Msg {
		<-a.engine.Updates()
		return views.EngineUpdatedMsg{}
	}
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.browser.SetSize(msg.Width, msg.Height)
		a.create.SetSize(msg.Width, msg.Height)
		a.rename.SetSize(msg.Width, msg.Height)
		a.move.SetSize(msg.Width, msg.Height)
		a.del.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case views.EngineUpdatedMsg:
		// The browser keeps its list in sync no matter which view is on
		// screen, and the listener is re-armed for the next signal.
		_, cmd := a.browser.Update(msg)
		return a, tea.Batch(cmd, a.listenForUpdates())

	// View switching messages
	case views.SwitchToCreateMsg:
		a.state = ViewCreate
		a.create.SetParent(msg.Parent)
		return a, a.create.Init()

	case views.SwitchToRenameMsg:
		a.state = ViewRename
		a.rename.SetTarget(msg.Target, msg.Mode)
		return a, a.rename.Init()

	case views.SwitchToMoveMsg:
		a.state = ViewMove
		a.move.SetSource(msg.Source)
		return a, a.move.Init()

	case views.SwitchToDeleteMsg:
		a.state = ViewDelete
		a.del.SetTarget(msg.Target)
		return a, a.del.Init()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBrowserMsg:
		a.state = ViewBrowser
		return a, nil

	// Mutation outcomes: back to the browser with a flash message. The
	// list itself converges through the engine's change feed.
	case views.CreateSuccessMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, nil

	case views.CreateErrMsg:
		a.create.SetMessage(msg.Err.Error(), true)
		return a, nil

	case views.RenameSuccessMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, nil

	case views.RenameErrMsg:
		a.rename.SetMessage(msg.Err.Error(), true)
		return a, nil

	case views.MoveSuccessMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, nil

	case views.MoveErrMsg:
		a.move.SetMessage(msg.Err.Error(), true)
		return a, nil

	case views.DeleteSuccessMsg:
		a.state = ViewBrowser
		a.browser.SetMessage(msg.Message, false)
		return a, nil

	case views.DeleteErrMsg:
		a.del.SetMessage(msg.Err.Error(), true)
		return a, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch a.state {
	case ViewBrowser:
		_, cmd = a.browser.Update(msg)
	case ViewCreate:
		_, cmd = a.create.Update(msg)
	case ViewRename:
		_, cmd = a.rename.Update(msg)
	case ViewMove:
		_, cmd = a.move.Update(msg)
	case ViewDelete:
		_, cmd = a.del.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewCreate:
		return a.create.View()
	case ViewRename:
		return a.rename.View()
	case ViewMove:
		return a.move.View()
	case ViewDelete:
		return a.del.View()
	case ViewHelp:
		return a.help.View()
	default:
		return a.browser.View()
	}
}
