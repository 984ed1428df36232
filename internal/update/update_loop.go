package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/matrixd/internal/projector"
	"github.com/sandeepkv93/matrixd/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForStateCmd(m.feed.ch)}
	if m.State.IsLoading {
		cmds = append(cmds, m.loadSpinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.Mode {
		case ModeAdd:
			return m.handleFormKey(typed)
		case ModeMove:
			return m.handleMoveKey(typed), nil
		case ModePalette:
			return m.handlePaletteKey(typed), nil
		default:
			return m.handleMatrixKey(typed)
		}
	case StateMsg:
		return m.applyState(typed.State)
	case DismissErrorMsg:
		if typed.Error != "" && m.State.Error == typed.Error {
			m.tasks.ClearError()
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case spinner.TickMsg:
		if m.State.IsLoading {
			var cmd tea.Cmd
			m.loadSpinner, cmd = m.loadSpinner.Update(typed)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) applyState(s projector.UIState) (tea.Model, tea.Cmd) {
	prevErr := m.State.Error
	m.State = s
	m.clampCursors()

	cmds := []tea.Cmd{waitForStateCmd(m.feed.ch)}
	if s.Error != "" && s.Error != prevErr {
		m.logger.WithField("error", s.Error).Debug("showing error notice")
		if d := m.cfg.ErrorDisplay(); d > 0 {
			shown := s.Error
			cmds = append(cmds, tea.Tick(d, func(time.Time) tea.Msg { return DismissErrorMsg{Error: shown} }))
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	m.Close()
	m.logger.Info("matrixd quitting")
	return m, tea.Quit
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	body := views.RenderMatrix(m.matrixData())

	side := ""
	switch m.Mode {
	case ModeAdd:
		side = m.renderAddForm()
	case ModePalette:
		side = views.RenderCommandPalette(true, m.commandInput.View()) + "\n\n" + m.renderDetail()
	case ModeMove:
		side = views.RenderMovePrompt(true) + "\n\n" + m.renderDetail()
	default:
		side = m.renderDetail()
	}
	if m.HelpVisible {
		side += "\n\n" + m.renderHelpView()
	}

	status := m.Status
	if m.State.Error != "" {
		status = StatusBar{Text: fmt.Sprintf("error: %s  [%s] dismiss", m.State.Error, m.Keys.Dismiss), IsError: true}
	}

	focusTitle := ""
	if g, ok := m.focusedGroup(); ok {
		focusTitle = g.Title
	}
	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("matrixd | tasks: %d | focus: %s | mode: %s", m.State.TaskCount(), focusTitle, m.Mode),
		Body:       body,
		SidePane:   side,
		StatusLine: status.Text,
		IsError:    status.IsError,
		Footer:     fmt.Sprintf("keys: %s add | space toggle | %s move | %s delete | %s clear done | / cmd | %s help | %s quit", m.Keys.Add, m.Keys.Move, m.Keys.Delete, m.Keys.Clear, m.Keys.Help, m.Keys.Quit),
	})
}
