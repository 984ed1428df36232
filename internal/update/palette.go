package update

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/matrixd/internal/commands"
	"github.com/sandeepkv93/matrixd/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m = m.executePaletteCommand(m.commandInput.Value())
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
	}
	return m
}

func (m Model) closePalette() Model {
	m.Mode = ModeMatrix
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	return m
}

func (m Model) executePaletteCommand(input string) Model {
	raw := strings.TrimSpace(input)
	m = m.closePalette()

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.tasks.Create(m.ctx, a.Title, a.Description, a.Category)
			if !m.record("create", err) {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added %q to %s", task.Title, task.Category.Title())}, nil
		},
		Done: func(t commands.TargetArgs) (commands.Result, error) {
			task, err := m.paletteTarget(t.Position)
			if err != nil {
				return commands.Result{}, err
			}
			updated, err := m.tasks.ToggleCompletion(m.ctx, task.ID)
			if !m.record("toggle", err) {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("toggled %q (done=%t)", updated.Title, updated.Completed)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			task, err := m.paletteTarget(a.Position)
			if err != nil {
				return commands.Result{}, err
			}
			moved, err := m.tasks.MoveToCategory(m.ctx, task.ID, a.Category)
			if !m.record("move", err) {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("moved %q to %s", moved.Title, a.Category.Title())}, nil
		},
		Delete: func(t commands.TargetArgs) (commands.Result, error) {
			task, err := m.paletteTarget(t.Position)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.tasks.Delete(m.ctx, task.ID); !m.record("delete", err) {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted %q", task.Title)}, nil
		},
		Clear: func() (commands.Result, error) {
			n, err := m.tasks.ClearCompleted(m.ctx)
			if !m.record("clear_completed", err) {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("cleared %d completed task(s)", n)}, nil
		},
	})

	var ce *commands.CommandError
	switch {
	case err == nil:
		m.Status = StatusBar{Text: res.Message}
	case errors.As(err, &ce):
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	default:
		// Store failures are reported through the projector error.
		m.Status = StatusBar{}
	}
	return m
}

func (m Model) paletteTarget(position int) (model.Task, error) {
	task, ok := m.taskAt(position)
	if !ok {
		g, _ := m.focusedGroup()
		return model.Task{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: fmt.Sprintf("no card %d in %s", position, g.Title),
		}
	}
	return task, nil
}
