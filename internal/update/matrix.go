package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/matrixd/internal/model"
	"github.com/sandeepkv93/matrixd/internal/projector"
	"github.com/sandeepkv93/matrixd/internal/views"
)

func (m Model) handleMatrixKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.Keys.Quit:
		return m.quit()
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
	case m.Keys.Add:
		m = m.openAddForm()
		cmd := m.titleInput.Focus()
		return m, cmd
	case "/":
		m.Mode = ModePalette
		m.commandInput.SetValue("")
		cmd := m.commandInput.Focus()
		return m, cmd
	case m.Keys.Dismiss:
		m.tasks.ClearError()
	case "h", "left":
		if m.Focused%2 == 1 {
			m.Focused--
		}
	case "l", "right":
		if m.Focused%2 == 0 {
			m.Focused++
		}
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "tab":
		m.Focused = (m.Focused + 1) % len(m.Cursors)
	case "shift+tab":
		m.Focused = (m.Focused + len(m.Cursors) - 1) % len(m.Cursors)
	case "1", "2", "3", "4":
		m.Focused = int(msg.String()[0] - '1')
	case m.Keys.Toggle, "x":
		m = m.toggleSelected()
	case m.Keys.Move:
		if _, ok := m.selectedTask(); !ok {
			m.Status = StatusBar{Text: "no task selected", IsError: true}
			break
		}
		m.Mode = ModeMove
	case m.Keys.Delete:
		m = m.deleteSelected()
	case m.Keys.Clear:
		m = m.clearCompleted()
	}
	return m, nil
}

func (m Model) handleMoveKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc", "q":
		m.Mode = ModeMatrix
		m.Status = StatusBar{Text: "move cancelled"}
	case "1", "2", "3", "4":
		cat, err := model.ParseCategory(msg.String())
		if err != nil {
			return m
		}
		m.Mode = ModeMatrix
		m = m.moveSelected(cat)
	}
	return m
}

// moveCursor walks cards in the focused quadrant and spills into the
// quadrant below or above at the edges.
func (m *Model) moveCursor(delta int) {
	g, _ := m.focusedGroup()
	cur := m.Cursors[m.Focused]
	next := cur + delta
	switch {
	case next >= 0 && next < len(g.Tasks):
		m.Cursors[m.Focused] = next
	case delta > 0 && m.Focused < 2:
		m.Focused += 2
		m.Cursors[m.Focused] = 0
	case delta < 0 && m.Focused >= 2:
		m.Focused -= 2
		if above, ok := m.focusedGroup(); ok && len(above.Tasks) > 0 {
			m.Cursors[m.Focused] = len(above.Tasks) - 1
		}
	}
}

func (m *Model) clampCursors() {
	for i := range m.Cursors {
		n := 0
		if i < len(m.State.Groups) {
			n = len(m.State.Groups[i].Tasks)
		}
		switch {
		case n == 0 || m.Cursors[i] < 0:
			m.Cursors[i] = 0
		case m.Cursors[i] >= n:
			m.Cursors[i] = n - 1
		}
	}
}

func (m Model) focusedGroup() (projector.CategoryGroup, bool) {
	if m.Focused < 0 || m.Focused >= len(m.State.Groups) {
		return projector.CategoryGroup{}, false
	}
	return m.State.Groups[m.Focused], true
}

func (m Model) selectedTask() (model.Task, bool) {
	return m.taskAt(m.Cursors[m.Focused] + 1)
}

// taskAt resolves a 1-based card position in the focused quadrant.
func (m Model) taskAt(position int) (model.Task, bool) {
	g, ok := m.focusedGroup()
	if !ok || position < 1 || position > len(g.Tasks) {
		return model.Task{}, false
	}
	return g.Tasks[position-1], true
}

func (m Model) toggleSelected() Model {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m
	}
	updated, err := m.tasks.ToggleCompletion(m.ctx, task.ID)
	if m.record("toggle", err) {
		state := "open"
		if updated.Completed {
			state = "done"
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", state, updated.Title)}
	}
	return m
}

func (m Model) moveSelected(cat model.Category) Model {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m
	}
	moved, err := m.tasks.MoveToCategory(m.ctx, task.ID, cat)
	if m.record("move", err) {
		m.Status = StatusBar{Text: fmt.Sprintf("moved %q to %s", moved.Title, cat.Title())}
	}
	return m
}

func (m Model) deleteSelected() Model {
	task, ok := m.selectedTask()
	if !ok {
		m.Status = StatusBar{Text: "no task selected", IsError: true}
		return m
	}
	if m.record("delete", m.tasks.Delete(m.ctx, task.ID)) {
		m.Status = StatusBar{Text: fmt.Sprintf("deleted %q", task.Title)}
	}
	return m
}

func (m Model) clearCompleted() Model {
	n, err := m.tasks.ClearCompleted(m.ctx)
	if m.record("clear_completed", err) {
		m.Status = StatusBar{Text: fmt.Sprintf("cleared %d completed task(s)", n)}
	}
	return m
}

// record keeps the last intent failure; the message itself arrives through
// the projector state.
func (m *Model) record(op string, err error) bool {
	m.LastError = err
	if err != nil {
		m.Status = StatusBar{}
		return false
	}
	m.logger.WithField("op", op).Debug("task intent applied")
	return true
}

func (m Model) matrixData() views.MatrixData {
	data := views.MatrixData{
		CellWidth:  m.cfg.CellWidth,
		CellHeight: m.cfg.CellHeight,
	}
	if m.State.IsLoading {
		data.Loading = m.loadSpinner.View() + " loading tasks..."
		return data
	}
	for i, g := range m.State.Groups {
		q := views.QuadrantData{
			Index:    g.Category.Index(),
			Title:    g.Title,
			Subtitle: g.Category.Subtitle(),
			Focused:  i == m.Focused,
		}
		for j, task := range g.Tasks {
			q.Cards = append(q.Cards, views.CardData{
				Title:       task.Title,
				Description: task.Description,
				Completed:   task.Completed,
				Selected:    i == m.Focused && j == m.Cursors[i],
			})
		}
		data.Quadrants = append(data.Quadrants, q)
	}
	return data
}

func (m Model) renderDetail() string {
	task, ok := m.selectedTask()
	if !ok {
		return views.RenderDetail(views.DetailData{})
	}
	return views.RenderDetail(views.DetailData{
		Title:        task.Title,
		Category:     task.Category.Title(),
		Completed:    task.Completed,
		CreatedAt:    formatCreatedAt(task.CreatedAt),
		MarkdownView: views.RenderMarkdown(task.Description),
	})
}
