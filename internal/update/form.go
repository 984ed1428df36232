package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/matrixd/internal/model"
	"github.com/sandeepkv93/matrixd/internal/views"
)

func (m Model) openAddForm() Model {
	m.Mode = ModeAdd
	m.Form = AddFormState{Field: formFieldTitle, Category: model.CategoryUrgentImportant}
	if g, ok := m.focusedGroup(); ok {
		m.Form.Category = g.Category
	}
	m.titleInput.SetValue("")
	m.descInput.SetValue("")
	m.descInput.Blur()
	return m
}

func (m Model) closeAddForm() Model {
	m.Mode = ModeMatrix
	m.titleInput.Blur()
	m.descInput.Blur()
	return m
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closeAddForm()
		m.Status = StatusBar{Text: "add cancelled"}
		return m, nil
	case "enter":
		return m.submitAddForm(), nil
	case "tab":
		return m.focusFormField((m.Form.Field + 1) % formFieldCount)
	case "shift+tab":
		return m.focusFormField((m.Form.Field + formFieldCount - 1) % formFieldCount)
	}

	switch m.Form.Field {
	case formFieldCategory:
		m.Form.Category = stepCategory(m.Form.Category, msg.String())
		return m, nil
	case formFieldDescription:
		var cmd tea.Cmd
		m.descInput, cmd = m.descInput.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		return m, cmd
	}
}

func (m Model) focusFormField(field int) (tea.Model, tea.Cmd) {
	m.Form.Field = field
	m.titleInput.Blur()
	m.descInput.Blur()
	var cmd tea.Cmd
	switch field {
	case formFieldTitle:
		cmd = m.titleInput.Focus()
	case formFieldDescription:
		cmd = m.descInput.Focus()
	}
	return m, cmd
}

// submitAddForm closes the form whether or not the store accepted the task;
// a rejection surfaces as the projector error.
func (m Model) submitAddForm() Model {
	title := m.titleInput.Value()
	task, err := m.tasks.Create(m.ctx, title, m.descInput.Value(), m.Form.Category)
	m = m.closeAddForm()
	if !m.record("create", err) {
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added %q to %s", task.Title, task.Category.Title())}
	for i, c := range model.Categories() {
		if c == task.Category {
			m.Focused = i
			m.Cursors[i] = 0
		}
	}
	return m
}

func stepCategory(current model.Category, keyName string) model.Category {
	cats := model.Categories()
	idx := current.Index() - 1
	if idx < 0 {
		idx = 0
	}
	switch keyName {
	case "left", "h", "k", "up":
		return cats[(idx+len(cats)-1)%len(cats)]
	case "right", "l", "j", "down", " ":
		return cats[(idx+1)%len(cats)]
	case "1", "2", "3", "4":
		if c, err := model.ParseCategory(keyName); err == nil {
			return c
		}
	}
	return current
}

func (m Model) renderAddForm() string {
	return views.RenderAddForm(views.AddFormData{
		TitleView:       m.titleInput.View(),
		DescriptionView: m.descInput.View(),
		Category:        m.Form.Category.Title(),
		CategoryIndex:   m.Form.Category.Index(),
		FocusedField:    m.Form.Field,
	})
}
