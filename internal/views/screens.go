package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type CardData struct {
	Title       string
	Description string
	Completed   bool
	Selected    bool
}

type QuadrantData struct {
	Index    int
	Title    string
	Subtitle string
	Cards    []CardData
	Focused  bool
}

type MatrixData struct {
	Quadrants  []QuadrantData
	CellWidth  int
	CellHeight int
	Loading    string
}

type AddFormData struct {
	TitleView       string
	DescriptionView string
	Category        string
	CategoryIndex   int
	FocusedField    int
}

type DetailData struct {
	Title        string
	Category     string
	Completed    bool
	CreatedAt    string
	MarkdownView string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
}

var (
	quadrantStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	focusedQuadrantStyle = quadrantStyle.BorderForeground(lipgloss.Color("12"))
	quadrantTitleStyle   = lipgloss.NewStyle().Bold(true)
	subtitleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	doneStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	selectedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// RenderMatrix lays the quadrants out two per row.
func RenderMatrix(data MatrixData) string {
	if data.Loading != "" {
		return data.Loading
	}
	width := data.CellWidth
	if width <= 0 {
		width = 36
	}
	cells := make([]string, 0, len(data.Quadrants))
	for _, q := range data.Quadrants {
		cells = append(cells, RenderQuadrant(q, width, data.CellHeight))
	}
	rows := make([]string, 0, 2)
	for i := 0; i < len(cells); i += 2 {
		end := i + 2
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func RenderQuadrant(q QuadrantData, width, height int) string {
	var b strings.Builder
	b.WriteString(quadrantTitleStyle.Render(fmt.Sprintf("%d. %s", q.Index, q.Title)))
	b.WriteString(fmt.Sprintf(" (%d)\n", len(q.Cards)))
	b.WriteString(subtitleStyle.Render(q.Subtitle) + "\n")
	if len(q.Cards) == 0 {
		b.WriteString("  (empty)")
	}
	for i, card := range q.Cards {
		b.WriteString(RenderCard(i+1, card, width-4))
		if i < len(q.Cards)-1 {
			b.WriteString("\n")
		}
	}

	style := quadrantStyle
	if q.Focused {
		style = focusedQuadrantStyle
	}
	style = style.Width(width)
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(b.String())
}

func RenderCard(pos int, card CardData, width int) string {
	cursor := " "
	if card.Selected {
		cursor = ">"
	}
	check := "[ ]"
	if card.Completed {
		check = "[x]"
	}
	title := truncate(card.Title, width-10)
	line := fmt.Sprintf("%s %d %s %s", cursor, pos, check, title)
	switch {
	case card.Selected:
		return selectedStyle.Render(line)
	case card.Completed:
		return doneStyle.Render(line)
	default:
		return line
	}
}

func RenderAddForm(data AddFormData) string {
	marker := func(field int) string {
		if data.FocusedField == field {
			return ">"
		}
		return " "
	}
	var b strings.Builder
	b.WriteString("new task:\n")
	b.WriteString(fmt.Sprintf("%s title:       %s\n", marker(0), data.TitleView))
	b.WriteString(fmt.Sprintf("%s description: %s\n", marker(1), data.DescriptionView))
	b.WriteString(fmt.Sprintf("%s category:    %d. %s (1-4 or left/right)\n", marker(2), data.CategoryIndex, data.Category))
	b.WriteString("keys: [tab] field [enter] add [esc] cancel")
	return b.String()
}

func RenderDetail(data DetailData) string {
	if strings.TrimSpace(data.Title) == "" {
		return "details:\n(no selection)"
	}
	status := "open"
	if data.Completed {
		status = "done"
	}
	desc := data.MarkdownView
	if strings.TrimSpace(desc) == "" {
		desc = "(no description)"
	}
	return fmt.Sprintf("details:\n%s\ncategory: %s\nstatus: %s\ncreated: %s\n\n%s",
		data.Title,
		data.Category,
		status,
		data.CreatedAt,
		desc,
	)
}

func RenderMovePrompt(active bool) string {
	if !active {
		return ""
	}
	return "move to: [1] Do First [2] Schedule [3] Delegate [4] Eliminate [esc] cancel"
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s\n%s", strings.Join(data.Bindings, "\n"), data.HelpView)
}

func truncate(s string, max int) string {
	if max <= 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
