package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/matrixd/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.modeBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Add, Action: "add task"},
		{Key: "space", Action: "toggle completion"},
		{Key: m.Keys.Move, Action: "move to quadrant"},
		{Key: m.Keys.Delete, Action: "delete task"},
		{Key: m.Keys.Clear, Action: "clear completed"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Dismiss, Action: "dismiss error"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) modeBindings() []KeyBinding {
	switch m.Mode {
	case ModeAdd:
		return []KeyBinding{
			{Key: "tab", Action: "next field"},
			{Key: "1-4 / left/right", Action: "pick quadrant"},
			{Key: "enter", Action: "add task"},
			{Key: "esc", Action: "cancel"},
		}
	case ModeMove:
		return []KeyBinding{
			{Key: "1-4", Action: "target quadrant"},
			{Key: "esc", Action: "cancel"},
		}
	case ModePalette:
		return []KeyBinding{
			{Key: "add <q> <title> [| desc]", Action: "create"},
			{Key: "done|move|delete <n>", Action: "card n in focused quadrant"},
			{Key: "clear", Action: "remove completed"},
		}
	default:
		return []KeyBinding{
			{Key: "h/l", Action: "switch quadrant column"},
			{Key: "j/k", Action: "move selection"},
			{Key: "1-4 / tab", Action: "focus quadrant"},
		}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.modeBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.modeBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
