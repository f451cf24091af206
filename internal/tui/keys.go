package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	SwitchPage key.Binding
	Up         key.Binding
	Down       key.Binding
	Add        key.Binding
	Inc        key.Binding
	Dec        key.Binding
	Remove     key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		SwitchPage: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "giỏ hàng / cửa hàng")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "lên")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "xuống")),
		Add:        key.NewBinding(key.WithKeys("enter", "a"), key.WithHelp("enter/a", "thêm vào giỏ")),
		Inc:        key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "tăng")),
		Dec:        key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "giảm")),
		Remove:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "xoá")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "thoát")),
	}
}

// catalogKeys and cartKeys implement help.KeyMap for each page.
type catalogKeys struct{ keyMap }
type cartKeys struct{ keyMap }

func (k catalogKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Add, k.SwitchPage, k.Quit}
}

func (k catalogKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func (k cartKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Inc, k.Dec, k.Remove, k.SwitchPage, k.Quit}
}

func (k cartKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
