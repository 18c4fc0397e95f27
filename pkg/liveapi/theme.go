package liveapi

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme styles the interactive menu and chat output. The four presets
// mirror the classic console color schemes users picked from the original
// theme menu.
type Theme struct {
	Name        string
	Description string
	Header      lipgloss.Style
	Prompt      lipgloss.Style
	Model       lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
}

var themes = map[string]Theme{
	"default": {
		Name:        "default",
		Description: "Default (White on Black)",
		Header:      lipgloss.NewStyle().Bold(true),
		Prompt:      lipgloss.NewStyle(),
		Model:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Status:      lipgloss.NewStyle().Faint(true),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	},
	"hacker": {
		Name:        "hacker",
		Description: "Hacker (Green on Black)",
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Model:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Faint(true),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	},
	"light": {
		Name:        "light",
		Description: "Light (Black on White)",
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("15")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("0")),
		Model:       lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	},
	"blue": {
		Name:        "blue",
		Description: "Blue (White on Blue)",
		Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4")),
		Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Model:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Faint(true),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	},
}

// ThemeByName looks a theme up by its name.
func ThemeByName(name string) (Theme, error) {
	theme, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme: %s", name)
	}
	return theme, nil
}

// ThemeNames lists the available theme names in a stable order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	themeMu      sync.RWMutex
	currentTheme = themes["default"]
)

// SetTheme switches the active theme.
func SetTheme(name string) error {
	theme, err := ThemeByName(name)
	if err != nil {
		return err
	}
	themeMu.Lock()
	currentTheme = theme
	themeMu.Unlock()
	return nil
}

// CurrentTheme returns the active theme.
func CurrentTheme() Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}
