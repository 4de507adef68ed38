package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help                          lipgloss.Style
	BoxUnchecked, BoxChecked                      string
	SymDone, SymPending, SymBusy                  string
	Border                                        lipgloss.Border
	BorderColor                                   lipgloss.TerminalColor
}

// DefaultTheme is used when no theme, or an unknown one, is asked for.
const DefaultTheme = "classic"

var asciiBorder = lipgloss.Border{
	Top:         "-",
	Bottom:      "-",
	Left:        "|",
	Right:       "|",
	TopLeft:     "+",
	TopRight:    "+",
	BottomLeft:  "+",
	BottomRight: "+",
}

var themes = map[string]func() Theme{
	"classic": func() Theme {
		return Theme{
			Name:         "classic",
			Title:        lipgloss.NewStyle().Bold(true),
			Muted:        lipgloss.NewStyle().Faint(true),
			Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
			Done:         lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Help:         lipgloss.NewStyle().Faint(true),
			BoxUnchecked: "☐",
			BoxChecked:   "☑",
			SymDone:      "✔",
			SymPending:   "•",
			SymBusy:      "…",
			Border:       lipgloss.RoundedBorder(),
			BorderColor:  lipgloss.Color("8"),
		}
	},
	"neon": func() Theme {
		return Theme{
			Name:         "neon",
			Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Selected:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Done:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true),
			Help:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			BoxUnchecked: "◻",
			BoxChecked:   "◼",
			SymDone:      "✔",
			SymPending:   "•",
			SymBusy:      "…",
			Border:       lipgloss.RoundedBorder(),
			BorderColor:  lipgloss.Color("13"),
		}
	},
	"mono": func() Theme {
		plain := lipgloss.NewStyle()
		return Theme{
			Name:         "mono",
			Title:        plain,
			Muted:        plain,
			Accent:       plain,
			Success:      plain,
			Error:        plain,
			Pending:      plain,
			Selected:     plain.Reverse(true),
			Done:         plain,
			Help:         plain,
			BoxUnchecked: "[ ]",
			BoxChecked:   "[x]",
			SymDone:      "x",
			SymPending:   "-",
			SymBusy:      "~",
			Border:       asciiBorder,
			BorderColor:  lipgloss.NoColor{},
		}
	},
}

var current = themes[DefaultTheme]()

// SetTheme switches the active theme. Unknown names fall back to classic
// and report false.
func SetTheme(name string) bool {
	build, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		current = themes[DefaultTheme]()
		return false
	}
	current = build()
	return true
}

// Expose what renderers need
func Current() Theme { return current }

// ThemeNames lists the available themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
