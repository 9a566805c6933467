package ui

import (
	"charm.land/lipgloss/v2"

	"sortdojo/internal/engine"
)

type Theme struct {
	Header      lipgloss.Style
	Status      lipgloss.Style
	PanelTitle  lipgloss.Style
	PanelBorder lipgloss.Style
	PanelBody   lipgloss.Style
	Accent      lipgloss.Style
	Pass        lipgloss.Style
	Fail        lipgloss.Style
	Pending     lipgloss.Style
	Muted       lipgloss.Style
	Info        lipgloss.Style

	BarNormal    lipgloss.Style
	BarComparing lipgloss.Style
	BarSwapping  lipgloss.Style
	BarPivot     lipgloss.Style
	BarSelected  lipgloss.Style
	BarLeft      lipgloss.Style
	BarRight     lipgloss.Style
	BarSorted    lipgloss.Style
}

// BarStyle maps one element highlight to its render style.
func (t Theme) BarStyle(s engine.ElementState) lipgloss.Style {
	switch s {
	case engine.StateComparing:
		return t.BarComparing
	case engine.StateSwapping:
		return t.BarSwapping
	case engine.StateCurrentMin:
		return t.BarPivot
	case engine.StateSelected:
		return t.BarSelected
	case engine.StatePartitionLeft:
		return t.BarLeft
	case engine.StatePartitionRight:
		return t.BarRight
	case engine.StateSorted:
		return t.BarSorted
	default:
		return t.BarNormal
	}
}

func DefaultTheme() Theme {
	return ThemeForVariant("modern_arcade")
}

func ThemeForVariant(variant string) Theme {
	switch variant {
	case "cozy_clean":
		return cozyCleanTheme()
	case "retro_terminal":
		return retroTerminalTheme()
	default:
		return modernArcadeTheme()
	}
}

func modernArcadeTheme() Theme {
	amber := lipgloss.Color("#FFC857")
	mint := lipgloss.Color("#67F0A8")
	brick := lipgloss.Color("#FF6F91")
	ink := lipgloss.Color("#0E1420")
	slate := lipgloss.Color("#1B2740")
	powder := lipgloss.Color("#EAF2FF")
	blue := lipgloss.Color("#5EEBFF")
	violet := lipgloss.Color("#B78CFF")
	border := lipgloss.Color("#4B5F8A")

	return Theme{
		Header: lipgloss.NewStyle().
			Background(ink).
			Foreground(powder).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(slate).
			Foreground(powder).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		PanelBorder: lipgloss.NewStyle().
			Foreground(border),
		PanelBody: lipgloss.NewStyle().
			Foreground(powder),
		Accent: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		Pass: lipgloss.NewStyle().
			Foreground(mint).
			Bold(true),
		Fail: lipgloss.NewStyle().
			Foreground(brick).
			Bold(true),
		Pending: lipgloss.NewStyle().
			Foreground(amber),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CAAC6")),
		Info: lipgloss.NewStyle().
			Foreground(blue),

		BarNormal:    lipgloss.NewStyle().Foreground(lipgloss.Color("#7E93C2")),
		BarComparing: lipgloss.NewStyle().Foreground(amber),
		BarSwapping:  lipgloss.NewStyle().Foreground(brick),
		BarPivot:     lipgloss.NewStyle().Foreground(violet).Bold(true),
		BarSelected:  lipgloss.NewStyle().Foreground(blue),
		BarLeft:      lipgloss.NewStyle().Foreground(lipgloss.Color("#5EC2FF")),
		BarRight:     lipgloss.NewStyle().Foreground(lipgloss.Color("#F2D16B")),
		BarSorted:    lipgloss.NewStyle().Foreground(mint),
	}
}

func cozyCleanTheme() Theme {
	honey := lipgloss.Color("#F2B872")
	sage := lipgloss.Color("#80C4A3")
	rose := lipgloss.Color("#D17A86")
	night := lipgloss.Color("#1E2430")
	slate := lipgloss.Color("#30394A")
	paper := lipgloss.Color("#F4F6FA")
	sky := lipgloss.Color("#86B6F6")
	plum := lipgloss.Color("#B48EC9")

	return Theme{
		Header:      lipgloss.NewStyle().Background(night).Foreground(paper).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(slate).Foreground(paper).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(honey).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(slate),
		PanelBody:   lipgloss.NewStyle().Foreground(paper),
		Accent:      lipgloss.NewStyle().Foreground(sky).Bold(true),
		Pass:        lipgloss.NewStyle().Foreground(sage).Bold(true),
		Fail:        lipgloss.NewStyle().Foreground(rose).Bold(true),
		Pending:     lipgloss.NewStyle().Foreground(honey),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#A3ACC2")),
		Info:        lipgloss.NewStyle().Foreground(sky),

		BarNormal:    lipgloss.NewStyle().Foreground(lipgloss.Color("#8BA0C9")),
		BarComparing: lipgloss.NewStyle().Foreground(honey),
		BarSwapping:  lipgloss.NewStyle().Foreground(rose),
		BarPivot:     lipgloss.NewStyle().Foreground(plum).Bold(true),
		BarSelected:  lipgloss.NewStyle().Foreground(sky),
		BarLeft:      lipgloss.NewStyle().Foreground(sky),
		BarRight:     lipgloss.NewStyle().Foreground(honey),
		BarSorted:    lipgloss.NewStyle().Foreground(sage),
	}
}

func retroTerminalTheme() Theme {
	lime := lipgloss.Color("#9CF5A2")
	amber := lipgloss.Color("#E5D47A")
	red := lipgloss.Color("#FF6B6B")
	deep := lipgloss.Color("#07150A")
	forest := lipgloss.Color("#12301A")
	glow := lipgloss.Color("#C5F7C4")

	return Theme{
		Header:      lipgloss.NewStyle().Background(deep).Foreground(glow).Padding(0, 1),
		Status:      lipgloss.NewStyle().Background(forest).Foreground(glow).Padding(0, 1),
		PanelTitle:  lipgloss.NewStyle().Foreground(amber).Bold(true),
		PanelBorder: lipgloss.NewStyle().Foreground(forest),
		PanelBody:   lipgloss.NewStyle().Foreground(glow),
		Accent:      lipgloss.NewStyle().Foreground(lime).Bold(true),
		Pass:        lipgloss.NewStyle().Foreground(lime).Bold(true),
		Fail:        lipgloss.NewStyle().Foreground(red).Bold(true),
		Pending:     lipgloss.NewStyle().Foreground(amber),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("#73A17A")),
		Info:        lipgloss.NewStyle().Foreground(lime),

		BarNormal:    lipgloss.NewStyle().Foreground(lipgloss.Color("#55B36A")),
		BarComparing: lipgloss.NewStyle().Foreground(amber),
		BarSwapping:  lipgloss.NewStyle().Foreground(red),
		BarPivot:     lipgloss.NewStyle().Foreground(glow).Bold(true),
		BarSelected:  lipgloss.NewStyle().Foreground(lime),
		BarLeft:      lipgloss.NewStyle().Foreground(lime),
		BarRight:     lipgloss.NewStyle().Foreground(amber),
		BarSorted:    lipgloss.NewStyle().Foreground(lime).Bold(true),
	}
}
