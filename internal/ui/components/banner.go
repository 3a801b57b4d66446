package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/yechim/internal/ui/theme"
)

const bannerArt = `
 ██╗   ██╗███████╗ ██████╗██╗  ██╗██╗███╗   ███╗
 ╚██╗ ██╔╝██╔════╝██╔════╝██║  ██║██║████╗ ████║
  ╚████╔╝ █████╗  ██║     ███████║██║██╔████╔██║
   ╚██╔╝  ██╔══╝  ██║     ██╔══██║██║██║╚██╔╝██║
    ██║   ███████╗╚██████╗██║  ██║██║██║ ╚═╝ ██║
    ╚═╝   ╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝╚═╝     ╚═╝`

const bannerCompact = "Y · E · C · H · I · M"

// BannerWidth is the column count of the full banner.
const BannerWidth = 50

// Banner returns the YECHIM banner, falling back to spaced letters when
// the area is narrower than BannerWidth.
func Banner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Chalk).
		Bold(true)

	if width < BannerWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

// MascotMood selects which mascot face to draw.
type MascotMood int

const (
	MascotIdle  MascotMood = iota
	MascotHappy            // last problem solved
	MascotStuck            // last problem failed
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ±×÷ │
└─────┘`

const mascotHappy = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ±×÷ │
└─╥═╥─┘
  ╚═╝`

const mascotStuck = `┌─────┐
│ ◉ ◉ │ ?
│  ~  │
│ ±×÷ │
└─────┘`

// Mascot renders the mascot in the color matching its mood.
func Mascot(mood MascotMood) string {
	switch mood {
	case MascotHappy:
		return lipgloss.NewStyle().Foreground(theme.Success).Render(mascotHappy)
	case MascotStuck:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render(mascotStuck)
	default:
		return lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotIdle)
	}
}
