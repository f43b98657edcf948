package home

import (
	"charm.land/lipgloss/v2"

	"github.com/interviewace/interviewace/internal/ui/theme"
)

const bannerArt = `
 ___       _                  _                  _
|_ _|_ __ | |_ ___ _ ____   _(_) _____      __  / \   ___ ___
 | || '_ \| __/ _ \ '__\ \ / / |/ _ \ \ /\ / / / _ \ / __/ _ \
 | || | | | ||  __/ |   \ V /| |  __/\ V  V / / ___ \ (_|  __/
|___|_| |_|\__\___|_|    \_/ |_|\___| \_/\_/ /_/   \_\___\___|`

const bannerCompact = "I N T E R V I E W   A C E"

// renderBanner returns the banner, or a one-line title on narrow
// terminals.
func renderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 66 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
