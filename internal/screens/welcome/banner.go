package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/heymarley/writebot/internal/ui/theme"
)

const bannerArt = `
 ██╗    ██╗██████╗ ██╗████████╗███████╗██████╗  ██████╗ ████████╗
 ██║    ██║██╔══██╗██║╚══██╔══╝██╔════╝██╔══██╗██╔═══██╗╚══██╔══╝
 ██║ █╗ ██║██████╔╝██║   ██║   █████╗  ██████╔╝██║   ██║   ██║
 ██║███╗██║██╔══██╗██║   ██║   ██╔══╝  ██╔══██╗██║   ██║   ██║
 ╚███╔███╔╝██║  ██║██║   ██║   ███████╗██████╔╝╚██████╔╝   ██║
  ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝   ╚═╝   ╚══════╝╚═════╝  ╚═════╝    ╚═╝`

const bannerCompact = "W R I T E B O T"

// RenderBanner returns the WRITEBOT banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 68 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 68 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
