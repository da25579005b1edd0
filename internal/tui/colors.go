package tui

// Palette for the terminal panel
const (
	ColorBorder = "#3A3F55"

	ColorPrimaryText   = "#E6EAF2"
	ColorSecondaryText = "#B1B8C7"
	ColorDisabledText  = "#6D7383"
	ColorHelpText      = "240"

	ColorAccentMain   = "#7C3AED" // logo, active borders
	ColorAccentBright = "#A78BFA" // headers, current filter

	ColorError     = "#EF4444"
	ColorSuccess   = "#22C55E"
	ColorImportant = "#F59E0B"
)
