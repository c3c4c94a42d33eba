package lineutil

// Spacing follows a 4-point grid.
const (
	SpacingS = "8px"
	SpacingM = "12px"
	SpacingL = "16px"
)

// LINE Design System Colors
// Reference: https://designsystem.line.me/LDSM/foundation/color/line-color-guide-ex-en
const (
	ColorLineGreen = "#06C755" // LINE Green (iOS)
	ColorGray900   = "#111111"

	ColorText          = ColorGray900
	ColorLabel         = "#666666" // Labels, captions (5.7:1 contrast ratio)
	ColorButtonPrimary = ColorLineGreen
)
