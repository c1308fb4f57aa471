package core

// Color represents a foreground color for a screen cell.
// Front-ends map it to ANSI 256-color codes.
type Color uint8

// Palette used by the track preview.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightYellow
	ColorOrange
	ColorGray
)

// Semantic colors for track elements.
const (
	ColorRoad       = ColorGray
	ColorIncline    = ColorYellow
	ColorBuilding   = ColorBlue
	ColorCheckpoint = ColorGreen
	ColorSolidArch  = ColorRed
	ColorOpenArch   = ColorCyan
	ColorCoin       = ColorBrightYellow
	ColorVehicle    = ColorMagenta
)
