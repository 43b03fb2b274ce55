package core

// Color is a packed 0xRRGGBBAA value. The zero value means the terminal's
// default foreground.
type Color uint32

// Colors used by the HUD and the default bullet palette.
const (
	ColorDefault Color = 0
	ColorRed     Color = 0xFF3333FF
	ColorOrange  Color = 0xFFAA00FF
	ColorCyan    Color = 0x00FFFFFF
	ColorGreen   Color = 0x00FF00FF
	ColorYellow  Color = 0xFFFF55FF
	ColorWhite   Color = 0xFFFFFFFF
	ColorGray    Color = 0x8A8A8AFF
)

// RGB returns the red, green and blue channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8)
}

// Alpha returns the alpha channel.
func (c Color) Alpha() uint8 {
	return uint8(c)
}
