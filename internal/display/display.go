package display

// Color selects the rendering hue of a status line. Renderers map
// colors to whatever their medium supports; unknown values render as
// ColorDefault.
type Color int

const (
	ColorDefault Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorCyan
)

// String returns the lowercase color name.
func (c Color) String() string {
	switch c {
	case ColorGreen:
		return "green"
	case ColorYellow:
		return "yellow"
	case ColorRed:
		return "red"
	case ColorCyan:
		return "cyan"
	default:
		return "default"
	}
}

// Line is one row of the status block.
type Line struct {
	Text  string
	Color Color
}

// Renderer displays a status block. Render replaces the previously
// displayed block; lines arrive top to bottom.
//
// Implementations must return quickly and must not panic on delivery
// failure.
type Renderer interface {
	Render(lines []Line)
}

// Multi fans a status block out to several renderers in order.
type Multi []Renderer

// Render forwards the block to every renderer.
func (m Multi) Render(lines []Line) {
	for _, r := range m {
		r.Render(lines)
	}
}
