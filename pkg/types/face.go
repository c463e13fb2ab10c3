package types

// Face represents one of the six outward directions of the cube, named
// by the facelet label of that face in the solved state.
type Face byte

const (
	FaceU Face = 'U' // Up (+y)
	FaceR Face = 'R' // Right (+x)
	FaceF Face = 'F' // Front (+z)
	FaceD Face = 'D' // Down (-y)
	FaceL Face = 'L' // Left (-x)
	FaceB Face = 'B' // Back (-z)
)

// FaceOrder is the order of face groups in a facelet string.
var FaceOrder = []Face{FaceU, FaceR, FaceF, FaceD, FaceL, FaceB}

// FaceletCount is the length of a facelet string.
const FaceletCount = 54

// SolvedFacelets is the facelet string of a solved cube.
const SolvedFacelets = "UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB"

// CenterIndices are the facelet positions of the six center stickers.
var CenterIndices = [6]int{4, 13, 22, 31, 40, 49}

func (f Face) String() string {
	return string(f)
}

// Offset returns the index of the face's first facelet.
func (f Face) Offset() int {
	switch f {
	case FaceU:
		return 0
	case FaceR:
		return 9
	case FaceF:
		return 18
	case FaceD:
		return 27
	case FaceL:
		return 36
	case FaceB:
		return 45
	default:
		return -1
	}
}

// Normal returns the axis and sign of the face's outward direction.
func (f Face) Normal() (Axis, int) {
	switch f {
	case FaceR:
		return AxisX, 1
	case FaceL:
		return AxisX, -1
	case FaceU:
		return AxisY, 1
	case FaceD:
		return AxisY, -1
	case FaceF:
		return AxisZ, 1
	default:
		return AxisZ, -1
	}
}

// FaceFromNormal returns the face pointing along sign on axis.
func FaceFromNormal(axis Axis, sign int) Face {
	switch axis {
	case AxisX:
		if sign > 0 {
			return FaceR
		}
		return FaceL
	case AxisY:
		if sign > 0 {
			return FaceU
		}
		return FaceD
	default:
		if sign > 0 {
			return FaceF
		}
		return FaceB
	}
}

// IsFaceLabel reports whether c is one of U R F D L B.
func IsFaceLabel(c byte) bool {
	switch Face(c) {
	case FaceU, FaceR, FaceF, FaceD, FaceL, FaceB:
		return true
	}
	return false
}

// Color is a sticker color index (0-5).
type Color int8

const (
	ColorNone   Color = -1
	ColorWhite  Color = 0 // Up face when solved
	ColorYellow Color = 1 // Down face when solved
	ColorGreen  Color = 2 // Front face when solved
	ColorBlue   Color = 3 // Back face when solved
	ColorRed    Color = 4 // Right face when solved
	ColorOrange Color = 5 // Left face when solved
)

// AllColors lists the six sticker colors.
var AllColors = []Color{ColorWhite, ColorYellow, ColorGreen, ColorBlue, ColorRed, ColorOrange}

func (c Color) String() string {
	switch c {
	case ColorWhite:
		return "white"
	case ColorYellow:
		return "yellow"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorRed:
		return "red"
	case ColorOrange:
		return "orange"
	case ColorNone:
		return "none"
	default:
		return "?"
	}
}

// Valid reports whether c is one of the six colors.
func (c Color) Valid() bool {
	return c >= ColorWhite && c <= ColorOrange
}

// Label returns the provisional facelet label of the color, i.e. the
// face it belongs to in the standard orientation (white up, green front).
func (c Color) Label() byte {
	switch c {
	case ColorWhite:
		return 'U'
	case ColorYellow:
		return 'D'
	case ColorGreen:
		return 'F'
	case ColorBlue:
		return 'B'
	case ColorRed:
		return 'R'
	case ColorOrange:
		return 'L'
	default:
		return ' '
	}
}

// SolvedColor returns the color a face shows when solved.
func SolvedColor(f Face) Color {
	switch f {
	case FaceU:
		return ColorWhite
	case FaceD:
		return ColorYellow
	case FaceF:
		return ColorGreen
	case FaceB:
		return ColorBlue
	case FaceR:
		return ColorRed
	case FaceL:
		return ColorOrange
	default:
		return ColorNone
	}
}

// ParseColor parses a color name or its initial (w y g b r o).
func ParseColor(s string) (Color, bool) {
	switch s {
	case "white", "w", "W":
		return ColorWhite, true
	case "yellow", "y", "Y":
		return ColorYellow, true
	case "green", "g", "G":
		return ColorGreen, true
	case "blue", "b", "B":
		return ColorBlue, true
	case "red", "r", "R":
		return ColorRed, true
	case "orange", "o", "O":
		return ColorOrange, true
	case "none", "-":
		return ColorNone, true
	}
	return ColorNone, false
}
