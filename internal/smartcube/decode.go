package smartcube

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/SeamusWaldron/cubesolver/internal/assembly"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Rotation is a single face turn reported by the cube.
type Rotation struct {
	FaceCode          byte // raw face+direction code (0x00-0x0B)
	CenterOrientation byte
	Clockwise         bool
	Color             types.Color
}

// Orientation is the cube's physical attitude.
type Orientation struct {
	Quat      mgl64.Quat
	UpFace    types.Face // face pointing up
	FrontFace types.Face // face pointing at the solver
}

// colorByIndex follows the GoCube color numbering, which differs from
// the puzzle's color indices.
var colorByIndex = map[byte]types.Color{
	0: types.ColorBlue,
	1: types.ColorGreen,
	2: types.ColorWhite,
	3: types.ColorYellow,
	4: types.ColorRed,
	5: types.ColorOrange,
}

// DecodeRotation decodes a rotation payload: pairs of
// [face_dir] [center_orientation].
func DecodeRotation(payload []byte) ([]Rotation, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("rotation payload must have even length, got %d", len(payload))
	}

	var rotations []Rotation
	for i := 0; i < len(payload); i += 2 {
		faceCode := payload[i]

		// even codes are clockwise, odd counter-clockwise
		color, ok := colorByIndex[faceCode/2]
		if !ok {
			return nil, fmt.Errorf("unknown color index %d from face code 0x%02X", faceCode/2, faceCode)
		}

		rotations = append(rotations, Rotation{
			FaceCode:          faceCode,
			CenterOrientation: payload[i+1],
			Clockwise:         faceCode%2 == 0,
			Color:             color,
		})
	}

	return rotations, nil
}

// DecodeBattery decodes a battery payload into a 0-100 level.
func DecodeBattery(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, fmt.Errorf("battery payload too short")
	}
	return int(payload[0]), nil
}

// DecodeOrientation decodes an orientation payload: ASCII "x#y#z#w",
// possibly followed by trailing bytes after w.
func DecodeOrientation(payload []byte) (Orientation, error) {
	parts := strings.Split(string(payload), "#")
	if len(parts) != 4 {
		return Orientation{}, fmt.Errorf("orientation payload must have 4 parts, got %d", len(parts))
	}
	parts[3] = extractNumeric(parts[3])

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Orientation{}, fmt.Errorf("invalid orientation component %d: %w", i, err)
		}
		v[i] = f
	}

	q := mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
	if q.Len() == 0 {
		return Orientation{}, fmt.Errorf("orientation quaternion is zero")
	}
	q = q.Normalize()

	return Orientation{
		Quat:      q,
		UpFace:    assembly.DominantFace(q.Rotate(mgl64.Vec3{0, 1, 0})),
		FrontFace: assembly.DominantFace(q.Rotate(mgl64.Vec3{0, 0, 1})),
	}, nil
}

// extractNumeric returns the leading numeric portion of s.
func extractNumeric(s string) string {
	var b strings.Builder
	for i, r := range s {
		if (r == '-' && i == 0) || (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
			continue
		}
		break
	}
	return b.String()
}

// ColorToFace maps a center color to its face in the standard
// orientation: white up, green front.
func ColorToFace(c types.Color) types.Face {
	switch c {
	case types.ColorWhite:
		return types.FaceU
	case types.ColorYellow:
		return types.FaceD
	case types.ColorGreen:
		return types.FaceF
	case types.ColorBlue:
		return types.FaceB
	case types.ColorRed:
		return types.FaceR
	case types.ColorOrange:
		return types.FaceL
	}
	return 0
}

// RotationToMove converts a rotation into an outer-slice move.
func RotationToMove(rot Rotation) (types.Move, error) {
	face := ColorToFace(rot.Color)
	if face == 0 {
		return types.Move{}, fmt.Errorf("no face for color %s", rot.Color)
	}
	m, err := types.ParseMove(face.String())
	if err != nil {
		return types.Move{}, err
	}
	if !rot.Clockwise {
		m.Turn = types.TurnCCW
	}
	return m, nil
}

// RotationsToMoves converts rotations to moves and merges adjacent
// turns of the same slice.
func RotationsToMoves(rotations []Rotation) ([]types.Move, error) {
	moves := make([]types.Move, 0, len(rotations))
	for _, rot := range rotations {
		m, err := RotationToMove(rot)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return MergeMoves(moves), nil
}

// MergeMoves merges adjacent turns of the same slice: R R becomes R2,
// R R R becomes R', and R R' cancels out.
func MergeMoves(moves []types.Move) []types.Move {
	result := make([]types.Move, 0, len(moves))
	for _, m := range moves {
		if n := len(result); n > 0 && result[n-1].Slice == m.Slice {
			q := (quarters(result[n-1].Turn) + quarters(m.Turn)) % 4
			if q == 0 {
				result = result[:n-1]
				continue
			}
			result[n-1].Turn = fromQuarters(q)
			continue
		}
		result = append(result, m)
	}
	return result
}

func quarters(t types.Turn) int {
	switch t {
	case types.TurnCCW:
		return 3
	case types.Turn180:
		return 2
	default:
		return 1
	}
}

func fromQuarters(q int) types.Turn {
	switch q {
	case 2:
		return types.Turn180
	case 3:
		return types.TurnCCW
	default:
		return types.TurnCW
	}
}
