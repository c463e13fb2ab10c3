package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/cubesolver"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	validStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("82"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true).
			Foreground(lipgloss.Color("226"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// stickerColors maps a color label to a terminal color.
var stickerColors = map[byte]lipgloss.Color{
	'U': lipgloss.Color("255"), // white
	'D': lipgloss.Color("226"), // yellow
	'F': lipgloss.Color("34"),  // green
	'B': lipgloss.Color("27"),  // blue
	'R': lipgloss.Color("160"), // red
	'L': lipgloss.Color("208"), // orange
}

var blankCell = lipgloss.NewStyle().Foreground(lipgloss.Color("238")).Render("··")

var cursorCell = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0"))

func cell(label byte, cursor bool) string {
	c, ok := stickerColors[label]
	if !ok {
		if cursor {
			return highlightStyle.Render("[]")
		}
		return blankCell
	}
	if cursor {
		return cursorCell.Background(c).Render("[]")
	}
	return lipgloss.NewStyle().Background(c).Render("  ")
}

// renderNet draws raw, a facelet string labeled by sticker color, as
// an unfolded cube with U on top, L F R B across and D below.
func renderNet(raw string) string {
	return renderNetCursor(raw, -1)
}

// renderNetCursor is renderNet with the facelet at cursor marked.
func renderNetCursor(raw string, cursor int) string {
	if len(raw) != types.FaceletCount {
		return errorStyle.Render("bad facelet string")
	}

	face := func(f types.Face, row int) string {
		off := f.Offset() + row*3
		var b strings.Builder
		for i := 0; i < 3; i++ {
			b.WriteString(cell(raw[off+i], off+i == cursor))
		}
		return b.String()
	}
	pad := strings.Repeat(" ", 6)

	var b strings.Builder
	for row := 0; row < 3; row++ {
		b.WriteString(pad + face(types.FaceU, row) + "\n")
	}
	for row := 0; row < 3; row++ {
		b.WriteString(face(types.FaceL, row) + face(types.FaceF, row) + face(types.FaceR, row) + face(types.FaceB, row) + "\n")
	}
	for row := 0; row < 3; row++ {
		b.WriteString(pad + face(types.FaceD, row) + "\n")
	}
	return b.String()
}

// renderStatus formats the validation line for st.
func renderStatus(st cubesolver.State) string {
	msg := st.Message()
	switch st.Status() {
	case cubesolver.StatusValid, cubesolver.StatusSolved:
		return validStyle.Render(msg)
	case cubesolver.StatusInvalid, cubesolver.StatusSolvingFailed:
		return errorStyle.Render(msg)
	default:
		return statusStyle.Render(msg)
	}
}

// renderSolution shows played moves, the move at the highlight, and
// the rest.
func renderSolution(played, upcoming []types.Move) string {
	if len(played) == 0 && len(upcoming) == 0 {
		return ""
	}
	var parts []string
	for _, m := range played {
		parts = append(parts, statusStyle.Render(m.Notation()))
	}
	for i, m := range upcoming {
		if i == 0 {
			parts = append(parts, highlightStyle.Render(m.Notation()))
			continue
		}
		parts = append(parts, moveStyle.Render(m.Notation()))
	}
	return strings.Join(parts, " ")
}
