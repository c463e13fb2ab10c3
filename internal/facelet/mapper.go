// Package facelet derives the 54-character puzzle-state string from the
// geometry of the assembly.
package facelet

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver/internal/assembly"
	"github.com/SeamusWaldron/cubesolver/internal/geom"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Blank marks a facelet with no colored sticker.
const Blank = ' '

// Geometry is what the mapper needs from the assembly.
type Geometry interface {
	Step() float64
	Stickers() []assembly.Sticker
	StickerRootPose(id int) (geom.Transform, error)
	PieceRootPose(id int) (geom.Transform, error)
}

// Mapper builds raw facelet strings.
type Mapper struct {
	log *zap.Logger
}

// NewMapper creates a mapper. A nil logger is replaced by a no-op one.
func NewMapper(log *zap.Logger) *Mapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mapper{log: log}
}

// Map returns the raw facelet string for g. Stickers whose pose cannot
// be resolved are skipped and reported in the returned count.
func (m *Mapper) Map(g Geometry) (string, int) {
	out := bytes.Repeat([]byte{Blank}, types.FaceletCount)
	misses := 0

	for _, s := range g.Stickers() {
		if !s.Color.Valid() {
			continue
		}

		spose, err := g.StickerRootPose(s.ID)
		if err != nil {
			misses++
			m.log.Debug("sticker pose unavailable", zap.Int("sticker", s.ID), zap.Error(err))
			continue
		}
		ppose, err := g.PieceRootPose(s.Piece)
		if err != nil {
			misses++
			m.log.Debug("piece pose unavailable", zap.Int("piece", s.Piece), zap.Error(err))
			continue
		}

		face := assembly.DominantFace(spose.Translation)
		idx := Index(face, geom.LatticeIndex(ppose.Translation, g.Step()))
		out[idx] = s.Color.Label()
	}

	return string(out), misses
}

// Index returns the facelet index of the sticker facing face on the
// piece at lattice coordinate pos.
func Index(face types.Face, pos [3]int) int {
	x, y, z := pos[0], pos[1], pos[2]

	var col, row int
	switch face {
	case types.FaceF:
		col, row = x+1, 1-y
	case types.FaceB:
		col, row = 1-x, 1-y
	case types.FaceL:
		col, row = z+1, 1-y
	case types.FaceR:
		col, row = 1-z, 1-y
	case types.FaceU:
		col, row = x+1, z+1
	case types.FaceD:
		col, row = x+1, 1-z
	}

	return face.Offset() + row*3 + col
}
