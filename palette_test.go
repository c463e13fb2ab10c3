package cubesolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

func TestPaletteCounts(t *testing.T) {
	p := paintedPuzzle(t)
	pl := NewPalette()
	pl.Sync(p)

	assert.Equal(t, types.ColorWhite, pl.Selected())
	for _, c := range types.AllColors {
		assert.Equal(t, MaxPerColor, pl.Count(c), c.String())
		assert.False(t, pl.CanApply(c))
		assert.Equal(t, "9/9", pl.Usage(c))
	}
}

func TestPaletteLimitAndToggle(t *testing.T) {
	p := paintedPuzzle(t)
	pl := NewPalette()
	require.NoError(t, pl.Select(types.ColorRed))

	up, ok := p.StickerAt(0)
	require.True(t, ok)
	right, ok := p.StickerAt(9)
	require.True(t, ok)

	_, err := pl.Apply(p, up.ID)
	assert.ErrorIs(t, err, ErrColorExhausted)

	// clicking a red sticker with red selected clears it
	colored, err := pl.Apply(p, right.ID)
	require.NoError(t, err)
	assert.False(t, colored)
	assert.Equal(t, 8, pl.Count(types.ColorRed))

	colored, err = pl.Apply(p, up.ID)
	require.NoError(t, err)
	assert.True(t, colored)
	assert.Equal(t, 9, pl.Count(types.ColorRed))
	assert.Equal(t, 8, pl.Count(types.ColorWhite))
	assert.True(t, pl.CanApply(types.ColorWhite))
}

func TestPaletteRejects(t *testing.T) {
	p := New()
	pl := NewPalette()
	assert.ErrorIs(t, pl.Select(types.ColorNone), ErrInvalidColor)

	_, err := pl.Apply(p, -1)
	assert.ErrorIs(t, err, ErrUnknownSticker)

	colored, err := pl.Apply(p, 0)
	require.NoError(t, err)
	assert.True(t, colored)
	assert.Equal(t, 1, pl.Count(types.ColorWhite))

	require.NoError(t, pl.Remove(p, 0))
	assert.Zero(t, pl.Count(types.ColorWhite))
}
