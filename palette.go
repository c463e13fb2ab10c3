package cubesolver

import (
	"fmt"

	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// MaxPerColor is how many stickers may carry one color.
const MaxPerColor = 9

// Palette tracks the selected color and how often each color is used.
// Counts are taken from the puzzle on every change, so they cannot drift
// from the stickers.
type Palette struct {
	selected Color
	counts   [6]int
}

// NewPalette returns a palette with white selected.
func NewPalette() *Palette {
	return &Palette{selected: types.ColorWhite}
}

// Select chooses the color used by Apply. Any color can be selected,
// even at its limit, so that stickers can be cleared with it.
func (pl *Palette) Select(c Color) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidColor, c)
	}
	pl.selected = c
	return nil
}

// Selected returns the selected color.
func (pl *Palette) Selected() Color {
	return pl.selected
}

// Sync recounts color usage from p.
func (pl *Palette) Sync(p *Puzzle) {
	pl.counts = [6]int{}
	for _, s := range p.asm.Stickers() {
		if s.Color.Valid() {
			pl.counts[s.Color]++
		}
	}
}

// Count returns how many stickers carry c.
func (pl *Palette) Count(c Color) int {
	if !c.Valid() {
		return 0
	}
	return pl.counts[c]
}

// CanApply reports whether c is below its limit.
func (pl *Palette) CanApply(c Color) bool {
	return c.Valid() && pl.counts[c] < MaxPerColor
}

// Usage returns "count/max" for c.
func (pl *Palette) Usage(c Color) string {
	return fmt.Sprintf("%d/%d", pl.Count(c), MaxPerColor)
}

// Apply paints sticker with the selected color. A sticker that already
// carries the selected color is cleared instead. It reports whether the
// sticker ended up colored.
func (pl *Palette) Apply(p *Puzzle, sticker int) (bool, error) {
	pl.Sync(p)

	current, err := stickerColor(p, sticker)
	if err != nil {
		return false, err
	}
	if current == pl.selected {
		return false, pl.Remove(p, sticker)
	}
	if !pl.CanApply(pl.selected) {
		return false, fmt.Errorf("%w: %s (%s)", ErrColorExhausted, pl.selected, pl.Usage(pl.selected))
	}
	if err := p.SetColor(sticker, pl.selected); err != nil {
		return false, err
	}
	pl.Sync(p)
	return true, nil
}

// Remove clears sticker.
func (pl *Palette) Remove(p *Puzzle, sticker int) error {
	if err := p.SetColor(sticker, types.ColorNone); err != nil {
		return err
	}
	pl.Sync(p)
	return nil
}

func stickerColor(p *Puzzle, id int) (Color, error) {
	stickers := p.asm.Stickers()
	if id < 0 || id >= len(stickers) {
		return types.ColorNone, fmt.Errorf("%w: %d", ErrUnknownSticker, id)
	}
	return stickers[id].Color, nil
}
