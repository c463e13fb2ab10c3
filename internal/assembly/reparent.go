package assembly

import (
	"go.uber.org/zap"

	"github.com/SeamusWaldron/cubesolver/internal/geom"
	"github.com/SeamusWaldron/cubesolver/pkg/types"
)

// Prepare moves every member of slice under its pivot and every other
// piece under the root. Pieces handed to the pivot keep their exact
// world pose; pieces handed to the root are snapped onto the grid.
// Prepare is a no-op once the pivot is prepared.
func (a *Assembly) Prepare(s types.Slice) {
	pv := &a.pivots[s]
	if pv.Prepared {
		return
	}
	owner := PivotOwner(s)

	// Children left over from an earlier turn go back to the root first.
	for i := range a.pieces {
		if a.pieces[i].Owner != owner {
			continue
		}
		rel, err := a.PieceRootPose(i)
		if err != nil {
			a.log.Debug("skipping stale piece", zap.Int("piece", i), zap.Error(err))
			continue
		}
		rel.Translation = geom.SnapTranslation(rel.Translation, a.step)
		a.pieces[i].Local = rel
		a.pieces[i].Owner = OwnerRoot
	}

	pivotWorld, err := a.parentWorld(owner)
	if err != nil {
		a.log.Debug("pivot pose unavailable", zap.Stringer("slice", s), zap.Error(err))
		return
	}

	members := 0
	for i := range a.pieces {
		world, err := a.PieceWorld(i)
		if err != nil {
			a.log.Debug("skipping piece", zap.Int("piece", i), zap.Error(err))
			continue
		}
		rel, err := geom.Relative(a.root, world)
		if err != nil {
			a.log.Debug("skipping piece", zap.Int("piece", i), zap.Error(err))
			continue
		}

		if BelongsTo(geom.Lattice(rel.Translation, a.step), s) {
			local, err := geom.Relative(pivotWorld, world)
			if err != nil {
				a.log.Debug("skipping piece", zap.Int("piece", i), zap.Error(err))
				continue
			}
			a.pieces[i].Local = local
			a.pieces[i].Owner = owner
			members++
			continue
		}

		rel.Translation = geom.SnapTranslation(rel.Translation, a.step)
		a.pieces[i].Local = rel
		a.pieces[i].Owner = OwnerRoot
	}

	pv.Prepared = true
	a.log.Debug("pivot prepared", zap.Stringer("slice", s), zap.Int("members", members))
}

// Finalize bakes the current pose of every piece owned by the pivot of
// slice into a grid-aligned pose under the root, then resets the pivot
// to its baseline.
func (a *Assembly) Finalize(s types.Slice) {
	owner := PivotOwner(s)
	for i := range a.pieces {
		if a.pieces[i].Owner != owner {
			continue
		}
		rel, err := a.PieceRootPose(i)
		if err != nil {
			a.log.Debug("skipping piece", zap.Int("piece", i), zap.Error(err))
			continue
		}
		rel.Translation = geom.SnapTranslation(rel.Translation, a.step)
		rel.Rotation = geom.SnapRotation(rel.Rotation)
		a.pieces[i].Local = rel
		a.pieces[i].Owner = OwnerRoot
	}

	pv := &a.pivots[s]
	pv.Local = pv.Baseline
	pv.Prepared = false
	a.poseVersion++
}

// Members returns the ids of the pieces currently owned by the pivot
// of slice.
func (a *Assembly) Members(s types.Slice) []int {
	var ids []int
	owner := PivotOwner(s)
	for i := range a.pieces {
		if a.pieces[i].Owner == owner {
			ids = append(ids, i)
		}
	}
	return ids
}
