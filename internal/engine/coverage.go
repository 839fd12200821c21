package engine

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// snapQuantum is the step sheet coordinates are rounded to before splitting, so
// that edges shared by neighbouring sheets coincide exactly.
const snapQuantum = 1e-6

// region is one elementary piece of the split lattice.
type region struct {
	source string
	poly   orb.Polygon
	owners []string // sorted names of every sheet containing the piece
	keep   bool
}

// core reports whether the piece belongs to its source sheet alone.
func (r region) core() bool {
	return len(r.owners) == 1 && r.owners[0] == r.source
}

// ReduceCoverage deletes the sheets whose own, non-overlapping core misses
// the area of interest while every part of the AoI covered by the full
// lattice stays covered. Survivors are renumbered 1..N in row-major order.
// The grid is left untouched unless the whole stage succeeds.
func ReduceCoverage(grid *model.Grid, aoi model.AreaOfInterest, eng geometry.Engine, fb Feedback) error {
	fb = orNop(fb)
	if len(grid.Sheets) == 0 {
		return nil
	}
	if err := checkCancelled(fb); err != nil {
		return err
	}
	selectors, err := aoiPolygons(aoi, grid.CRS, eng)
	if err != nil {
		return err
	}

	fb.PushInfo("Splitting grid along sheet boundaries")
	regions, err := splitLattice(grid, eng, fb)
	if err != nil {
		return err
	}

	fb.PushInfo("Calculating sheets to keep")
	candidates := make([]orb.Geometry, len(regions))
	for i, r := range regions {
		candidates[i] = r.poly
	}
	hits, err := eng.SelectIntersecting(candidates, asGeometries(selectors))
	if err != nil {
		return geomErr("select regions intersecting area of interest", err)
	}
	for _, i := range hits {
		regions[i].keep = true
	}
	if err := checkCancelled(fb); err != nil {
		return err
	}

	fb.PushInfo("Checking for intersections in the overlaps")
	resolveOverlaps(regions)

	doomed := make(map[string]bool)
	for _, r := range regions {
		if r.core() && !r.keep {
			doomed[r.source] = true
		}
	}
	if err := checkCancelled(fb); err != nil {
		return err
	}

	kept := make([]model.Sheet, 0, len(grid.Sheets)-len(doomed))
	for _, s := range grid.Sheets {
		if doomed[s.Name] {
			continue
		}
		s.SequenceNumber = len(kept) + 1
		s.ComponentNumber = s.SequenceNumber
		kept = append(kept, s)
	}
	grid.Sheets = kept
	fb.PushInfo(fmt.Sprintf("Deleted %d sheets, %d remain", len(doomed), len(kept)))
	return nil
}

// splitLattice cuts every sheet by all sheet boundaries and records which
// sheets own each resulting piece.
func splitLattice(grid *model.Grid, eng geometry.Engine, fb Feedback) ([]region, error) {
	sources := make([]geometry.Source, len(grid.Sheets))
	polys := make([]orb.Polygon, len(grid.Sheets))
	bounds := make([]orb.Bound, len(grid.Sheets))
	for i, s := range grid.Sheets {
		polys[i] = geometry.Snap(s.Polygon(), snapQuantum)
		sources[i] = geometry.Source{Name: s.Name, Polygon: polys[i]}
		bounds[i] = polys[i].Bound()
	}

	pieces, err := eng.SplitByLines(sources, geometry.Boundaries(polys))
	if err != nil {
		return nil, geomErr("split by lines", err)
	}
	if len(pieces) == 0 {
		return nil, geomErr("split by lines", geometry.ErrEmptyResult)
	}
	if err := checkCancelled(fb); err != nil {
		return nil, err
	}

	regions := make([]region, len(pieces))
	for i, pc := range pieces {
		owners := []string{pc.Source}
		pb := pc.Polygon.Bound()
		for j, src := range sources {
			if src.Name == pc.Source || !bounds[j].Intersects(pb) {
				continue
			}
			ok, err := eng.Contains(src.Polygon, pc.Polygon)
			if err != nil {
				return nil, geomErr(fmt.Sprintf("contains %s", src.Name), err)
			}
			if ok {
				owners = append(owners, src.Name)
			}
		}
		sort.Strings(owners)
		regions[i] = region{source: pc.Source, poly: pc.Polygon, owners: owners}
		if i%256 == 255 {
			if err := checkCancelled(fb); err != nil {
				return nil, err
			}
		}
	}
	return regions, nil
}

// resolveOverlaps makes sure that every AoI-intersecting overlap piece
// keeps at least one of its owners alive: when none of the owners' core
// pieces is kept, the first such core in piece order is flagged.
func resolveOverlaps(regions []region) {
	cores := make(map[string][]int)
	for i, r := range regions {
		if r.core() {
			cores[r.source] = append(cores[r.source], i)
		}
	}
	for _, r := range regions {
		if !r.keep || len(r.owners) < 2 {
			continue
		}
		first := -1
		kept := false
		for _, name := range r.owners {
			for _, k := range cores[name] {
				if regions[k].keep {
					kept = true
				}
				if first < 0 || k < first {
					first = k
				}
			}
		}
		if !kept && first >= 0 {
			regions[first].keep = true
		}
	}
}
