package engine

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/piwi3910/AtlasGrid/internal/model"
)

// NumberComponents assigns component numbers so that sheets serving the
// same connected cluster of the area of interest get a contiguous block.
// Blocks are ordered by their lowest sequence number and sheets within a
// block by sequence number. Sheets touching no AoI form blocks of one.
//
// Adjacency is tested on sheets shrunk by half the overlap margin, so two
// sheets are neighbours only when their net tiles touch.
func NumberComponents(grid *model.Grid, aoi model.AreaOfInterest, eng geometry.Engine, fb Feedback) error {
	fb = orNop(fb)
	n := len(grid.Sheets)
	if n == 0 {
		return nil
	}
	if err := checkCancelled(fb); err != nil {
		return err
	}

	fb.PushInfo("Dissolving area of interest")
	polys, err := aoiPolygons(aoi, grid.CRS, eng)
	if err != nil {
		return err
	}
	var comps []orb.Geometry
	if len(polys) > 0 {
		dissolved, err := eng.Dissolve(polys, true)
		if err != nil {
			return geomErr("dissolve", err)
		}
		if len(dissolved) == 0 {
			return geomErr("dissolve", fmt.Errorf("%w: %d polygons dissolved to no components", geometry.ErrEmptyResult, len(polys)))
		}
		comps = asGeometries(dissolved)
	}
	fb.PushInfo(fmt.Sprintf("Area of interest has %d disjoint parts", len(comps)))

	// Per-sheet state is indexed by position in sequence order.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return grid.Sheets[order[a]].SequenceNumber < grid.Sheets[order[b]].SequenceNumber
	})
	sx, sy := grid.Metrics.ShrinkX(), grid.Metrics.ShrinkY()
	shrunk := make([]orb.Geometry, n)
	for pos, idx := range order {
		shrunk[pos] = grid.Sheets[idx].Shrunk(sx, sy)
	}

	number := make([]int, n)
	block := make([]int, n)
	inComp := make([]bool, len(comps))
	next, blocks := 0, 0
	for seed := 0; seed < n; seed++ {
		if number[seed] != 0 {
			continue
		}
		if err := checkCancelled(fb); err != nil {
			return err
		}
		cluster, err := expand(seed, shrunk, comps, number, inComp, eng, fb)
		if err != nil {
			return err
		}
		blocks++
		sort.Ints(cluster)
		for _, pos := range cluster {
			next++
			number[pos] = next
			block[pos] = blocks
		}
	}

	if err := checkCancelled(fb); err != nil {
		return err
	}
	for pos, idx := range order {
		grid.Sheets[idx].ComponentNumber = number[pos]
		grid.Sheets[idx].Block = block[pos]
	}
	fb.PushInfo(fmt.Sprintf("Numbered %d sheets in %d blocks", n, blocks))
	return nil
}

// expand grows the cluster of seed to a fixed point, alternating between
// AoI components touching the newly added sheets and unnumbered sheets
// touching the newly added components.
func expand(seed int, sheets, comps []orb.Geometry, number []int, inComp []bool, eng geometry.Engine, fb Feedback) ([]int, error) {
	inCluster := map[int]bool{seed: true}
	cluster := []int{seed}
	frontier := []int{seed}
	for len(frontier) > 0 && len(comps) > 0 {
		hits, err := eng.SelectIntersecting(comps, pick(sheets, frontier))
		if err != nil {
			return nil, geomErr("select components intersecting sheets", err)
		}
		var added []int
		for _, c := range hits {
			if !inComp[c] {
				inComp[c] = true
				added = append(added, c)
			}
		}
		if len(added) == 0 {
			break
		}
		if err := checkCancelled(fb); err != nil {
			return nil, err
		}

		hits, err = eng.SelectIntersecting(sheets, pick(comps, added))
		if err != nil {
			return nil, geomErr("select sheets intersecting components", err)
		}
		frontier = frontier[:0]
		for _, s := range hits {
			if number[s] == 0 && !inCluster[s] {
				inCluster[s] = true
				cluster = append(cluster, s)
				frontier = append(frontier, s)
			}
		}
	}
	return cluster, nil
}

func pick(gs []orb.Geometry, idx []int) []orb.Geometry {
	out := make([]orb.Geometry, len(idx))
	for i, k := range idx {
		out[i] = gs[k]
	}
	return out
}
