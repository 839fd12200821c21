package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Extent is an axis-aligned rectangle in ground units of a fixed
// coordinate reference.
type Extent struct {
	XMin float64 `json:"xmin"`
	YMin float64 `json:"ymin"`
	XMax float64 `json:"xmax"`
	YMax float64 `json:"ymax"`
}

func NewExtent(xmin, ymin, xmax, ymax float64) Extent {
	return Extent{XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax}
}

// Width returns the horizontal span of the extent.
func (e Extent) Width() float64 { return e.XMax - e.XMin }

// Height returns the vertical span of the extent.
func (e Extent) Height() float64 { return e.YMax - e.YMin }

// IsValid reports whether the extent has a positive area.
func (e Extent) IsValid() bool {
	return e.XMax > e.XMin && e.YMax > e.YMin
}

// Translate returns the extent shifted by dx, dy.
func (e Extent) Translate(dx, dy float64) Extent {
	return Extent{XMin: e.XMin + dx, YMin: e.YMin + dy, XMax: e.XMax + dx, YMax: e.YMax + dy}
}

// Contains reports whether o lies entirely inside e.
func (e Extent) Contains(o Extent) bool {
	return e.XMin <= o.XMin && e.YMin <= o.YMin && e.XMax >= o.XMax && e.YMax >= o.YMax
}

// Bound converts the extent to an orb.Bound.
func (e Extent) Bound() orb.Bound {
	return orb.Bound{Min: orb.Point{e.XMin, e.YMin}, Max: orb.Point{e.XMax, e.YMax}}
}

// ExtentFromBound converts an orb.Bound to an Extent.
func ExtentFromBound(b orb.Bound) Extent {
	return Extent{XMin: b.Min.X(), YMin: b.Min.Y(), XMax: b.Max.X(), YMax: b.Max.Y()}
}

func (e Extent) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", e.XMin, e.XMax, e.YMin, e.YMax)
}

// SheetSize is the size of the map frame on the page.
type SheetSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   Unit    `json:"unit"`
}

// Meters converts the page size to meters.
func (s SheetSize) Meters() (w, h float64, err error) {
	w, err = ConvertLength(s.Width, s.Unit, UnitMeters)
	if err != nil {
		return 0, 0, err
	}
	h, err = ConvertLength(s.Height, s.Unit, UnitMeters)
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// Overlap holds horizontal and vertical overlap in percent of the sheet size.
type Overlap struct {
	Horizontal float64 `json:"horizontal_pct"`
	Vertical   float64 `json:"vertical_pct"`
}

// Any reports whether sheets overlap in either direction.
func (o Overlap) Any() bool {
	return o.Horizontal > 0 || o.Vertical > 0
}

// GridMetrics holds the derived ground dimensions of the lattice.
type GridMetrics struct {
	GrossWidth    float64 `json:"gross_width"`
	GrossHeight   float64 `json:"gross_height"`
	NetWidth      float64 `json:"net_width"`
	NetHeight     float64 `json:"net_height"`
	Rows          int     `json:"rows"`
	Cols          int     `json:"cols"`
	Extent        Extent  `json:"extent"`         // original, caller supplied
	WorkingExtent Extent  `json:"working_extent"` // translated so the lattice is centered
}

// ShrinkX is half the horizontal overlap margin.
func (m GridMetrics) ShrinkX() float64 { return (m.GrossWidth - m.NetWidth) / 2 }

// ShrinkY is half the vertical overlap margin.
func (m GridMetrics) ShrinkY() float64 { return (m.GrossHeight - m.NetHeight) / 2 }

// LatticeExtent returns the bounding box of all lattice sheets.
func (m GridMetrics) LatticeExtent() Extent {
	w := m.GrossWidth + float64(m.Cols-1)*m.NetWidth
	h := m.GrossHeight + float64(m.Rows-1)*m.NetHeight
	return Extent{
		XMin: m.WorkingExtent.XMin,
		YMin: m.WorkingExtent.YMax - h,
		XMax: m.WorkingExtent.XMin + w,
		YMax: m.WorkingExtent.YMax,
	}
}

// Sheet is one rectangular cell of the atlas grid.
// Sequence and component numbers are 1-based; 0 means unset. Block is the
// 1-based index of the AoI cluster the sheet was numbered with, or 0 when
// component numbering did not run.
type Sheet struct {
	Name            string    `json:"cellname"`
	Row             int       `json:"row"` // 0-based
	Col             int       `json:"col"` // 0-based
	SequenceNumber  int       `json:"cellnum"`
	ComponentNumber int       `json:"compnum"`
	Block           int       `json:"block,omitempty"`
	Bound           orb.Bound `json:"bound"`
}

// Polygon returns the sheet rectangle as a closed polygon.
func (s Sheet) Polygon() orb.Polygon {
	return s.Bound.ToPolygon()
}

// Shrunk returns the sheet rectangle shrunk inward by dx, dy on each side.
func (s Sheet) Shrunk(dx, dy float64) orb.Bound {
	return orb.Bound{
		Min: orb.Point{s.Bound.Min.X() + dx, s.Bound.Min.Y() + dy},
		Max: orb.Point{s.Bound.Max.X() - dx, s.Bound.Max.Y() - dy},
	}
}

// Grid is the ordered collection of sheets sharing one coordinate reference.
type Grid struct {
	ID      string      `json:"id"`
	CRS     string      `json:"crs"`
	Metrics GridMetrics `json:"metrics"`
	Sheets  []Sheet     `json:"sheets"`
}

func NewGrid(crs string, metrics GridMetrics) *Grid {
	return &Grid{
		ID:      uuid.New().String()[:8],
		CRS:     crs,
		Metrics: metrics,
		Sheets:  make([]Sheet, 0, metrics.Rows*metrics.Cols),
	}
}

// SheetByName returns the sheet with the given name.
func (g *Grid) SheetByName(name string) (Sheet, bool) {
	for _, s := range g.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Names returns sheet names in iteration order.
func (g *Grid) Names() []string {
	names := make([]string, len(g.Sheets))
	for i, s := range g.Sheets {
		names[i] = s.Name
	}
	return names
}

// Bound returns the bounding box of all sheets.
func (g *Grid) Bound() orb.Bound {
	if len(g.Sheets) == 0 {
		return orb.Bound{}
	}
	b := g.Sheets[0].Bound
	for _, s := range g.Sheets[1:] {
		b = b.Union(s.Bound)
	}
	return b
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cp := *g
	cp.Sheets = append([]Sheet(nil), g.Sheets...)
	return &cp
}

// AreaOfInterest is a set of polygons, possibly disjoint, in its own CRS.
type AreaOfInterest struct {
	CRS      string        `json:"crs"`
	Polygons []orb.Polygon `json:"polygons"`
}

// IsEmpty reports whether the AoI has no polygons.
func (a AreaOfInterest) IsEmpty() bool {
	return len(a.Polygons) == 0
}

// Bound returns the bounding box of all AoI polygons.
func (a AreaOfInterest) Bound() orb.Bound {
	if len(a.Polygons) == 0 {
		return orb.Bound{}
	}
	b := a.Polygons[0].Bound()
	for _, p := range a.Polygons[1:] {
		b = b.Union(p.Bound())
	}
	return b
}

// GridSettings holds the parameters of one grid generation run.
type GridSettings struct {
	Scale                 float64   `json:"scale"` // ground units per page unit, e.g. 25000 for 1:25000
	SheetSize             SheetSize `json:"sheet_size"`
	Overlap               Overlap   `json:"overlap"`
	CRS                   string    `json:"crs"`
	DeleteNonIntersecting bool      `json:"delete_non_intersecting"`
}

func DefaultSettings() GridSettings {
	a4 := GetPreset("A4 Landscape")
	return GridSettings{
		Scale:                 25000,
		SheetSize:             a4.Size,
		Overlap:               Overlap{},
		CRS:                   "EPSG:3857",
		DeleteNonIntersecting: false,
	}
}
