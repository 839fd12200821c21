package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasGrid/internal/engine"
	"github.com/piwi3910/AtlasGrid/internal/geometry"
	"github.com/piwi3910/AtlasGrid/internal/importer"
	"github.com/piwi3910/AtlasGrid/internal/model"
	"github.com/piwi3910/AtlasGrid/internal/project"
)

// gridFlags are the run inputs shared by generate and compare.
type gridFlags struct {
	jobPath    string
	extent     string
	aoiPath    string
	aoiCRS     string
	scale      float64
	preset     string
	width      float64
	height     float64
	unit       string
	hOverlap   float64
	vOverlap   float64
	crs        string
	deleteMode bool
	engine     string
}

func (f *gridFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.jobPath, "job", "", "Job file to load settings and extent from")
	fl.StringVar(&f.extent, "extent", "", `Extent "xmin,xmax,ymin,ymax [EPSG:code]"`)
	fl.StringVar(&f.aoiPath, "aoi", "", "Area of interest file (.geojson, .dxf, .csv, .xlsx)")
	fl.StringVar(&f.aoiCRS, "aoi-crs", "", "Override the CRS of the area of interest file")
	fl.Float64Var(&f.scale, "scale", 0, "Map scale denominator, e.g. 25000")
	fl.StringVar(&f.preset, "preset", "", "Page preset name (see 'atlasgrid presets')")
	fl.Float64Var(&f.width, "width", 0, "Sheet width in --unit")
	fl.Float64Var(&f.height, "height", 0, "Sheet height in --unit")
	fl.StringVar(&f.unit, "unit", string(model.UnitMillimeters), "Sheet size unit: mm, cm, m, in, ft, pt, pica, px")
	fl.Float64Var(&f.hOverlap, "h-overlap", 0, "Horizontal overlap in percent (0-50)")
	fl.Float64Var(&f.vOverlap, "v-overlap", 0, "Vertical overlap in percent (0-50)")
	fl.StringVar(&f.crs, "crs", "", "Grid CRS (default from config)")
	fl.BoolVar(&f.deleteMode, "delete", false, "Delete sheets not needed to cover the area of interest")
	fl.StringVar(&f.engine, "engine", "", "Geometry engine: geos or rect (default from config)")
}

// runInputs is a fully resolved run.
type runInputs struct {
	settings model.GridSettings
	extent   model.Extent
	aoi      *model.AreaOfInterest
	eng      geometry.Engine
	job      project.Job
}

// resolve layers the config, the job file and explicit flags, in that
// order, into one run.
func (a *app) resolve(cmd *cobra.Command, f *gridFlags) (runInputs, error) {
	var in runInputs
	changed := cmd.Flags().Changed

	s := model.DefaultSettings()
	a.config.ApplyToSettings(&s, a.custom)
	engineName := a.config.GeometryEngine

	var extent model.Extent
	var extentCRS string
	if f.jobPath != "" {
		job, err := project.LoadJob(f.jobPath)
		if err != nil {
			return in, err
		}
		s = job.Settings
		extent = job.Extent
		extentCRS = job.Settings.CRS
		if job.AoIPath != "" && !changed("aoi") {
			f.aoiPath = job.AoIPath
			if !changed("aoi-crs") {
				f.aoiCRS = job.AoICRS
			}
		}
		if job.Engine != "" {
			engineName = job.Engine
		}
		in.job = job
		slog.Debug("loaded job", "path", f.jobPath, "id", job.ID)
	}

	if changed("scale") {
		s.Scale = f.scale
	}
	if changed("preset") {
		p, ok := model.FindPreset(f.preset, a.custom)
		if !ok {
			return in, fmt.Errorf("unknown page preset %q (available: %s)", f.preset, strings.Join(presetNames(a.custom), ", "))
		}
		s.SheetSize = p.Size
	}
	if changed("unit") && !changed("width") {
		return in, fmt.Errorf("--unit applies only with --width and --height")
	}
	if changed("width") || changed("height") {
		if !changed("width") || !changed("height") {
			return in, fmt.Errorf("--width and --height must be given together")
		}
		s.SheetSize = model.SheetSize{Width: f.width, Height: f.height, Unit: model.Unit(f.unit)}
	}
	if changed("h-overlap") {
		s.Overlap.Horizontal = f.hOverlap
	}
	if changed("v-overlap") {
		s.Overlap.Vertical = f.vOverlap
	}
	if changed("crs") {
		s.CRS = f.crs
	}
	s.CRS = geometry.NormalizeCRS(s.CRS)
	if changed("delete") {
		s.DeleteNonIntersecting = f.deleteMode
	}
	if changed("engine") {
		engineName = f.engine
	}

	if changed("extent") {
		ext, crs, err := importer.ParseExtent(f.extent)
		if err != nil {
			return in, err
		}
		extent, extentCRS = ext, crs
	}
	if !extent.IsValid() {
		return in, fmt.Errorf("an extent is required (--extent or --job)")
	}
	extent, err := extentIn(extent, extentCRS, s.CRS)
	if err != nil {
		return in, err
	}

	if f.aoiPath != "" {
		aoi, err := loadAoI(f.aoiPath, f.aoiCRS)
		if err != nil {
			return in, err
		}
		in.aoi = aoi
	}

	eng, err := newEngine(engineName)
	if err != nil {
		return in, err
	}

	in.settings = s
	in.extent = extent
	in.eng = eng
	if in.job.Version == "" {
		in.job = project.NewJob(s, extent)
	}
	in.job.Settings = s
	in.job.Extent = extent
	in.job.AoIPath = f.aoiPath
	in.job.AoICRS = f.aoiCRS
	in.job.Engine = engineName
	return in, nil
}

// extentIn returns ext, given in from, as the bounding extent in to. An
// empty from means the extent is already in the grid CRS.
func extentIn(ext model.Extent, from, to string) (model.Extent, error) {
	if from == "" || geometry.SameCRS(from, to) {
		return ext, nil
	}
	p, err := geometry.ReprojectPolygon(ext.Bound().ToPolygon(), from, to)
	if err != nil {
		return model.Extent{}, fmt.Errorf("extent: %w", err)
	}
	return model.ExtentFromBound(p.Bound()), nil
}

// loadAoI imports an area of interest file, logging import warnings.
func loadAoI(path, crs string) (*model.AreaOfInterest, error) {
	result := importer.ImportFile(path, crs)
	for _, w := range result.Warnings {
		slog.Warn("area of interest", "file", path, "warning", w)
	}
	if result.AoI.IsEmpty() {
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("area of interest %s: %s", path, result.Errors[0])
		}
		return nil, fmt.Errorf("area of interest %s: no polygons", path)
	}
	for _, e := range result.Errors {
		slog.Warn("area of interest", "file", path, "error", e)
	}
	slog.Info("loaded area of interest", "file", path, "polygons", len(result.AoI.Polygons), "crs", result.AoI.CRS)
	return &result.AoI, nil
}

// feedback logs pipeline messages and stops on cancellation of cmd's context.
func (a *app) feedback(cmd *cobra.Command) engine.Feedback {
	return engine.NewContextFeedback(cmd.Context(), engine.NewLogFeedback(a.logger))
}

// presetNames lists the built-in preset names followed by the custom ones.
func presetNames(custom []model.PagePreset) []string {
	names := model.GetPresetNames()
	for _, p := range custom {
		names = append(names, p.Name)
	}
	return names
}
