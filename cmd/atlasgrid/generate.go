package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasGrid/internal/engine"
	"github.com/piwi3910/AtlasGrid/internal/export"
	"github.com/piwi3910/AtlasGrid/internal/model"
	"github.com/piwi3910/AtlasGrid/internal/project"
)

// recentJobsMax bounds the recent jobs list in the config.
const recentJobsMax = 10

type outputFlags struct {
	geojson string
	pdf     string
	cards   string
	xlsx    string
	dxf     string
	saveJob string
	asJSON  bool
}

func (a *app) generateCmd() *cobra.Command {
	var gf gridFlags
	var of outputFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate an atlas grid",
		Example: `  atlasgrid generate --extent "0,10000,0,8000 [EPSG:3857]" --scale 25000 --geojson grid.geojson
  atlasgrid generate --job harbour.job.json --pdf overview.pdf --cards cards.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.resolve(cmd, &gf)
			if err != nil {
				return err
			}
			return a.generate(cmd, in, of)
		},
	}
	gf.register(cmd)

	fl := cmd.Flags()
	fl.StringVar(&of.geojson, "geojson", "", "Write the grid as GeoJSON")
	fl.StringVar(&of.pdf, "pdf", "", "Write the PDF overview and sheet index")
	fl.StringVar(&of.cards, "cards", "", "Write PDF sheet cards with QR codes")
	fl.StringVar(&of.xlsx, "xlsx", "", "Write the XLSX sheet index")
	fl.StringVar(&of.dxf, "dxf", "", "Write the grid as DXF")
	fl.StringVar(&of.saveJob, "save-job", "", "Save the resolved run as a job file")
	fl.BoolVar(&of.asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func (a *app) generate(cmd *cobra.Command, in runInputs, of outputFlags) error {
	g, err := engine.New(in.settings, in.eng, a.feedback(cmd)).Generate(in.extent, in.aoi)
	if err != nil {
		return err
	}

	written, err := writeOutputs(g, in.settings, of)
	if err != nil {
		return err
	}

	if of.saveJob != "" {
		in.job.Outputs = written
		if err := project.SaveJob(of.saveJob, in.job); err != nil {
			return err
		}
		a.config.AddRecentJob(of.saveJob, recentJobsMax)
		if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
			slog.Warn("could not update recent jobs", "err", err)
		}
		slog.Info("saved job", "path", of.saveJob, "id", in.job.ID)
	}

	return printSummary(cmd, g, of.asJSON)
}

// writeOutputs writes every requested output and returns their paths.
func writeOutputs(g *model.Grid, settings model.GridSettings, of outputFlags) ([]string, error) {
	writers := []struct {
		path  string
		write func(string) error
	}{
		{of.geojson, func(p string) error { return export.ExportGeoJSON(p, g) }},
		{of.pdf, func(p string) error { return export.ExportPDF(p, g, settings) }},
		{of.cards, func(p string) error { return export.ExportSheetCards(p, g) }},
		{of.xlsx, func(p string) error { return export.ExportXLSX(p, g, settings) }},
		{of.dxf, func(p string) error { return export.ExportDXF(p, g) }},
	}
	var written []string
	for _, w := range writers {
		if w.path == "" {
			continue
		}
		if err := w.write(w.path); err != nil {
			return written, fmt.Errorf("write %s: %w", w.path, err)
		}
		slog.Info("wrote output", "path", w.path)
		written = append(written, w.path)
	}
	return written, nil
}

func printSummary(cmd *cobra.Command, g *model.Grid, asJSON bool) error {
	sum := engine.Summarize(g)
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			ID  string `json:"id"`
			CRS string `json:"crs"`
			engine.Summary
		}{g.ID, g.CRS, sum})
	}
	fmt.Fprintf(out, "grid %s (%s): %d x %d lattice, %d sheets kept, %d deleted",
		g.ID, g.CRS, sum.Rows, sum.Cols, sum.Kept, sum.Deleted)
	if sum.Blocks > 0 {
		fmt.Fprintf(out, ", %d blocks", sum.Blocks)
	}
	fmt.Fprintln(out)
	return nil
}
