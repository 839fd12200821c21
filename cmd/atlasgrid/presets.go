package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/AtlasGrid/internal/model"
	"github.com/piwi3910/AtlasGrid/internal/project"
)

func (a *app) presetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List page presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tSOURCE\tDESCRIPTION")
			list := append(append([]model.PagePreset{}, model.PagePresets...), a.custom...)
			for _, p := range list {
				source := "custom"
				if p.IsBuiltIn {
					source = "built-in"
				}
				fmt.Fprintf(tw, "%s\t%g x %g %s\t%s\t%s\n", p.Name, p.Size.Width, p.Size.Height, p.Size.Unit, source, p.Description)
			}
			return tw.Flush()
		},
	}
	cmd.AddCommand(a.presetsAddCmd())
	return cmd
}

func (a *app) presetsAddCmd() *cobra.Command {
	var p model.PagePreset
	var unit string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add or replace a custom page preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Name = args[0]
			p.Size.Unit = model.Unit(unit)
			if _, err := project.AddCustomPreset(a.presetsPath(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved preset %q\n", p.Name)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.Float64Var(&p.Size.Width, "width", 0, "Frame width")
	fl.Float64Var(&p.Size.Height, "height", 0, "Frame height")
	fl.StringVar(&unit, "unit", string(model.UnitMillimeters), "Size unit")
	fl.StringVar(&p.Description, "description", "", "Description")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")
	return cmd
}
