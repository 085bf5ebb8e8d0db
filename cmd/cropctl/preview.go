package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cropcal/entities"
	"cropcal/pkg/app"
	"cropcal/pkg/calendar"
	"cropcal/pkg/climate"
	"cropcal/pkg/weather"
)

type previewOpts struct {
	crop, variety string
	planted       string
	weatherFile   string
	drainage      string
	fertility     string
	lat, lon      float64
	asJSON        bool
}

func newPreviewCmd(c *cli) *cobra.Command {
	o := &previewOpts{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the calendar a plot would get, without storing anything",
		Example: `  cropctl preview --crop maize --variety h614 --planted 2025-10-24
  cropctl preview --crop beans --variety climbing --planted 2025-10-30 --weather forecast.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, c, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.crop, "crop", "", "crop name (required)")
	f.StringVar(&o.variety, "variety", "", "variety; empty uses the crop base model")
	f.StringVar(&o.planted, "planted", "", "planting date YYYY-MM-DD (required)")
	f.StringVar(&o.weatherFile, "weather", "", "YAML/JSON weather signal to adjust against")
	f.StringVar(&o.drainage, "drainage", "", "soil drainage class")
	f.StringVar(&o.fertility, "fertility", "", "soil fertility: low, medium or high")
	f.Float64Var(&o.lat, "lat", 0, "plot latitude")
	f.Float64Var(&o.lon, "lon", 0, "plot longitude")
	f.BoolVar(&o.asJSON, "json", false, "print JSON instead of a table")
	_ = cmd.MarkFlagRequired("crop")
	_ = cmd.MarkFlagRequired("planted")
	return cmd
}

func runPreview(cmd *cobra.Command, c *cli, o *previewOpts) error {
	planted, err := entities.ParseDay(o.planted)
	if err != nil {
		return fmt.Errorf("--planted: %w", err)
	}
	reg, err := app.LoadModels(c.cfg, c.log)
	if err != nil {
		return err
	}
	model, err := reg.Lookup(o.crop, o.variety)
	if err != nil {
		return err
	}
	var soil *entities.SoilSummary
	if o.drainage != "" || o.fertility != "" {
		soil = &entities.SoilSummary{Fertility: entities.SoilFertility(o.fertility), DrainageClass: o.drainage}
	}

	draft := calendar.Generate(model, planted, entities.Location{Lat: o.lat, Lon: o.lon}, soil, calendar.Options{PlotID: "preview"})
	warnings := draft.Warnings
	events := draft.Events
	if o.weatherFile != "" {
		sig, err := weather.LoadSignalFile(o.weatherFile)
		if err != nil {
			return err
		}
		adj := climate.NewAdjuster(c.cfg.Climate, c.log).Adjust(events, sig, climate.AdjustOptions{
			PlantingDate:  planted,
			DrainageClass: o.drainage,
			Now:           time.Now().UTC(),
		})
		events = adj.Events
		warnings = append(warnings, adj.Warnings...)
	}
	calendar.SortEvents(events)

	out := cmd.OutOrStdout()
	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"events":   events,
			"harvest":  draft.Harvest,
			"warnings": warnings,
		})
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tDAP\tTYPE\tPRACTICE\tPRIORITY\tNOTE")
	for _, ev := range events {
		note := ev.Description
		if ev.AdjustmentReason != "" {
			note = ev.AdjustmentReason
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			ev.ScheduledDate.Format(entities.DateLayout), ev.DaysAfterPlanting, ev.EventType, ev.PracticeKey, ev.Priority, note)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s: %s\n", w.Code, w.Message)
	}
	return nil
}
