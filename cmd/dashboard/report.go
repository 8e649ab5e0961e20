package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"go-ecommerce-dashboard/internal/analytics"
	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/internal/pipeline"
	"go-ecommerce-dashboard/internal/render"
	"go-ecommerce-dashboard/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build a dashboard report for a date range",
	Long: "Loads the source, filters it to [start, end] and prints every dashboard table. " +
		"With --export the report runs as a tracked job and is also written to the export directory.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		top, _ := cmd.Flags().GetInt("top")
		format, _ := cmd.Flags().GetString("format")
		export, _ := cmd.Flags().GetString("export")

		if format != "text" && format != "json" {
			return eris.Errorf("report: unknown output format %q", format)
		}

		src := configuredSource(cmd)
		var (
			report *model.Report
			err    error
		)
		if export != "" {
			report, err = runExportJob(cmd, src, start, end, top, export)
		} else {
			report, err = buildLocal(cmd, src, start, end, top)
		}
		if err != nil {
			return err
		}
		return printReport(cmd.OutOrStdout(), report, format)
	},
}

func buildLocal(cmd *cobra.Command, src model.Source, start, end string, top int) (*model.Report, error) {
	records, err := loadDataset(cmd.Context(), src)
	if err != nil {
		return nil, err
	}

	rs := analytics.NewRecordStore(records)
	r, err := analytics.ResolveRange(rs, start, end)
	if err != nil {
		return nil, err
	}
	b := builderFrom(cfg)
	if top > 0 {
		b.TopN = top
	}
	return b.Build(rs, r)
}

// runExportJob runs the report through the job pipeline so stages, errors
// and output files are recorded in the store.
func runExportJob(cmd *cobra.Command, src model.Source, start, end string, top int, format string) (*model.Report, error) {
	if err := store.InitDB(cfg.Store.Path); err != nil {
		return nil, err
	}
	defer store.Close()

	spec := model.ReportJobSpec{
		Sources: []model.Source{src},
		Start:   start,
		End:     end,
		TopN:    top,
		Export:  &model.Export{Format: format, DB: true},
	}
	if err := pipeline.ValidateSpec(spec); err != nil {
		return nil, err
	}

	jobID := uuid.New().String()
	if err := store.SaveJob(jobID, spec); err != nil {
		return nil, err
	}
	if err := pipeline.Run(cmd.Context(), jobID, spec); err != nil {
		return nil, eris.Wrapf(err, "report job %s", jobID)
	}

	files, err := store.GetOutputFiles(jobID)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %s (%d bytes)\n", f.FilePath, f.FileSize)
	}
	return store.GetReport(jobID)
}

func printReport(w io.Writer, report *model.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(report), "report: encode json")
	}
	return render.Text(w, report)
}

func init() {
	addSourceFlags(reportCmd)
	reportCmd.Flags().String("start", "", "first day included, YYYY-MM-DD or RFC3339 (default dataset minimum)")
	reportCmd.Flags().String("end", "", "last instant included, YYYY-MM-DD or RFC3339 (default dataset maximum)")
	reportCmd.Flags().Int("top", 0, "rows per ranked table (default from config)")
	reportCmd.Flags().String("format", "text", "output format: text or json")
	reportCmd.Flags().String("export", "", "also export the report as json, csv, xlsx or txt")

	rootCmd.AddCommand(reportCmd)
}
