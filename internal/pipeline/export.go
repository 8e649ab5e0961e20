package pipeline

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/internal/render"
	"go-ecommerce-dashboard/internal/store"
	"go-ecommerce-dashboard/pkg/utils"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatText = "txt"
)

// ExportResult represents the result of an export operation
type ExportResult struct {
	Type        string    `json:"type"` // json, csv, xlsx, txt, database
	Path        string    `json:"path"` // file path or table name
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

// Exporter writes the finished report of a job.
type Exporter struct {
	JobID  string
	Output *utils.OutputManager
}

// ValidateExport rejects unknown export formats.
func ValidateExport(spec *model.Export) error {
	if spec == nil {
		return nil
	}
	switch strings.ToLower(spec.Format) {
	case "", FormatJSON, FormatCSV, FormatXLSX, FormatText:
		return nil
	}
	return eris.Errorf("pipeline: unknown export format %q", spec.Format)
}

// Export writes report according to spec. A nil spec exports nothing.
func (e *Exporter) Export(ctx context.Context, report *model.Report, spec *model.Export) ([]ExportResult, error) {
	if spec == nil {
		return nil, nil
	}
	if err := ValidateExport(spec); err != nil {
		return nil, err
	}

	var results []ExportResult
	if format := strings.ToLower(spec.Format); format != "" {
		if err := ctx.Err(); err != nil {
			return results, eris.Wrap(err, "pipeline: export cancelled")
		}
		res, err := e.exportToFile(report, format, spec.File)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}

	if spec.DB {
		if err := ctx.Err(); err != nil {
			return results, eris.Wrap(err, "pipeline: export cancelled")
		}
		res, err := e.exportToDatabase(report)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

func (e *Exporter) exportToFile(report *model.Report, format, fileName string) (ExportResult, error) {
	if fileName == "" {
		fileName = "report." + format
	}
	result := ExportResult{Type: format, ExportedAt: time.Now()}

	path, err := e.Output.GetOutputFilePath(e.JobID, fileName)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}
	result.Path = path

	var count int
	switch format {
	case FormatJSON:
		count, err = e.writeJSON(path, report)
	case FormatCSV:
		count, err = writeCSV(path, report)
	case FormatXLSX:
		count, err = writeXLSX(path, report)
	case FormatText:
		count, err = writeText(path, report)
	}
	if err != nil {
		result.Error = err.Error()
		zap.L().Error("export to file failed", zap.String("job_id", e.JobID), zap.String("path", path), zap.Error(err))
		return result, err
	}
	result.RecordCount = count
	result.Success = true

	if err := e.recordFile(path); err != nil {
		zap.L().Warn("failed to record output file", zap.String("job_id", e.JobID), zap.Error(err))
	}
	zap.L().Info("exported report", zap.String("job_id", e.JobID), zap.String("path", path), zap.Int("rows", count))
	return result, nil
}

func (e *Exporter) recordFile(path string) error {
	size, err := e.Output.GetFileSize(path)
	if err != nil {
		return err
	}
	_, err = store.SaveOutputFile(model.OutputFile{
		JobID:    e.JobID,
		FileName: filepath.Base(path),
		FilePath: path,
		FileType: e.Output.GetFileType(path),
		FileSize: size,
	})
	return err
}

func (e *Exporter) exportToDatabase(report *model.Report) (ExportResult, error) {
	result := ExportResult{Type: "database", Path: "group_summaries", ExportedAt: time.Now()}

	if err := store.SaveReport(e.JobID, report); err != nil {
		result.Error = err.Error()
		return result, err
	}
	rows := SummaryRows(report)
	if err := store.SaveGroupSummaries(e.JobID, rows); err != nil {
		result.Error = err.Error()
		return result, err
	}
	result.RecordCount = len(rows)
	result.Success = true
	return result, nil
}

// SummaryRows flattens every ranked table of report, ranks starting at 1.
func SummaryRows(report *model.Report) []store.SummaryRow {
	var rows []store.SummaryRow
	add := func(table, section string, summaries []model.GroupSummary) {
		for i, s := range summaries {
			rows = append(rows, store.SummaryRow{Table: table, Section: section, Rank: i + 1, Summary: s})
		}
	}
	add(model.TableProductsByVolume, "top", report.ProductsByVolume.Top)
	add(model.TableProductsByVolume, "bottom", report.ProductsByVolume.Bottom)
	add(model.TableProductsByRevenue, "top", report.ProductsByRevenue.Top)
	add(model.TableProductsByRevenue, "bottom", report.ProductsByRevenue.Bottom)
	add(model.TableCitiesTop10, "top", report.CitiesTop10)
	add(model.TableStatesTop10, "top", report.StatesTop10)
	return rows
}

func (e *Exporter) writeJSON(path string, report *model.Report) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "pipeline: create json export")
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := map[string]interface{}{
		"export_info": map[string]interface{}{
			"job_id":           e.JobID,
			"exported_at":      time.Now().UTC(),
			"filtered_records": report.FilteredRecords,
			"export_type":      "dashboard_report",
		},
		"report": report,
	}
	if err := encoder.Encode(exportData); err != nil {
		return 0, eris.Wrap(err, "pipeline: encode json export")
	}
	return report.FilteredRecords, nil
}

// writeCSV writes the long format: one line per ranked group plus two
// delivery lines. Ranked sets are split into <table>.top and <table>.bottom.
func writeCSV(path string, report *model.Report) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "pipeline: create csv export")
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"table", "rank", "key", "num_orders", "revenue"}); err != nil {
		return 0, eris.Wrap(err, "pipeline: write csv header")
	}

	count := 0
	for _, r := range SummaryRows(report) {
		table := r.Table
		if r.Table == model.TableProductsByVolume || r.Table == model.TableProductsByRevenue {
			table += "." + r.Section
		}
		row := []string{
			table,
			strconv.Itoa(r.Rank),
			r.Summary.Key,
			strconv.Itoa(r.Summary.NumOrders),
			r.Summary.Revenue.String(),
		}
		if err := w.Write(row); err != nil {
			return count, eris.Wrap(err, "pipeline: write csv row")
		}
		count++
	}

	delivery := [][]string{
		{model.TableDelivery, "", "on_time", strconv.Itoa(report.Delivery.OnTime), ""},
		{model.TableDelivery, "", "late", strconv.Itoa(report.Delivery.Late), ""},
	}
	if err := w.WriteAll(delivery); err != nil {
		return count, eris.Wrap(err, "pipeline: write csv delivery")
	}
	return count + len(delivery), nil
}

// writeXLSX writes one sheet per report table.
func writeXLSX(path string, report *model.Report) (int, error) {
	f := xlsx.NewFile()
	count := 0

	ranked := []struct {
		name string
		set  model.RankedSet
	}{
		{model.TableProductsByVolume, report.ProductsByVolume},
		{model.TableProductsByRevenue, report.ProductsByRevenue},
	}
	for _, t := range ranked {
		sheet, err := f.AddSheet(t.name)
		if err != nil {
			return 0, eris.Wrapf(err, "pipeline: add sheet %s", t.name)
		}
		addHeader(sheet, "section", "rank", "key", "num_orders", "revenue")
		count += addSummaries(sheet, "top", t.set.Top)
		count += addSummaries(sheet, "bottom", t.set.Bottom)
	}

	plain := []struct {
		name      string
		summaries []model.GroupSummary
	}{
		{model.TableCitiesTop10, report.CitiesTop10},
		{model.TableStatesTop10, report.StatesTop10},
	}
	for _, t := range plain {
		sheet, err := f.AddSheet(t.name)
		if err != nil {
			return 0, eris.Wrapf(err, "pipeline: add sheet %s", t.name)
		}
		addHeader(sheet, "section", "rank", "key", "num_orders", "revenue")
		count += addSummaries(sheet, "top", t.summaries)
	}

	sheet, err := f.AddSheet(model.TableDelivery)
	if err != nil {
		return 0, eris.Wrap(err, "pipeline: add delivery sheet")
	}
	addHeader(sheet, "status", "count", "share_percent")
	for _, d := range []struct {
		status string
		n      int
		share  float64
	}{
		{string(model.OnTime), report.Delivery.OnTime, report.Delivery.OnTimePercent()},
		{string(model.Late), report.Delivery.Late, report.Delivery.LatePercent()},
	} {
		row := sheet.AddRow()
		row.AddCell().SetString(d.status)
		row.AddCell().SetInt(d.n)
		row.AddCell().SetFloat(d.share)
		count++
	}

	if err := f.Save(path); err != nil {
		return 0, eris.Wrap(err, "pipeline: save xlsx export")
	}
	return count, nil
}

func addHeader(sheet *xlsx.Sheet, names ...string) {
	row := sheet.AddRow()
	for _, n := range names {
		row.AddCell().SetString(n)
	}
}

func addSummaries(sheet *xlsx.Sheet, section string, summaries []model.GroupSummary) int {
	for i, s := range summaries {
		row := sheet.AddRow()
		row.AddCell().SetString(section)
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(s.Key)
		row.AddCell().SetInt(s.NumOrders)
		row.AddCell().SetFloat(s.Revenue.InexactFloat64())
	}
	return len(summaries)
}

func writeText(path string, report *model.Report) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "pipeline: create text export")
	}
	defer file.Close()

	if err := render.Text(file, report); err != nil {
		return 0, eris.Wrap(err, "pipeline: render text export")
	}
	return report.FilteredRecords, nil
}
