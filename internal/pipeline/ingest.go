package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-ecommerce-dashboard/internal/model"
)

// Source columns.
const (
	colOrderID       = "order_id"
	colProductName   = "product_name"
	colPaymentValue  = "payment_value"
	colCustomerCity  = "customer_city"
	colCustomerState = "customer_state"
	colPurchasedAt   = "order_purchase_timestamp"
	colArrivalStatus = "arrival_status"
)

var requiredColumns = []string{
	colOrderID,
	colProductName,
	colPaymentValue,
	colCustomerCity,
	colCustomerState,
	colPurchasedAt,
	colArrivalStatus,
}

// RawRow is one source row keyed by column name.
type RawRow struct {
	Source int    // index of the source in the job
	Line   int    // 1-based data row within the source
	URL    string // source path or URL
	Fields map[string]string
}

// Options controls how sources are read and turned into records.
type Options struct {
	Transformations []string
	Validation      model.ValidationRules
	Retry           RetryConfig
	Client          *http.Client
	Workers         int // validation workers, 4 when <= 0
}

func (o Options) retryConfig() RetryConfig {
	if o.Retry.MaxAttempts == 0 {
		return DefaultRetryConfig
	}
	return o.Retry
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: 60 * time.Second}
}

// LoadSource reads one source into typed records.
func LoadSource(ctx context.Context, src model.Source, opts Options) ([]model.Record, error) {
	return LoadSources(ctx, []model.Source{src}, opts)
}

// LoadSources reads every source concurrently and returns their records
// concatenated in source order, each source in file order.
func LoadSources(ctx context.Context, sources []model.Source, opts Options) ([]model.Record, error) {
	if len(sources) == 0 {
		return nil, eris.New("pipeline: no sources")
	}
	if err := ValidateTransformations(opts.Transformations); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	rows := make(chan RawRow, 256)

	g.Go(func() error {
		defer close(rows)
		return StartIngestion(gctx, sources, opts, rows)
	})

	var records []model.Record
	g.Go(func() error {
		var err error
		records, err = ValidateRecords(gctx, rows, opts)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// StartIngestion reads all sources in parallel into out. It does not close out.
func StartIngestion(ctx context.Context, sources []model.Source, opts Options, out chan<- RawRow) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			return IngestSource(gctx, i, src, opts, out)
		})
	}
	return g.Wait()
}

// IngestSource reads a single csv, json or xlsx source into out.
func IngestSource(ctx context.Context, idx int, src model.Source, opts Options, out chan<- RawRow) error {
	start := time.Now()
	zap.L().Info("starting ingestion", zap.String("source", src.URL), zap.String("type", src.Type))

	var (
		n   int
		err error
	)
	typ := strings.ToLower(src.Type)
	switch typ {
	case "csv", "":
		typ = "csv"
		n, err = ingestCSV(ctx, idx, src.URL, opts, out)
	case "json":
		n, err = ingestJSON(ctx, idx, src.URL, opts, out)
	case "xlsx":
		n, err = ingestXLSX(ctx, idx, src.URL, opts, out)
	default:
		return eris.Errorf("pipeline: unknown source type %q", src.Type)
	}
	if err != nil {
		return err
	}

	recordsLoaded.WithLabelValues(typ).Add(float64(n))
	zap.L().Info("finished ingestion",
		zap.String("source", src.URL),
		zap.Int("rows", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func isRemote(pathOrURL string) bool {
	return strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://")
}

// readSource returns the full content of a local file or remote URL.
func readSource(ctx context.Context, pathOrURL string, opts Options) ([]byte, error) {
	if !isRemote(pathOrURL) {
		data, err := os.ReadFile(pathOrURL)
		return data, eris.Wrapf(err, "pipeline: read %s", pathOrURL)
	}

	client := opts.client()
	var body []byte
	err := Retry(ctx, opts.retryConfig(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &HTTPStatusError{URL: pathOrURL, StatusCode: resp.StatusCode}
		}
		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: fetch %s", pathOrURL)
	}
	return body, nil
}

func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ReplaceAll(h, `"`, "")
	return strings.TrimSpace(h)
}

func checkHeader(pathOrURL string, headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return eris.Errorf("pipeline: %s: missing column %q", pathOrURL, col)
		}
	}
	return nil
}

// emitTable sends a header-first table of string cells to out.
func emitTable(ctx context.Context, idx int, pathOrURL string, headers []string, next func() ([]string, error), out chan<- RawRow) (int, error) {
	for i := range headers {
		headers[i] = cleanHeader(headers[i])
	}
	if err := checkHeader(pathOrURL, headers); err != nil {
		return 0, err
	}

	n := 0
	for {
		cells, err := next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, eris.Wrapf(err, "pipeline: %s: read row %d", pathOrURL, n+1)
		}

		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				fields[h] = cells[i]
			}
		}
		n++

		select {
		case <-ctx.Done():
			return n, eris.Wrap(ctx.Err(), "pipeline: ingestion cancelled")
		case out <- RawRow{Source: idx, Line: n, URL: pathOrURL, Fields: fields}:
		}
	}
}

func ingestCSV(ctx context.Context, idx int, pathOrURL string, opts Options, out chan<- RawRow) (int, error) {
	data, err := readSource(ctx, pathOrURL, opts)
	if err != nil {
		return 0, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	headers, err := r.Read()
	if err != nil {
		return 0, eris.Wrapf(err, "pipeline: %s: read header", pathOrURL)
	}
	return emitTable(ctx, idx, pathOrURL, headers, r.Read, out)
}

// ingestJSON accepts an array of flat objects or a single object.
func ingestJSON(ctx context.Context, idx int, pathOrURL string, opts Options, out chan<- RawRow) (int, error) {
	data, err := readSource(ctx, pathOrURL, opts)
	if err != nil {
		return 0, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return 0, eris.Wrapf(err, "pipeline: %s: decode json", pathOrURL)
	}

	var objects []map[string]interface{}
	switch v := raw.(type) {
	case []interface{}:
		for i, item := range v {
			obj, ok := item.(map[string]interface{})
			if !ok {
				return 0, eris.Errorf("pipeline: %s: element %d is not an object", pathOrURL, i)
			}
			objects = append(objects, obj)
		}
	case map[string]interface{}:
		objects = append(objects, v)
	default:
		return 0, eris.Errorf("pipeline: %s: unexpected json structure", pathOrURL)
	}

	for i, obj := range objects {
		fields := make(map[string]string, len(obj))
		for k, v := range obj {
			fields[cleanHeader(k)] = jsonString(v)
		}
		select {
		case <-ctx.Done():
			return i, eris.Wrap(ctx.Err(), "pipeline: ingestion cancelled")
		case out <- RawRow{Source: idx, Line: i + 1, URL: pathOrURL, Fields: fields}:
		}
	}
	return len(objects), nil
}

func jsonString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// ingestXLSX reads the first sheet; the first row is the header.
func ingestXLSX(ctx context.Context, idx int, pathOrURL string, opts Options, out chan<- RawRow) (int, error) {
	path := pathOrURL
	if isRemote(pathOrURL) {
		data, err := readSource(ctx, pathOrURL, opts)
		if err != nil {
			return 0, err
		}
		tmp, err := os.CreateTemp("", "source-*.xlsx")
		if err != nil {
			return 0, eris.Wrap(err, "pipeline: create temp file")
		}
		defer os.Remove(tmp.Name())
		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			return 0, eris.Wrap(err, "pipeline: write temp file")
		}
		if err := tmp.Close(); err != nil {
			return 0, eris.Wrap(err, "pipeline: close temp file")
		}
		path = tmp.Name()
	}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return 0, eris.Wrapf(err, "pipeline: open xlsx %s", filepath.Base(pathOrURL))
	}
	if len(f.Sheets) == 0 || len(f.Sheets[0].Rows) == 0 {
		return 0, eris.Errorf("pipeline: %s: empty workbook", pathOrURL)
	}

	rows := f.Sheets[0].Rows
	pos := 1
	next := func() ([]string, error) {
		if pos >= len(rows) {
			return nil, io.EOF
		}
		cells := rowToStrings(rows[pos])
		pos++
		return cells, nil
	}
	return emitTable(ctx, idx, pathOrURL, rowToStrings(rows[0]), next, out)
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}
