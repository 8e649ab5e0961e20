package model

// Source describes where order records are loaded from.
type Source struct {
	Type string `json:"type"` // csv, xlsx
	URL  string `json:"url"`  // file path or http(s) URL
}

// ValidationRules controls load-time row handling.
type ValidationRules struct {
	SkipInvalid     bool   `json:"skipInvalid"`               // drop unparsable rows instead of failing
	TimestampLayout string `json:"timestampLayout,omitempty"` // Go layout for order_purchase_timestamp
}

// Export defines export targets
type Export struct {
	Format string `json:"format"`         // json, csv, xlsx
	File   string `json:"file,omitempty"` // optional file name inside the job output dir
	DB     bool   `json:"db"`             // also store summary rows in the database
}

// ReportJobSpec is the body of POST /api/v1/reports
type ReportJobSpec struct {
	Sources         []Source         `json:"sources"`
	Start           string           `json:"start,omitempty"` // defaults to dataset minimum
	End             string           `json:"end,omitempty"`   // defaults to dataset maximum
	TopN            int              `json:"topN,omitempty"`
	Parallel        bool             `json:"parallel,omitempty"`
	Transformations []string         `json:"transformations,omitempty"`
	Validation      *ValidationRules `json:"validation,omitempty"`
	Export          *Export          `json:"export,omitempty"`
	JobTimeout      string           `json:"jobTimeout,omitempty"` // e.g. "5m"
}

// Job statuses
const (
	StatusPending   = "pending"
	StatusIngesting = "ingesting"
	StatusReporting = "reporting"
	StatusExporting = "exporting"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Terminal reports whether a job in status can no longer change.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed || status == StatusCancelled
}
