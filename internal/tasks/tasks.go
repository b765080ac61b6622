package tasks

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotcli/internal/models"
	"github.com/desertthunder/spotcli/internal/services"
	"github.com/desertthunder/spotcli/internal/shared"
)

// ExportJob is one (kind, time range) pair to export.
type ExportJob struct {
	Kind  models.Kind
	Range services.TimeRange
}

func (j ExportJob) String() string {
	return fmt.Sprintf("top %s (%s)", j.Kind, j.Range.Short())
}

// ExportResult is the outcome of a single [ExportJob].
type ExportResult struct {
	Kind    models.Kind `json:"kind"`
	Range   string      `json:"time_range"`
	Items   int         `json:"items"`
	File    string      `json:"file,omitempty"`
	Success bool        `json:"success"`
	Error   error       `json:"-"`
	Message string      `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export and is written as the manifest.
type BulkExportResult struct {
	Format          string         `json:"format"`
	Limit           int            `json:"limit"`
	TotalExports    int            `json:"total_exports"`
	SuccessfulCount int            `json:"successful_exports"`
	FailedCount     int            `json:"failed_exports"`
	OutputDirectory string         `json:"output_directory"`
	ManifestPath    string         `json:"-"`
	Results         []ExportResult `json:"results"`
}

// ExportEngine runs exports against a [services.TopService].
type ExportEngine struct {
	service services.TopService
	logger  *log.Logger
}

// NewExportEngine creates an [ExportEngine]. A nil logger writes to stderr.
func NewExportEngine(svc services.TopService, logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExportEngine{service: svc, logger: shared.WithLogger(logger, "component", "export")}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
