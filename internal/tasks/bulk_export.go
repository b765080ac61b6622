package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/spotcli/internal/formatter"
	"github.com/desertthunder/spotcli/internal/models"
	"github.com/desertthunder/spotcli/internal/services"
	"github.com/desertthunder/spotcli/internal/shared"
)

// BulkExportOpts contains configuration for bulk exports.
type BulkExportOpts struct {
	Format     formatter.Format     // Export format (default: json)
	OutputDir  string               // Base output directory (default: spotify_export_{epoch})
	NumWorkers int                  // Concurrent workers (default: 3, max: 6)
	Limit      int                  // Items per list (default: services.MaxLimit)
	Kinds      []models.Kind        // Default: tracks and artists
	Ranges     []services.TimeRange // Default: all three ranges
}

var fileExtensions = map[formatter.Format]string{
	formatter.FormatText:     "txt",
	formatter.FormatJSON:     "json",
	formatter.FormatCSV:      "csv",
	formatter.FormatMarkdown: "md",
}

// Jobs expands the kinds and ranges into jobs, kinds outermost.
func (o BulkExportOpts) Jobs() []ExportJob {
	jobs := make([]ExportJob, 0, len(o.Kinds)*len(o.Ranges))
	for _, k := range o.Kinds {
		for _, r := range o.Ranges {
			jobs = append(jobs, ExportJob{Kind: k, Range: r})
		}
	}
	return jobs
}

func (o *BulkExportOpts) setDefaults() error {
	if o.Format == "" {
		o.Format = formatter.FormatJSON
	}
	if _, ok := fileExtensions[o.Format]; !ok {
		return fmt.Errorf("%w: format %q", shared.ErrInvalidFlag, o.Format)
	}
	if o.OutputDir == "" {
		o.OutputDir = fmt.Sprintf("spotify_export_%d", time.Now().Unix())
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = 3
	}
	if o.NumWorkers > 6 {
		o.NumWorkers = 6
	}
	if o.Limit == 0 {
		o.Limit = services.MaxLimit
	}
	if err := services.ValidateLimit(o.Limit); err != nil {
		return err
	}
	if len(o.Kinds) == 0 {
		o.Kinds = []models.Kind{models.KindTracks, models.KindArtists}
	}
	if len(o.Ranges) == 0 {
		o.Ranges = []services.TimeRange{services.ShortTerm, services.MediumTerm, services.LongTerm}
	}
	return nil
}

// BulkExport exports every (kind, range) pair concurrently and writes a manifest.
//
// Individual failures are recorded in the result. When every job fails the first failure is returned
// as the error, so a missing login surfaces as [shared.ErrNoCredentials].
func (e *ExportEngine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, opts BulkExportOpts) (*BulkExportResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	all := opts.Jobs()
	result := &BulkExportResult{
		Format:          string(opts.Format),
		Limit:           opts.Limit,
		TotalExports:    len(all),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ExportResult, len(all)),
	}

	e.sendProgress(prog, startingExportUpdate(len(all), opts.OutputDir))

	type indexed struct {
		i   int
		res ExportResult
	}

	jobs := make(chan int, len(all))
	for i := range all {
		jobs <- i
	}
	close(jobs)

	results := make(chan indexed, len(all))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					results <- indexed{i, failed(all[i], ctx.Err())}
					continue
				}
				results <- indexed{i, e.exportOne(ctx, all[i], opts)}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	completed := 0
	for r := range results {
		completed++
		result.Results[r.i] = r.res
		if r.res.Success {
			result.SuccessfulCount++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(all), all[r.i], r.res.Items))
			continue
		}
		result.FailedCount++
		if firstErr == nil {
			firstErr = r.res.Error
		}
		e.logger.Warn("export failed", "job", all[r.i].String(), "error", r.res.Error)
		e.sendProgress(prog, exportFailedUpdate(completed, len(all), all[r.i], r.res.Error))
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	if result.SuccessfulCount == 0 && firstErr != nil {
		return result, fmt.Errorf("all %d exports failed: %w", len(all), firstErr)
	}
	return result, nil
}

func failed(job ExportJob, err error) ExportResult {
	return ExportResult{
		Kind:    job.Kind,
		Range:   job.Range.Short(),
		Error:   err,
		Message: err.Error(),
	}
}

// exportOne fetches one list and writes it to <kind>_<range>.<ext>.
func (e *ExportEngine) exportOne(ctx context.Context, job ExportJob, opts BulkExportOpts) ExportResult {
	q := services.TopQuery{Range: job.Range, Limit: opts.Limit}
	title := fmt.Sprintf("Top %s (%s)", job.Kind, job.Range.Short())

	var data []byte
	var items int
	var err error
	switch job.Kind {
	case models.KindTracks:
		var tracks []models.Track
		if tracks, err = e.service.TopTracks(ctx, q); err == nil {
			items = len(tracks)
			data, err = formatter.Tracks(opts.Format, title, tracks)
		}
	case models.KindArtists:
		var artists []models.Artist
		if artists, err = e.service.TopArtists(ctx, q); err == nil {
			items = len(artists)
			data, err = formatter.Artists(opts.Format, title, artists)
		}
	default:
		err = fmt.Errorf("%w: kind %q", shared.ErrInvalidInput, job.Kind)
	}
	if err != nil {
		return failed(job, err)
	}

	name := fmt.Sprintf("%s_%s.%s", job.Kind, job.Range.Short(), fileExtensions[opts.Format])
	path, err := formatter.WriteExport(data, filepath.Join(opts.OutputDir, name))
	if err != nil {
		return failed(job, err)
	}

	return ExportResult{Kind: job.Kind, Range: job.Range.Short(), Items: items, File: path, Success: true}
}
