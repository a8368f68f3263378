package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/siswa/internal/formatter"
	"github.com/desertthunder/siswa/internal/models"
)

// ManifestKey is where [SlipEngine.BulkExport] writes its summary.
const ManifestKey = "export_manifest.json"

// BulkExportOpts contains configuration for bulk slip exports.
type BulkExportOpts struct {
	Format     SlipFormat // pdf or text
	NumWorkers int        // Concurrent workers (default: 4, max: 16)
	RateLimit  float64    // Slips queued per second (default: 10)
}

// SlipResult is the outcome for one student.
type SlipResult struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Number    string `json:"number"`
	Key       string `json:"key,omitempty"`
	Success   bool   `json:"success"`
	Error     error  `json:"-"`
	ErrorText string `json:"error,omitempty"`
}

// BulkExportResult summarises a bulk export.
type BulkExportResult struct {
	Total       int          `json:"total"`
	Successful  int          `json:"successful"`
	Failed      int          `json:"failed"`
	Format      SlipFormat   `json:"format"`
	ExportedAt  time.Time    `json:"exportedAt"`
	Results     []SlipResult `json:"results"`
	ManifestKey string       `json:"-"`
}

type slipJob struct {
	index   int
	student models.Student
	key     string
}

type indexedResult struct {
	index int
	SlipResult
}

// BulkExport renders a slip for every student concurrently with rate limiting and progress tracking.
//
// Students sharing a name get the registration number appended to their key so no slip overwrites
// another. Individual failures are recorded in the result; the returned error is reserved for
// cancellation and manifest failures. Results are ordered like students.
func (e *SlipEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	students []models.Student,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = SlipPDF
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 16 {
		opts.NumWorkers = 16
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 10.0
	}

	result := &BulkExportResult{
		Total:      len(students),
		Format:     opts.Format,
		ExportedAt: time.Now().UTC(),
		Results:    make([]SlipResult, 0, len(students)),
	}

	keys := uniqueKeys(students, opts.Format)
	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan slipJob, len(students))
	results := make(chan indexedResult, len(students))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.slipWorker(ctx, &wg, jobs, results, opts.Format)
	}

	go func() {
		defer close(jobs)
		for i, st := range students {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- slipJob{index: i, student: st, key: keys[i]}
			e.sendProgress(prog, queueUpdate(i+1, len(students), st.Name))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]indexedResult, 0, len(students))
	completed := 0
	for res := range results {
		completed++
		collected = append(collected, res)

		if res.Success {
			result.Successful++
			e.sendProgress(prog, slipDoneUpdate(completed, len(students), res.SlipResult))
		} else {
			result.Failed++
			e.sendProgress(prog, slipFailedUpdate(completed, len(students), res.SlipResult))
		}
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })
	for _, res := range collected {
		result.Results = append(result.Results, res.SlipResult)
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("bulk export interrupted after %d of %d slips: %w", completed, len(students), err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return result, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := e.sink.Set(ctx, ManifestKey, data); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestKey = ManifestKey
	e.sendProgress(prog, manifestUpdate(ManifestKey))
	e.logger.Info("bulk export finished", "total", result.Total, "ok", result.Successful, "failed", result.Failed)
	return result, nil
}

// slipWorker renders and writes slips from the jobs channel.
func (e *SlipEngine) slipWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan slipJob,
	results chan<- indexedResult,
	format SlipFormat,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- indexedResult{index: job.index, SlipResult: e.exportOne(ctx, job, format)}
	}
}

func (e *SlipEngine) exportOne(ctx context.Context, job slipJob, format SlipFormat) SlipResult {
	res := SlipResult{
		StudentID: job.student.ID,
		Name:      job.student.Name,
		Number:    formatter.RegistrationNumber(job.student.ID),
		Key:       job.key,
	}

	_, data, err := e.Render(job.student, format)
	if err == nil {
		err = e.sink.Set(ctx, job.key, data)
	}
	if err != nil {
		res.Error = err
		res.ErrorText = err.Error()
		e.logger.Warn("slip export failed", "id", job.student.ID, "error", err)
		return res
	}

	res.Success = true
	return res
}

// uniqueKeys assigns each student a slip key, disambiguating repeated names.
func uniqueKeys(students []models.Student, format SlipFormat) []string {
	counts := map[string]int{}
	base := make([]string, len(students))
	for i, st := range students {
		base[i] = slipKey(formatter.SlipFilename(st.Name), format)
		counts[base[i]]++
	}

	keys := make([]string, len(students))
	for i, st := range students {
		if counts[base[i]] == 1 {
			keys[i] = base[i]
			continue
		}
		dot := strings.LastIndex(base[i], ".")
		keys[i] = base[i][:dot] + "_" + formatter.RegistrationNumber(st.ID) + base[i][dot:]
	}
	return keys
}
