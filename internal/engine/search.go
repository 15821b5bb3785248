package engine

import (
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync"

	"github.com/piwi3910/AtlasPack/internal/model"
)

// Optimizer runs the scale search over a set of source images.
type Optimizer struct {
	Settings model.Settings

	progress ProgressFunc
	logger   *slog.Logger
	mu       sync.Mutex // serialises progress reports
}

func New(settings model.Settings) *Optimizer {
	return &Optimizer{
		Settings: settings,
		logger:   slog.New(slog.DiscardHandler),
	}
}

// WithProgress installs a progress hook and returns the optimizer.
func (o *Optimizer) WithProgress(fn ProgressFunc) *Optimizer {
	o.progress = fn
	return o
}

// WithLogger sets the logger used for per-candidate diagnostics. A nil
// logger discards output.
func (o *Optimizer) WithLogger(logger *slog.Logger) *Optimizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	o.logger = logger
	return o
}

// SearchResult holds the winning candidate and the evaluation of every
// candidate in enumeration order.
type SearchResult struct {
	Best       model.CandidateResult
	Pack       model.PackResult
	Candidates []model.CandidateResult
}

// candidateOutcome is the per-candidate work product of a search worker.
type candidateOutcome struct {
	result model.CandidateResult
	pack   model.PackResult
}

// Search evaluates every scale candidate and returns the one whose atlas
// has the smallest transparent fraction. Candidates are evaluated on a
// bounded worker pool, but the minimum is taken in enumeration order with
// a strict comparison, so the earliest of equally good candidates wins
// regardless of scheduling. Returns model.ErrNoValidPacking when no
// candidate places every rectangle.
func (o *Optimizer) Search(sources []*model.SourceImage) (SearchResult, error) {
	if len(sources) == 0 {
		return SearchResult{}, model.ErrEmptyInput
	}

	grid := BuildScaleGrid(o.Settings.ScalesX, o.Settings.ScalesY)
	outcomes := make([]candidateOutcome, len(grid))

	workers := o.Settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(grid))

	jobs := make(chan int)
	var wg sync.WaitGroup
	done := 0
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = o.evaluate(grid[i], sources)
				o.mu.Lock()
				done++
				o.report(PhaseSearch, done, len(grid))
				o.mu.Unlock()
			}
		}()
	}
	for i := range grid {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	res := SearchResult{Candidates: make([]model.CandidateResult, len(outcomes))}
	bestIdx := -1
	for i, out := range outcomes {
		c := out.result
		res.Candidates[i] = c
		if !c.Complete {
			o.logger.Debug("invalid packing",
				"scale_x", c.ScaleX, "scale_y", c.ScaleY,
				"placed", c.Placed, "input", c.Input, "error", c.Err)
			continue
		}
		o.logger.Debug("candidate",
			"scale_x", c.ScaleX, "scale_y", c.ScaleY,
			"waste", fmt.Sprintf("%.2f%%", c.Waste*100))
		if bestIdx < 0 || c.Waste < outcomes[bestIdx].result.Waste {
			bestIdx = i
			o.logger.Debug("best scale",
				"scale_x", c.ScaleX, "scale_y", c.ScaleY,
				"waste", fmt.Sprintf("%.2f%%", c.Waste*100))
		}
	}

	if bestIdx < 0 {
		return res, fmt.Errorf("%d scale candidates evaluated: %w", len(grid), model.ErrNoValidPacking)
	}
	res.Best = outcomes[bestIdx].result
	res.Pack = outcomes[bestIdx].pack
	return res, nil
}

// evaluate extracts, packs and scores one scale candidate. Only the packing
// is kept; the assembled atlas is dropped once its waste is known.
func (o *Optimizer) evaluate(c ScaleCandidate, sources []*model.SourceImage) candidateOutcome {
	maxW, maxH := CanvasBounds(sources, c.ScaleX, c.ScaleY)
	result := model.CandidateResult{
		ScaleX:    c.ScaleX,
		ScaleY:    c.ScaleY,
		MaxWidth:  maxW,
		MaxHeight: maxH,
	}

	var rects []model.ExtractedRect
	for i, src := range sources {
		extracted, err := ExtractRects(src)
		if err != nil {
			result.Err = err.Error()
			return candidateOutcome{result: result}
		}
		rects = append(rects, extracted...)
		o.mu.Lock()
		o.report(PhaseScan, i+1, len(sources))
		o.mu.Unlock()
	}

	pack := Pack(rects, maxW, maxH)
	result.Placed = pack.Placed
	result.Input = pack.Input
	if !pack.Complete() {
		return candidateOutcome{result: result, pack: pack}
	}

	atlas, err := Assemble(pack, sources)
	if err != nil {
		result.Err = err.Error()
		return candidateOutcome{result: result, pack: pack}
	}
	result.Complete = true
	result.Width, result.Height = pack.Bounds()
	result.Waste = TransparentFraction(atlas)
	return candidateOutcome{result: result, pack: pack}
}

// report forwards to the progress hook. The caller holds o.mu.
func (o *Optimizer) report(phase Phase, done, total int) {
	if o.progress != nil {
		o.progress(phase, done, total)
	}
}

// sourceImages returns the pixel buffers of sources.
func sourceImages(sources []*model.SourceImage) []*image.NRGBA {
	images := make([]*image.NRGBA, len(sources))
	for i, src := range sources {
		images[i] = src.Image
	}
	return images
}
