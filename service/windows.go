package service

import (
	"context"
	"sync"
	"time"

	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/errors"
	"github.com/AndrewSmigaj/OpenAIHackathon-ConceptMRI/pkg/worker"
)

// windowStopTimeout bounds the wait for in-flight window analyses when
// the fan-out winds down.
const windowStopTimeout = 2 * time.Minute

// WindowResult pairs one window with its analysis outcome.
type WindowResult struct {
	Window   []int            `json:"window_layers"`
	Response *AnalyzeResponse `json:"response,omitempty"`
	Err      error            `json:"-"`
}

// AnalyzeWindows runs the same analysis over several layer windows in
// parallel. Results come back in the order the windows were given; a
// failed window carries its error without failing the rest.
func (a *Analyzer) AnalyzeWindows(
	ctx context.Context,
	base AnalyzeRequest,
	windows [][]int,
	workers int,
) ([]WindowResult, error) {
	if len(windows) == 0 {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "service", "AnalyzeWindows", "no windows given")
	}

	results := make([]WindowResult, len(windows))
	var mu sync.Mutex

	pool := worker.NewPool(workers, len(windows), func(ctx context.Context, idx int) error {
		req := base
		req.WindowLayers = windows[idx]
		response, err := a.AnalyzeRoutes(ctx, req)

		mu.Lock()
		results[idx] = WindowResult{Window: windows[idx], Response: response, Err: err}
		mu.Unlock()
		return err
	})

	if err := pool.Start(ctx); err != nil {
		return nil, errors.WrapFatal(err, "service", "AnalyzeWindows", "start worker pool")
	}
	for idx := range windows {
		if err := pool.Submit(idx); err != nil {
			mu.Lock()
			results[idx] = WindowResult{Window: windows[idx], Err: err}
			mu.Unlock()
		}
	}
	if err := pool.Stop(windowStopTimeout); err != nil {
		return nil, errors.WrapTransient(err, "service", "AnalyzeWindows", "drain worker pool")
	}

	return results, nil
}
