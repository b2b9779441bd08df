package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dshills/prscan/internal/association"
)

// DefaultMaxParallel is the number of repositories analyzed at once.
const DefaultMaxParallel = 5

// Analyzer produces the result for one repository. It must not return a
// partially filled result; failures are reported through the result itself.
type Analyzer interface {
	Analyze(ctx context.Context, req association.Request) association.RepositoryRunResult
}

// Dispatcher fans requests out to an Analyzer, never running more than
// maxParallel at a time.
type Dispatcher struct {
	analyzer    Analyzer
	maxParallel int
	log         *slog.Logger
}

// NewDispatcher creates a dispatcher. A non-positive maxParallel uses DefaultMaxParallel.
func NewDispatcher(analyzer Analyzer, maxParallel int, log *slog.Logger) *Dispatcher {
	if maxParallel <= 0 {
		maxParallel = DefaultMaxParallel
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{analyzer: analyzer, maxParallel: maxParallel, log: log}
}

// Run analyzes every request and returns one result per request, in request
// order. A failing or panicking analysis produces a failed result and does not
// affect the others.
func (d *Dispatcher) Run(ctx context.Context, reqs []association.Request) []association.RepositoryRunResult {
	results := make([]association.RepositoryRunResult, len(reqs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, d.maxParallel)

	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req association.Request) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[i] = d.analyze(ctx, req)
		}(i, req)
	}

	wg.Wait()
	return results
}

func (d *Dispatcher) analyze(ctx context.Context, req association.Request) (res association.RepositoryRunResult) {
	log := d.log.With("repository", req.Repository)
	defer func() {
		if r := recover(); r != nil {
			log.Error("analysis panicked", "panic", r)
			res = association.Failed(req, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return association.Failed(req, err.Error())
	}

	log.Info("processing repository")
	start := time.Now()
	res = d.analyzer.Analyze(ctx, req)
	if res.Success {
		log.Info("repository done",
			"commits", len(res.Commits),
			"pull_requests", len(res.PullRequests),
			"elapsed", time.Since(start).Round(time.Millisecond))
	} else {
		log.Warn("repository failed", "error", res.ErrorMessage)
	}
	return res
}
