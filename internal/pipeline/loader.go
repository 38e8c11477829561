// Package pipeline loads scenario files in parallel and ranks them.
package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cfohelper/cfohelper/internal/model"
	"github.com/cfohelper/cfohelper/internal/source"
)

// FileError records a scenario file that could not be loaded.
type FileError struct {
	Path string
	Err  error
}

// LoadResult holds the output of loading a scenario directory.
type LoadResult struct {
	Scenarios   []model.NamedScenario
	TotalFiles  int
	ParsedFiles int
	Errors      []FileError
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses all scenario files under dir.
// It uses a bounded worker pool for parallel parsing.
func Load(dir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(files))
				}
			}
		}()
	}

	wg.Wait()

	// Results keep discovery order.
	for i, pr := range results {
		if pr.Err != nil {
			result.Errors = append(result.Errors, FileError{Path: files[i].Path, Err: pr.Err})
			continue
		}
		result.ParsedFiles++
		result.Scenarios = append(result.Scenarios, pr.Scenario)
	}

	return result, nil
}
