// Package parallel parses multi-document streams on a bounded worker
// pool. The stream is first split into document ranges by a sequential
// lightweight pass, then each range is scanned and composed
// independently; results come back in document order regardless of
// which worker finished first.
//
// Resource limits are validated before any parsing work begins, so an
// oversized input is rejected in constant time with a ValidationError.
package parallel

import (
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/fastyaml/fastyaml/pkg/yaml/composer"
	yamlerrors "github.com/fastyaml/fastyaml/pkg/yaml/errors"
	"github.com/fastyaml/fastyaml/pkg/yaml/scanner"
	"github.com/fastyaml/fastyaml/pkg/yaml/splitter"
	"github.com/fastyaml/fastyaml/pkg/yaml/value"
)

// Default resource caps.
const (
	DefaultMaxInputSize     = 100 * 1024 * 1024
	DefaultMaxDocumentCount = 100_000
)

// Config controls SplitAndParse. The zero value selects sane defaults:
// one worker per CPU and the default resource caps.
type Config struct {
	// ThreadCount is the number of parser goroutines, clamped to
	// 1..128. Zero means runtime.NumCPU().
	ThreadCount int
	// MaxInputSize caps the input length in bytes. Zero means the
	// default of 100 MB; negative disables the check.
	MaxInputSize int64
	// MaxDocumentCount caps the number of documents. Zero means the
	// default of 100000; negative disables the check.
	MaxDocumentCount int
	// Logger receives per-batch debug logging. Nil disables it.
	Logger *slog.Logger
	// Metrics, when set, records batch outcomes.
	Metrics *Metrics
}

func (c Config) normalized() Config {
	if c.ThreadCount == 0 {
		c.ThreadCount = runtime.NumCPU()
	}
	if c.ThreadCount < 1 {
		c.ThreadCount = 1
	}
	if c.ThreadCount > 128 {
		c.ThreadCount = 128
	}
	if c.MaxInputSize == 0 {
		c.MaxInputSize = DefaultMaxInputSize
	}
	if c.MaxDocumentCount == 0 {
		c.MaxDocumentCount = DefaultMaxDocumentCount
	}
	return c
}

// SplitAndParse parses every document in src concurrently and returns
// the roots in document order. The first failing document (by index,
// not by completion time) is reported as a DocumentError. Single
// documents are parsed inline without touching the pool.
func SplitAndParse(src []byte, cfg Config) ([]*value.Value, error) {
	cfg = cfg.normalized()

	if cfg.MaxInputSize > 0 && int64(len(src)) > cfg.MaxInputSize {
		return nil, &yamlerrors.ValidationError{
			Limit:    "max input size",
			Maximum:  cfg.MaxInputSize,
			Observed: int64(len(src)),
		}
	}
	ranges := splitter.Split(src)
	if cfg.MaxDocumentCount > 0 && len(ranges) > cfg.MaxDocumentCount {
		return nil, &yamlerrors.ValidationError{
			Limit:    "max document count",
			Maximum:  int64(cfg.MaxDocumentCount),
			Observed: int64(len(ranges)),
		}
	}

	start := time.Now()
	results := make([]*value.Value, len(ranges))
	errs := make([]error, len(ranges))

	if len(ranges) <= 1 || cfg.ThreadCount == 1 {
		for i, r := range ranges {
			results[i], errs[i] = parseRange(src, r)
		}
	} else {
		workers := cfg.ThreadCount
		if workers > len(ranges) {
			workers = len(ranges)
		}
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i], errs[i] = parseRange(src, ranges[i])
				}
			}()
		}
		for i := range ranges {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	failures := 0
	var firstErr error
	for i, err := range errs {
		if err != nil {
			failures++
			if firstErr == nil {
				firstErr = &yamlerrors.DocumentError{Index: i, Err: err}
			}
		}
	}
	elapsed := time.Since(start)
	cfg.Metrics.RecordBatch(len(ranges), failures, elapsed)
	if cfg.Logger != nil {
		cfg.Logger.Debug("batch parse finished",
			"documents", len(ranges),
			"failures", failures,
			"workers", cfg.ThreadCount,
			"elapsed", elapsed)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// parseRange parses a single document range strictly.
func parseRange(src []byte, r splitter.Range) (*value.Value, error) {
	sc := scanner.NewWithOrigin(src[r.Start:r.End], r.Origin)
	doc, err := composer.New(sc).NextDocument()
	if err == io.EOF {
		return value.Null(), nil // blank range is the null document
	}
	if err != nil {
		return nil, err
	}
	return doc.Root, nil
}
