package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-man2html"
	"github.com/alnah/go-man2html/internal/assets"
	"github.com/alnah/go-man2html/internal/fileutil"
	"github.com/alnah/go-man2html/internal/hints"
	"github.com/alnah/go-man2html/internal/manpath"
)

// filePermissions is rw-r--r--: pages are meant to be readable.
const filePermissions = 0o644

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input man2html.Input) (*man2html.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*man2html.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	Page       string // the command-line argument
	OutputPath string // empty for stdout
	Err        error
	Duration   time.Duration
}

// convertBatch converts the pages concurrently on the pool. Each worker
// acquires a converter on its first page and keeps it for the run.
func convertBatch(ctx context.Context, pool Pool, jobs []pageJob, params *conversionParams, lookup pageLookup, env *Environment) []ConversionResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(jobs))
	results := make([]ConversionResult, len(jobs))
	queue := make(chan int, len(jobs))

	var wg sync.WaitGroup
	for range concurrency {
		wg.Go(func() {
			var conv CLIConverter
			defer func() {
				if conv != nil {
					pool.Release(conv)
				}
			}()

			for idx := range queue {
				job := jobs[idx]
				switch {
				case job.Err != nil:
					results[idx] = ConversionResult{Page: job.Arg, Err: job.Err}
					continue
				case ctx.Err() != nil:
					results[idx] = ConversionResult{Page: job.Arg, Err: ctx.Err()}
					continue
				}

				if conv == nil {
					c, err := pool.Acquire(ctx)
					if err != nil {
						results[idx] = ConversionResult{Page: job.Arg, Err: addHint(err, lookup)}
						continue
					}
					conv = c
				}
				results[idx] = convertPage(ctx, conv, job, params, env)
				results[idx].Err = addHint(results[idx].Err, lookup)
			}
		})
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// convertPage reads, converts and writes one page. A troff page that
// stopped early is still written, and the result carries the error.
func convertPage(ctx context.Context, conv CLIConverter, job pageJob, params *conversionParams, env *Environment) ConversionResult {
	start := time.Now()
	result := ConversionResult{Page: job.Arg}
	finish := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	source, err := readSource(job, env.Stdin)
	if err != nil {
		return finish(err)
	}

	res, convErr := conv.Convert(ctx, man2html.Input{
		Source:    source,
		Name:      job.Path,
		Format:    params.format,
		TOC:       params.toc,
		CrossRefs: params.crossRefs,
		PDF:       params.pdf,
		Page:      params.page,
		Footer:    params.footer,
	})
	if res == nil {
		return finish(convErr)
	}

	data, ext := res.HTML, "html"
	if params.pdf {
		data, ext = res.PDF, "pdf"
	}
	if params.pdf && data == nil {
		// An aborted page has no PDF; nothing is written.
		return finish(convErr)
	}

	if job.toStdout() {
		if _, err := env.Stdout.Write(data); err != nil {
			return finish(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
		return finish(convErr)
	}

	path, err := outputPath(job, res.Title, res.Section, ext)
	if err != nil {
		return finish(err)
	}
	result.OutputPath = path
	if err := writeOutput(path, data); err != nil {
		return finish(err)
	}
	return finish(convErr)
}

// readSource returns the page source from its file or from stdin.
func readSource(job pageJob, stdin io.Reader) (string, error) {
	if job.Path == "" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("%w: standard input: %v", ErrReadPage, err)
		}
		return string(data), nil
	}
	return manpath.ReadPage(job.Path)
}

// writeOutput writes data to path, creating its directory.
func writeOutput(path string, data []byte) error {
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return withHint(fmt.Errorf("%w: %v", ErrWriteOutput, err), hints.ForOutputDirectory())
	}
	// #nosec G306 -- pages are meant to be readable
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// addHint attaches the hint matching err, if any.
func addHint(err error, lookup pageLookup) error {
	var he *hintError
	if err == nil || errors.As(err, &he) {
		return err
	}

	switch {
	case errors.Is(err, man2html.ErrBrowserConnect):
		return withHint(err, hints.ForBrowserConnect())
	case errors.Is(err, context.DeadlineExceeded):
		return withHint(err, hints.ForTimeout())
	case errors.Is(err, man2html.ErrStyleNotFound):
		return withHint(err, hints.ForStyleNotFound(assets.StyleNames()))
	case errors.Is(err, manpath.ErrPageNotFound):
		return withHint(err, hints.ForPageNotFound(lookup.roots, lookup.lang))
	case errors.Is(err, man2html.ErrConversionAborted):
		return withHint(err, hints.ForConversionAborted())
	}
	return err
}

// batchError reports failed pages of a batch. It unwraps to the first
// failure so the exit code reflects it.
type batchError struct {
	failed, total int
	first         error
}

func (e *batchError) Error() string {
	return fmt.Sprintf("%d of %d pages failed", e.failed, e.total)
}

func (e *batchError) Unwrap() error { return e.first }

// printResults reports each page and returns an error when any failed.
// A single page's error is returned as is, without a FAILED line.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) error {
	if len(results) == 1 {
		r := results[0]
		if r.Err != nil {
			return r.Err
		}
		printCreated(r, quiet, verbose, env)
		return nil
	}

	var failed int
	var first error
	for _, r := range results {
		if r.Err != nil {
			failed++
			if first == nil {
				first = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.Page, r.Err)
			continue
		}
		printCreated(r, quiet, verbose, env)
	}

	if !quiet {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", len(results)-failed, failed)
	}
	if failed > 0 {
		return &batchError{failed: failed, total: len(results), first: first}
	}
	return nil
}

func printCreated(r ConversionResult, quiet, verbose bool, env *Environment) {
	if quiet || r.OutputPath == "" {
		return
	}
	if verbose {
		fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.Page, r.OutputPath, r.Duration.Round(time.Millisecond))
		return
	}
	fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
}
