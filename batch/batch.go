// Package batch generates the reports of a month from a template.
//
// Run validates the requested month, loads the template once and then
// produces one document per day: each day parses its own copy of the
// template bytes, substitutes the date and profile name, and saves the
// result in the month folder. A day that cannot be written does not stop
// the others; its failure is collected in the Result.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/rapport/calendar"
	"github.com/tsawler/rapport/docx"
	"github.com/tsawler/rapport/format"
	"github.com/tsawler/rapport/replace"
	"github.com/tsawler/rapport/substitute"
)

// logDate is the layout of dates in log entries and errors.
const logDate = "02/01/2006"

// ErrPartial is returned when at least one report could not be written.
var ErrPartial = errors.New("batch: some reports were not generated")

// Options describes one batch.
type Options struct {
	Template string // DOCX template path
	Output   string // directory holding the month folder
	Year     int
	Month    int
	Name     string // profile value, may be empty
	Prefix   string // file name prefix, calendar.DefaultFilePrefix when empty
	Workers  int    // days generated concurrently, at least 1
	Headers  bool   // also substitute in headers and footers
	DryRun   bool   // compute everything but write nothing
}

// Report describes one generated document.
type Report struct {
	Day   time.Time
	Path  string
	Stats substitute.Stats
}

// FileError is the failure to generate the document of one day.
type FileError struct {
	Day  time.Time
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Day.Format(logDate), e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Result lists what a batch produced, in day order.
type Result struct {
	Folder   string
	Reports  []Report
	Failures []FileError
}

// Runner runs batches.
type Runner struct {
	logger *zap.Logger
}

// NewRunner returns a Runner logging to logger. A nil logger discards
// everything.
func NewRunner(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger}
}

// Run runs a batch with a Runner that does not log.
func Run(ctx context.Context, opts Options) (*Result, error) {
	return NewRunner(nil).Run(ctx, opts)
}

// Run generates the reports described by opts.
//
// Invalid calendar input and an unusable template are reported before the
// month folder is created. When some days fail, the returned Result holds
// both the written reports and the failures, and the error wraps
// ErrPartial together with every FileError.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := calendar.Validate(opts.Year, opts.Month); err != nil {
		return nil, err
	}
	month := time.Month(opts.Month)

	template, err := r.loadTemplate(opts.Template)
	if err != nil {
		return nil, err
	}

	workers := max(opts.Workers, 1)
	name := norm.NFC.String(opts.Name)
	days := calendar.Dates(opts.Year, month)
	res := &Result{Folder: filepath.Join(opts.Output, calendar.FolderName(opts.Year, month))}

	r.logger.Info("Generating reports",
		zap.String("folder", res.Folder),
		zap.String("template", opts.Template),
		zap.Int("files", len(days)),
		zap.Int("workers", workers),
		zap.Bool("dry_run", opts.DryRun))

	if !opts.DryRun {
		if err := os.MkdirAll(res.Folder, 0o755); err != nil {
			return nil, &docx.WriteError{Path: res.Folder, Err: err}
		}
	}

	reports := make([]Report, len(days))
	failures := make([]*FileError, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, day := range days {
		i, day := i, day
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(res.Folder, calendar.FileName(opts.Prefix, day))
			rep, err := r.generate(template, day, path, name, opts)
			if err != nil {
				failures[i] = &FileError{Day: day, Path: path, Err: err}
				return nil
			}
			reports[i] = rep
			return nil
		})
	}
	waitErr := g.Wait()

	// Days skipped after cancellation have neither a report nor a failure.
	var errs []error
	for i := range days {
		if fe := failures[i]; fe != nil {
			res.Failures = append(res.Failures, *fe)
			errs = append(errs, fe)
			continue
		}
		if reports[i].Path != "" {
			res.Reports = append(res.Reports, reports[i])
		}
	}
	if waitErr != nil {
		r.logger.Warn("Generation cancelled",
			zap.String("folder", res.Folder),
			zap.Int("written", len(res.Reports)),
			zap.Int("failed", len(res.Failures)))
		return res, fmt.Errorf("generating %s: %w", res.Folder, waitErr)
	}

	r.logger.Info("Reports generated",
		zap.String("folder", res.Folder),
		zap.Int("written", len(res.Reports)),
		zap.Int("failed", len(res.Failures)))

	if len(errs) > 0 {
		return res, fmt.Errorf("%w: %d of %d files failed: %w",
			ErrPartial, len(errs), len(days), errors.Join(errs...))
	}
	return res, nil
}

// loadTemplate reads the template and checks that it is a usable DOCX
// package. A template that is usable but lacks one of the placeholders is
// logged, not rejected: it still produces a month of copies.
func (r *Runner) loadTemplate(path string) ([]byte, error) {
	if f := format.Detect(path); f != format.DOCX {
		r.logger.Warn("Template extension is not "+format.DOCX.Extension(),
			zap.String("template", path),
			zap.Stringer("format", f))
	}

	data, err := docx.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	if err := format.Require(data, format.DOCX); err != nil {
		return nil, fmt.Errorf("loading template %s: %w: %w", path, docx.ErrCorrupt, err)
	}
	doc, err := docx.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading template %s: %w", path, err)
	}

	text := doc.Text()
	r.logger.Debug("Template loaded",
		zap.String("template", path),
		zap.Int("bytes", len(data)),
		zap.Int("paragraphs", doc.Model().ParagraphCount()))
	if _, ok := replace.Find(text, substitute.DatePlaceholder); !ok {
		r.logger.Warn("Template has no date placeholder",
			zap.String("template", path),
			zap.String("placeholder", substitute.DatePlaceholder))
	}
	if _, ok := substitute.FindLine(text, substitute.NamePrefix); !ok {
		r.logger.Warn("Template has no name line",
			zap.String("template", path),
			zap.String("prefix", substitute.NamePrefix))
	}
	return data, nil
}

// generate produces the document of one day from the template bytes.
func (r *Runner) generate(template []byte, day time.Time, path, name string, opts Options) (Report, error) {
	rep := Report{Day: day, Path: path}
	fail := func(err error) (Report, error) {
		r.logger.Warn("Report not generated",
			zap.String("date", day.Format(logDate)),
			zap.String("path", path),
			zap.Error(err))
		return rep, err
	}

	doc, err := docx.Parse(template)
	if err != nil {
		return fail(err)
	}

	m := doc.Model()
	ph := substitute.ForDay(day, name)
	rep.Stats = substitute.Document(m, ph)
	if opts.Headers {
		rep.Stats.Add(substitute.Parts(m, ph))
	}

	r.logger.Debug("Placeholders substituted",
		zap.String("date", day.Format(logDate)),
		zap.Int("paragraphs", rep.Stats.Paragraphs),
		zap.Int("dates", rep.Stats.DateReplaced),
		zap.Int("names", rep.Stats.NameReplaced))

	if opts.DryRun {
		r.logger.Info("Would generate report",
			zap.String("date", day.Format(logDate)),
			zap.String("path", path))
		return rep, nil
	}

	if err := doc.Save(path); err != nil {
		return fail(err)
	}
	r.logger.Info("Generated report",
		zap.String("date", day.Format(logDate)),
		zap.String("path", path))
	return rep, nil
}
