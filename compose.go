package godeck

import (
	"fmt"
	"path/filepath"
)

// Logger is the minimal logging surface the assembly pipeline writes to.
// *logger.Logger satisfies it; a nil Logger keeps the library silent.
type Logger interface {
	Logf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...interface{}) {}

// Selection names a source file and the 0-based slide indices to copy from
// it, in copy order.
type Selection struct {
	Source  string
	Indices []int
}

// Options controls a whole assembly run. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	LayoutIndex        int
	TemplateBackground bool
	RemapFonts         bool
	RemapColors        bool
	MapPlaceholders    bool
}

// DefaultOptions returns the assembly defaults: first layout, template
// background, font and color remapping on, wholesale shape transfer.
func DefaultOptions() Options {
	return Options{
		TemplateBackground: true,
		RemapFonts:         true,
		RemapColors:        true,
	}
}

// SkippedSlide records a requested slide index that was out of range for its
// source and therefore not copied.
type SkippedSlide struct {
	Source string
	Index  int
}

// Result summarizes an assembly run.
type Result struct {
	SlidesCopied int
	Skipped      []SkippedSlide
	LayoutNames  []string
}

// sourceJob pairs a source path with an index resolver so manifest selectors
// (first/last/range) can be resolved against the opened document without
// re-opening the file.
type sourceJob struct {
	path    string
	indices func(*Document) ([]int, error)
}

// Compose creates a presentation from the template, copies the selected
// slides from each source in order, and saves it to outputPath. Out-of-range
// indices are logged and recorded in the result, not treated as errors.
func Compose(templatePath string, selections []Selection, outputPath string, opts Options, log Logger) (*Result, error) {
	jobs := make([]sourceJob, 0, len(selections))
	for _, sel := range selections {
		indices := sel.Indices
		jobs = append(jobs, sourceJob{
			path:    sel.Source,
			indices: func(*Document) ([]int, error) { return indices, nil },
		})
	}
	return compose(templatePath, jobs, outputPath, opts, log)
}

func compose(templatePath string, jobs []sourceJob, outputPath string, opts Options, log Logger) (*Result, error) {
	if log == nil {
		log = nopLogger{}
	}

	log.Logf("creating presentation from template: %s", filepath.Base(templatePath))
	dst, err := OpenTemplate(templatePath)
	if err != nil {
		return nil, wrapOp("Compose", "template", err)
	}

	layoutNames, err := dst.LayoutNames()
	if err != nil {
		return nil, wrapOp("Compose", "layouts", err)
	}
	if opts.LayoutIndex < 0 || opts.LayoutIndex >= len(layoutNames) {
		return nil, wrapOp("Compose", "layouts",
			fmt.Errorf("layout %d of %d: %w", opts.LayoutIndex, len(layoutNames), ErrLayoutOutOfRange))
	}
	log.Logf("available layouts: %v", layoutNames)
	log.Logf("using layout [%d]: %q", opts.LayoutIndex, layoutNames[opts.LayoutIndex])

	copyOpts := CopyOptions{
		LayoutIndex:        opts.LayoutIndex,
		TemplateBackground: opts.TemplateBackground,
		RemapFonts:         opts.RemapFonts,
		RemapColors:        opts.RemapColors,
		MapPlaceholders:    opts.MapPlaceholders,
	}

	res := &Result{LayoutNames: layoutNames}
	for _, job := range jobs {
		src, err := Open(job.path)
		if err != nil {
			return nil, wrapOp("Compose", "source", fmt.Errorf("%s: %w", job.path, err))
		}
		total := src.SlideCount()
		log.Logf("source: %s (%d slides)", filepath.Base(job.path), total)

		if opts.RemapColors {
			copyOpts.SourceThemeColors = ThemeColors(src)
		} else {
			copyOpts.SourceThemeColors = nil
		}

		indices, err := job.indices(src)
		if err != nil {
			return nil, wrapOp("Compose", "selection", fmt.Errorf("%s: %w", job.path, err))
		}
		for _, idx := range indices {
			if idx < 0 || idx >= total {
				if total == 0 {
					log.Logf("  skip slide %d: source has no slides", idx)
				} else {
					log.Logf("  skip slide %d: out of range (0-%d)", idx, total-1)
				}
				res.Skipped = append(res.Skipped, SkippedSlide{Source: job.path, Index: idx})
				continue
			}
			if _, err := CopySlide(dst, src, idx, copyOpts); err != nil {
				return nil, wrapOp("Compose", "copy", fmt.Errorf("%s slide %d: %w", job.path, idx, err))
			}
			res.SlidesCopied++
			log.Logf("  copied slide %d -> destination slide %d", idx, res.SlidesCopied)
		}
	}

	if err := dst.Save(outputPath); err != nil {
		return nil, wrapOp("Compose", "save", err)
	}
	log.Logf("saved %d slides to %s", res.SlidesCopied, outputPath)
	return res, nil
}
