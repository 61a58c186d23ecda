// Command deckmerge assembles a presentation by copying slides from source
// .pptx files into a template-derived document, restyling them to the
// template's theme.
//
// A run is described either by a YAML manifest:
//
//	deckmerge -manifest job.yaml
//
// or directly with flags:
//
//	deckmerge -template corp.pptx -out deck.pptx \
//	    -src report.pptx=0,1,2 -src appendix.pptx=last:2
//
// Source selectors after "=" are an index list (0,1,2), first:N, last:N, or
// an inclusive range (A-B).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	godeck "github.com/VantageDataChat/GoDeck"
	"github.com/VantageDataChat/GoDeck/logger"
)

// sourceFlags collects repeated -src values.
type sourceFlags []string

func (s *sourceFlags) String() string {
	return strings.Join(*s, ", ")
}

func (s *sourceFlags) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// parseSourceSpec parses "path=selector" into a manifest source entry.
func parseSourceSpec(arg string) (godeck.SourceSpec, error) {
	eq := strings.LastIndex(arg, "=")
	if eq <= 0 || eq == len(arg)-1 {
		return godeck.SourceSpec{}, fmt.Errorf("source %q: want path=selector", arg)
	}
	spec := godeck.SourceSpec{Path: arg[:eq]}
	sel := arg[eq+1:]

	switch {
	case strings.HasPrefix(sel, "first:"):
		n, err := strconv.Atoi(strings.TrimPrefix(sel, "first:"))
		if err != nil {
			return spec, fmt.Errorf("source %q: bad first count: %v", arg, err)
		}
		spec.First = &n
	case strings.HasPrefix(sel, "last:"):
		n, err := strconv.Atoi(strings.TrimPrefix(sel, "last:"))
		if err != nil {
			return spec, fmt.Errorf("source %q: bad last count: %v", arg, err)
		}
		spec.Last = &n
	case strings.Contains(sel, "-"):
		parts := strings.SplitN(sel, "-", 2)
		start, err1 := strconv.Atoi(parts[0])
		end, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return spec, fmt.Errorf("source %q: bad range %q", arg, sel)
		}
		spec.Range = &godeck.RangeSpec{Start: start, End: end}
	default:
		for _, field := range strings.Split(sel, ",") {
			idx, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return spec, fmt.Errorf("source %q: bad slide index %q", arg, field)
			}
			spec.Slides = append(spec.Slides, idx)
		}
	}
	return spec, nil
}

func run() error {
	var (
		manifestPath = flag.String("manifest", "", "YAML manifest describing the assembly job")
		templatePath = flag.String("template", "", "template .pptx whose theme and layouts are applied")
		outPath      = flag.String("out", "", "output .pptx path")
		layoutIndex  = flag.Int("layout", 0, "template layout index applied to copied slides")
		keepSourceBg = flag.Bool("keep-source-bg", false, "carry over each source slide's background instead of the template's")
		noRemapFonts = flag.Bool("no-remap-fonts", false, "keep hardcoded fonts instead of theme font roles")
		noRemapClrs  = flag.Bool("no-remap-colors", false, "keep literal colors instead of theme color slots")
		placeholders = flag.Bool("placeholders", false, "map source content into template placeholder shapes")
		previewDir   = flag.String("preview", "", "write per-slide text digests of the output into this directory")
		logDir       = flag.String("log-dir", "", "write a run log into this directory")
		sources      sourceFlags
	)
	flag.Var(&sources, "src", "source spec path=selector (repeatable)")
	flag.Parse()

	log := logger.NewLogger()
	log.SetEcho(os.Stderr)
	if *logDir != "" {
		if err := log.Init(*logDir); err != nil {
			return err
		}
	}
	defer log.Close()

	var m *godeck.Manifest
	if *manifestPath != "" {
		var err error
		m, err = godeck.LoadManifest(*manifestPath)
		if err != nil {
			return err
		}
	} else {
		m = &godeck.Manifest{
			Template:        *templatePath,
			Output:          *outPath,
			LayoutIndex:     *layoutIndex,
			MapPlaceholders: *placeholders,
		}
		if *keepSourceBg {
			f := false
			m.TemplateBackground = &f
		}
		if *noRemapFonts {
			f := false
			m.RemapFonts = &f
		}
		if *noRemapClrs {
			f := false
			m.RemapColors = &f
		}
		for _, arg := range sources {
			spec, err := parseSourceSpec(arg)
			if err != nil {
				return err
			}
			m.Sources = append(m.Sources, spec)
		}
	}
	if *previewDir != "" {
		m.PreviewDir = *previewDir
	}

	res, err := godeck.ComposeManifest(m, log)
	if err != nil {
		return err
	}

	fmt.Printf("copied %d slides to %s\n", res.SlidesCopied, m.Output)
	for _, sk := range res.Skipped {
		fmt.Printf("skipped out-of-range slide %d from %s\n", sk.Index, sk.Source)
	}

	if m.PreviewDir != "" {
		paths, err := godeck.WritePreviews(context.Background(), m.Output, m.PreviewDir)
		if err != nil {
			return err
		}
		fmt.Printf("wrote %d previews to %s\n", len(paths), m.PreviewDir)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "deckmerge: %v\n", err)
		os.Exit(1)
	}
}
