package godeck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	goppt "github.com/VantageDataChat/GoPPT"
	"golang.org/x/sync/errgroup"
)

// WritePreviews extracts the text of every slide of an assembled .pptx into
// digest files named slide01.txt, slide02.txt, ... under dir, creating the
// directory if needed. Slides are processed in parallel, bounded by
// GOMAXPROCS. Returns the written paths in slide order.
func WritePreviews(ctx context.Context, pptxPath, dir string) ([]string, error) {
	reader, err := goppt.NewReader(goppt.ReaderPowerPoint2007)
	if err != nil {
		return nil, wrapOp("Preview", "reader", err)
	}
	pres, err := reader.Read(pptxPath)
	if err != nil {
		return nil, wrapOp("Preview", "read", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, wrapOp("Preview", "mkdir", err)
	}

	n := pres.GetSlideCount()
	paths := make([]string, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slide, err := pres.GetSlide(i)
			if err != nil {
				return fmt.Errorf("slide %d: %w", i+1, err)
			}
			out := filepath.Join(dir, fmt.Sprintf("slide%02d.txt", i+1))
			if err := os.WriteFile(out, []byte(slide.ExtractText()+"\n"), 0644); err != nil {
				return fmt.Errorf("slide %d: %w", i+1, err)
			}
			paths[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrapOp("Preview", "write", err)
	}
	return paths, nil
}
