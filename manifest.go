package godeck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ValidationError reports a manifest field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// RangeSpec selects a contiguous inclusive range of slide indices.
type RangeSpec struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// SourceSpec names one source file and exactly one selection form: an
// explicit index list, the first N slides, the last N slides, or an
// inclusive range.
type SourceSpec struct {
	Path   string     `yaml:"path"`
	Slides []int      `yaml:"slides,omitempty"`
	First  *int       `yaml:"first,omitempty"`
	Last   *int       `yaml:"last,omitempty"`
	Range  *RangeSpec `yaml:"range,omitempty"`
}

// selectorCount returns how many selection forms are set.
func (s *SourceSpec) selectorCount() int {
	n := 0
	if len(s.Slides) > 0 {
		n++
	}
	if s.First != nil {
		n++
	}
	if s.Last != nil {
		n++
	}
	if s.Range != nil {
		n++
	}
	return n
}

// resolveIndices turns the selection form into concrete indices against an
// open source document.
func (s *SourceSpec) resolveIndices(d *Document) ([]int, error) {
	switch {
	case len(s.Slides) > 0:
		return s.Slides, nil
	case s.First != nil:
		return FirstN(d, *s.First), nil
	case s.Last != nil:
		return LastN(d, *s.Last), nil
	case s.Range != nil:
		return SlideRange(s.Range.Start, s.Range.End), nil
	}
	return nil, &ValidationError{Field: "sources", Message: "no slide selection given"}
}

// Manifest describes a whole assembly job: the template, the output path,
// the sources with their slide selections, and the restyle options.
// Unset boolean options default to the assembly defaults (template
// background on, both remaps on).
type Manifest struct {
	Template           string       `yaml:"template"`
	Output             string       `yaml:"output"`
	LayoutIndex        int          `yaml:"layout_index"`
	TemplateBackground *bool        `yaml:"template_background,omitempty"`
	RemapFonts         *bool        `yaml:"remap_fonts,omitempty"`
	RemapColors        *bool        `yaml:"remap_colors,omitempty"`
	MapPlaceholders    bool         `yaml:"map_placeholders,omitempty"`
	PreviewDir         string       `yaml:"preview_dir,omitempty"`
	Sources            []SourceSpec `yaml:"sources"`
}

// LoadManifest reads and parses a YAML manifest. The result is not yet
// validated; call Validate before use.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// Validate checks the manifest for structural problems and returns the first
// one found.
func (m *Manifest) Validate() error {
	if m.Template == "" {
		return &ValidationError{Field: "template", Message: "template path is required"}
	}
	if m.Output == "" {
		return &ValidationError{Field: "output", Message: "output path is required"}
	}
	if m.LayoutIndex < 0 {
		return &ValidationError{Field: "layout_index", Message: "must not be negative"}
	}
	if len(m.Sources) == 0 {
		return &ValidationError{Field: "sources", Message: "at least one source is required"}
	}
	for i, src := range m.Sources {
		field := fmt.Sprintf("sources[%d]", i)
		if src.Path == "" {
			return &ValidationError{Field: field + ".path", Message: "source path is required"}
		}
		switch src.selectorCount() {
		case 0:
			return &ValidationError{Field: field, Message: "one of slides, first, last, or range is required"}
		case 1:
		default:
			return &ValidationError{Field: field, Message: "slides, first, last, and range are mutually exclusive"}
		}
		for _, idx := range src.Slides {
			if idx < 0 {
				return &ValidationError{Field: field + ".slides", Message: "indices must not be negative"}
			}
		}
		if src.First != nil && *src.First < 0 {
			return &ValidationError{Field: field + ".first", Message: "must not be negative"}
		}
		if src.Last != nil && *src.Last < 0 {
			return &ValidationError{Field: field + ".last", Message: "must not be negative"}
		}
		if src.Range != nil {
			if src.Range.Start < 0 {
				return &ValidationError{Field: field + ".range.start", Message: "must not be negative"}
			}
			if src.Range.End < src.Range.Start {
				return &ValidationError{Field: field + ".range", Message: "end must not be before start"}
			}
		}
	}
	return nil
}

// Options translates the manifest's settings into assembly options, applying
// the defaults for unset booleans.
func (m *Manifest) Options() Options {
	opts := DefaultOptions()
	opts.LayoutIndex = m.LayoutIndex
	if m.TemplateBackground != nil {
		opts.TemplateBackground = *m.TemplateBackground
	}
	if m.RemapFonts != nil {
		opts.RemapFonts = *m.RemapFonts
	}
	if m.RemapColors != nil {
		opts.RemapColors = *m.RemapColors
	}
	opts.MapPlaceholders = m.MapPlaceholders
	return opts
}

// ComposeManifest validates the manifest and runs the assembly it describes.
// Preview generation is left to the caller.
func ComposeManifest(m *Manifest, log Logger) (*Result, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	jobs := make([]sourceJob, 0, len(m.Sources))
	for i := range m.Sources {
		src := m.Sources[i]
		jobs = append(jobs, sourceJob{path: src.Path, indices: src.resolveIndices})
	}
	return compose(m.Template, jobs, m.Output, m.Options(), log)
}
