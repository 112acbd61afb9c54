// Package paper resolves named paper formats to template px.
package paper

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for paper resolution.
var (
	ErrUnknownSize        = errors.New("unknown paper size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidPPI         = errors.New("invalid ppi")
)

// Orientations.
const (
	Portrait  = "portrait"
	Landscape = "landscape"
)

// PPI bounds. Chrome print scale is 96/ppi and must stay within [0.1, 2].
const (
	DefaultPPI = 72.0
	MinPPI     = 48.0
	MaxPPI     = 960.0
)

// DefaultSize is used when neither a size nor explicit dimensions are given.
const DefaultSize = "a4"

// Format is a paper size in inches, portrait.
type Format struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

const mmPerInch = 25.4

func mm(name string, w, h float64) Format {
	return Format{Name: name, Width: w / mmPerInch, Height: h / mmPerInch}
}

var formats = map[string]Format{
	"a0":      mm("a0", 841, 1189),
	"a1":      mm("a1", 594, 841),
	"a2":      mm("a2", 420, 594),
	"a3":      mm("a3", 297, 420),
	"a4":      mm("a4", 210, 297),
	"a5":      mm("a5", 148, 210),
	"a6":      mm("a6", 105, 148),
	"b4":      mm("b4", 250, 353),
	"b5":      mm("b5", 176, 250),
	"letter":  {Name: "letter", Width: 8.5, Height: 11},
	"legal":   {Name: "legal", Width: 8.5, Height: 14},
	"tabloid": {Name: "tabloid", Width: 11, Height: 17},
	"ledger":  {Name: "ledger", Width: 17, Height: 11},
}

// Lookup returns a named format (case-insensitive).
func Lookup(name string) (Format, error) {
	f, ok := formats[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Format{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownSize, name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names returns the known format names, sorted.
func Names() []string {
	names := make([]string, 0, len(formats))
	for n := range formats {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Formats returns every known format keyed by name.
func Formats() map[string]Format {
	out := make(map[string]Format, len(formats))
	for k, v := range formats {
		out[k] = v
	}
	return out
}

// ValidateOrientation accepts "", portrait and landscape (case-insensitive).
func ValidateOrientation(o string) error {
	switch strings.ToLower(o) {
	case "", Portrait, Landscape:
		return nil
	}
	return fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidOrientation, o, Portrait, Landscape)
}

// ValidatePPI accepts 0 (default) or a value in [MinPPI, MaxPPI].
func ValidatePPI(ppi float64) error {
	if ppi == 0 || (ppi >= MinPPI && ppi <= MaxPPI) {
		return nil
	}
	return fmt.Errorf("%w: %g (must be between %g and %g)", ErrInvalidPPI, ppi, MinPPI, MaxPPI)
}

// Pixels returns the format size in px at ppi, oriented.
func (f Format) Pixels(orientation string, ppi float64) (width, height float64) {
	if ppi <= 0 {
		ppi = DefaultPPI
	}
	w, h := f.Width*ppi, f.Height*ppi
	landscape := strings.EqualFold(orientation, Landscape)
	if landscape != (w > h) {
		w, h = h, w
	}
	return w, h
}

// Settings describe the default page size of a document.
// Width and Height (px) win over Size when both are set.
type Settings struct {
	Size        string
	Orientation string
	PPI         float64
	Width       float64
	Height      float64
}

// Validate checks the settings without resolving them.
func (s Settings) Validate() error {
	if s.Size != "" {
		if _, err := Lookup(s.Size); err != nil {
			return err
		}
	}
	if err := ValidateOrientation(s.Orientation); err != nil {
		return err
	}
	return ValidatePPI(s.PPI)
}

// EffectivePPI returns PPI or DefaultPPI when unset.
func (s Settings) EffectivePPI() float64 {
	if s.PPI <= 0 {
		return DefaultPPI
	}
	return s.PPI
}

// Resolve returns the default page size in px.
func (s Settings) Resolve() (width, height float64, err error) {
	if err := s.Validate(); err != nil {
		return 0, 0, err
	}
	if s.Width > 0 && s.Height > 0 {
		return s.Width, s.Height, nil
	}
	size := s.Size
	if size == "" {
		size = DefaultSize
	}
	f, err := Lookup(size)
	if err != nil {
		return 0, 0, err
	}
	w, h := f.Pixels(s.Orientation, s.EffectivePPI())
	if s.Width > 0 {
		w = s.Width
	}
	if s.Height > 0 {
		h = s.Height
	}
	return w, h, nil
}
