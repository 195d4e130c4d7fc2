package experiment

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-photon-transport/pkg/crosssection"
	"github.com/df07/go-photon-transport/pkg/geometry"
	"github.com/df07/go-photon-transport/pkg/particle"
	"github.com/df07/go-photon-transport/pkg/table"
)

// Config describes a collimator experiment in YAML
type Config struct {
	Source SourceConfig `yaml:"source"`
	Layout LayoutConfig `yaml:"layout"`
	Tables TablesConfig `yaml:"tables"`
	Limits LimitsConfig `yaml:"limits"`

	// directory relative table paths are resolved against
	baseDir string
}

// SourceConfig places the photon source
type SourceConfig struct {
	Kind      string  `yaml:"kind"` // "isotropic" (default) or "east"
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	EnergyKeV float64 `yaml:"energy_kev"`
}

// LayoutConfig mirrors Layout
type LayoutConfig struct {
	XStart        float64 `yaml:"x_start"`
	AbsorberStart float64 `yaml:"absorber_start"`
	AbsorberEnd   float64 `yaml:"absorber_end"`
	Aperture      float64 `yaml:"aperture"`
	DetectorX     float64 `yaml:"detector_x"`
	AirStep       float64 `yaml:"air_step"`
}

// TableConfig is either a data file or inline rows of [x, y1, y2, ...]
type TableConfig struct {
	File        string      `yaml:"file,omitempty"`
	Delimiter   string      `yaml:"delimiter,omitempty"`
	HeaderLines int         `yaml:"header_lines,omitempty"`
	Rows        [][]float64 `yaml:"rows,omitempty"`
}

// TablesConfig names the tables of the absorber material.
// The mean free path table has columns energy, total, coherent,
// incoherent and photoelectric.
type TablesConfig struct {
	FormFactor         TableConfig `yaml:"form_factor"`
	ScatteringFunction TableConfig `yaml:"scattering_function"`
	MeanFreePaths      TableConfig `yaml:"mean_free_paths"`
}

// LimitsConfig caps the transport loops; zero means unbounded
type LimitsConfig struct {
	MaxTrials int `yaml:"max_trials"`
	MaxSteps  int `yaml:"max_steps"`
}

// LoadConfig decodes a YAML config. Relative table paths resolve against
// the working directory.
func LoadConfig(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &c, nil
}

// LoadConfigFile decodes a YAML config file. Relative table paths resolve
// against the file's directory.
func LoadConfigFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	c, err := LoadConfig(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.baseDir = filepath.Dir(path)
	return c, nil
}

// Build constructs the collimator described by the config
func (c *Config) Build() (*Collimator, error) {
	source, err := c.Source.build()
	if err != nil {
		return nil, err
	}

	formFactor, err := c.loadSingle("form_factor", c.Tables.FormFactor)
	if err != nil {
		return nil, err
	}
	scattering, err := c.loadSingle("scattering_function", c.Tables.ScatteringFunction)
	if err != nil {
		return nil, err
	}
	columns, err := c.load("mean_free_paths", c.Tables.MeanFreePaths)
	if err != nil {
		return nil, err
	}
	if len(columns) != 4 {
		return nil, fmt.Errorf("mean_free_paths: got %d value columns, want 4", len(columns))
	}

	layout := Layout{
		XStart:        c.Layout.XStart,
		AbsorberStart: c.Layout.AbsorberStart,
		AbsorberEnd:   c.Layout.AbsorberEnd,
		Aperture:      c.Layout.Aperture,
		DetectorX:     c.Layout.DetectorX,
		AirStep:       c.Layout.AirStep,
	}
	paths := MeanFreePaths{
		Total:         columns[0],
		Coherent:      columns[1],
		Incoherent:    columns[2],
		Photoelectric: columns[3],
	}

	return NewCollimator(source, c.Source.EnergyKeV, layout,
		crosssection.NewCoherent(formFactor),
		crosssection.NewIncoherent(scattering),
		paths)
}

func (s SourceConfig) build() (particle.Source, error) {
	location := geometry.NewPoint(s.X, s.Y)
	switch s.Kind {
	case "", "isotropic":
		return particle.NewPointSource(location, s.EnergyKeV), nil
	case "east":
		return particle.NewEastPointingSource(location, s.EnergyKeV), nil
	default:
		return nil, fmt.Errorf("source: unknown kind %q", s.Kind)
	}
}

func (c *Config) loadSingle(name string, tc TableConfig) (*table.Function, error) {
	columns, err := c.load(name, tc)
	if err != nil {
		return nil, err
	}
	if len(columns) != 1 {
		return nil, fmt.Errorf("%s: got %d value columns, want 1", name, len(columns))
	}
	return columns[0], nil
}

func (c *Config) load(name string, tc TableConfig) ([]*table.Function, error) {
	switch {
	case tc.File != "" && len(tc.Rows) > 0:
		return nil, fmt.Errorf("%s: set either file or rows, not both", name)
	case tc.File != "":
		format, err := tc.format()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		path := tc.File
		if !filepath.IsAbs(path) && c.baseDir != "" {
			path = filepath.Join(c.baseDir, path)
		}
		columns, err := table.LoadColumns(path, format)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return columns, nil
	case len(tc.Rows) > 0:
		columns, err := rowsToFunctions(tc.Rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return columns, nil
	default:
		return nil, fmt.Errorf("%s: no table configured", name)
	}
}

func (tc TableConfig) format() (table.Format, error) {
	format := table.Format{Delimiter: '\t', HeaderLines: tc.HeaderLines}
	if tc.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(tc.Delimiter)
		if size != len(tc.Delimiter) {
			return format, errors.New("delimiter must be a single character")
		}
		format.Delimiter = r
	}
	return format, nil
}

func rowsToFunctions(rows [][]float64) ([]*table.Function, error) {
	width := len(rows[0])
	if width < 2 {
		return nil, fmt.Errorf("row 0: need at least 2 columns, got %d", width)
	}
	functions := make([]*table.Function, width-1)
	for i := range functions {
		functions[i] = table.New()
	}
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d: got %d columns, want %d", r, len(row), width)
		}
		for i, f := range functions {
			if err := f.Push(row[0], row[i+1]); err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
		}
	}
	return functions, nil
}
