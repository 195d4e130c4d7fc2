package experiment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-photon-transport/pkg/geometry"
	"github.com/df07/go-photon-transport/pkg/particle"
)

const inlineConfig = `
source:
  kind: east
  x: 0
  y: 0
  energy_kev: 661.7
layout:
  x_start: 0.5
  absorber_start: 0.5
  absorber_end: 1.5
  aperture: 0.1
  detector_x: 11.5
  air_step: 0.1
tables:
  form_factor:
    rows: [[0, 82], [1000, 1]]
  scattering_function:
    rows: [[0, 0], [1000, 82]]
  mean_free_paths:
    rows:
      - [1, 0.01, 1, 1, 0.01]
      - [1000, 1.5, 20, 2, 8]
limits:
  max_trials: 500
  max_steps: 10000
`

func TestLoadConfigInline(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(inlineConfig))
	require.NoError(t, err)

	assert.Equal(t, "east", cfg.Source.Kind)
	assert.Equal(t, 661.7, cfg.Source.EnergyKeV)
	assert.Equal(t, 11.5, cfg.Layout.DetectorX)
	assert.Equal(t, 500, cfg.Limits.MaxTrials)
	assert.Equal(t, 10000, cfg.Limits.MaxSteps)

	c, err := cfg.Build()
	require.NoError(t, err)
	assert.Equal(t, testLayout, c.Layout())
	assert.Equal(t, 661.7, c.SourceEnergy())
	assert.Equal(t, 0.5, c.XStart())
	assert.IsType(t, &particle.EastPointingSource{}, c.Source())

	// Interpolated halfway between the rows
	path := c.FreePath(Absorber, 500.5)
	assert.Equal(t, ExponentialPath, path.Kind)
	assert.InDelta(t, 0.755, path.Value, 1e-9)
	assert.Equal(t, Absorber, c.MaterialAt(geometry.NewPoint(1, 1)))
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	_, err := LoadConfig(strings.NewReader("source:\n  energy: 100\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "energy")
}

func TestLoadConfigFileResolvesTables(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("ff.txt", "# x\tF\n0\t82\n1000\t1\n")
	write("sf.csv", "x,S\n0,0\n1000,82\n")
	write("mfp.txt", "1\t0.01\t1\t1\t0.01\n1000\t1.5\t20\t2\t8\n")
	write("collimator.yaml", `
source: {energy_kev: 661.7}
layout: {x_start: 0.5, absorber_start: 0.5, absorber_end: 1.5, aperture: 0.1, detector_x: 11.5, air_step: 0.1}
tables:
  form_factor: {file: ff.txt}
  scattering_function: {file: sf.csv, delimiter: ",", header_lines: 1}
  mean_free_paths: {file: mfp.txt}
`)

	cfg, err := LoadConfigFile(filepath.Join(dir, "collimator.yaml"))
	require.NoError(t, err)

	c, err := cfg.Build()
	require.NoError(t, err)
	assert.IsType(t, &particle.PointSource{}, c.Source())
	path := c.FreePath(Absorber, 999)
	assert.Equal(t, ExponentialPath, path.Kind)
	assert.InDelta(t, 1.5-1.49/999, path.Value, 1e-9)
}

func TestConfigBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(string) string
		wantErr string
	}{
		{
			name:    "unknown source kind",
			edit:    func(s string) string { return strings.Replace(s, "kind: east", "kind: laser", 1) },
			wantErr: `unknown kind "laser"`,
		},
		{
			name: "too few path columns",
			edit: func(s string) string {
				s = strings.Replace(s, "[1, 0.01, 1, 1, 0.01]", "[1, 0.01, 1, 1]", 1)
				return strings.Replace(s, "[1000, 1.5, 20, 2, 8]", "[1000, 1.5, 20, 2]", 1)
			},
			wantErr: "want 4",
		},
		{
			name:    "ragged rows",
			edit:    func(s string) string { return strings.Replace(s, "[1000, 1.5, 20, 2, 8]", "[1000, 1.5]", 1) },
			wantErr: "row 1",
		},
		{
			name:    "unsorted rows",
			edit:    func(s string) string { return strings.Replace(s, "[[0, 82], [1000, 1]]", "[[1000, 1], [0, 82]]", 1) },
			wantErr: "form_factor",
		},
		{
			name:    "missing table",
			edit:    func(s string) string { return strings.Replace(s, "rows: [[0, 0], [1000, 82]]", "{}", 1) },
			wantErr: "scattering_function: no table configured",
		},
		{
			name:    "missing file",
			edit:    func(s string) string { return strings.Replace(s, "rows: [[0, 0], [1000, 82]]", "file: nowhere.txt", 1) },
			wantErr: "scattering_function",
		},
		{
			name:    "zero mean free path",
			edit:    func(s string) string { return strings.Replace(s, "[1000, 1.5, 20, 2, 8]", "[1000, 1.5, 0, 2, 8]", 1) },
			wantErr: "coherent mean free path 0 at 1000 keV must be positive",
		},
		{
			name:    "bad layout",
			edit:    func(s string) string { return strings.Replace(s, "air_step: 0.1", "air_step: 0", 1) },
			wantErr: "air step",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(strings.NewReader(tt.edit(inlineConfig)))
			require.NoError(t, err)
			_, err = cfg.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTableConfigDelimiter(t *testing.T) {
	_, err := TableConfig{Delimiter: "::"}.format()
	assert.Error(t, err)

	format, err := TableConfig{Delimiter: ";", HeaderLines: 2}.format()
	require.NoError(t, err)
	assert.Equal(t, ';', format.Delimiter)
	assert.Equal(t, 2, format.HeaderLines)
}
