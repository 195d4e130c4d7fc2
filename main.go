package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-photon-transport/pkg/config"
	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/crosssection"
	"github.com/df07/go-photon-transport/pkg/experiment"
	"github.com/df07/go-photon-transport/pkg/histogram"
	"github.com/df07/go-photon-transport/pkg/integrate"
	"github.com/df07/go-photon-transport/pkg/logging"
	"github.com/df07/go-photon-transport/pkg/particle"
	"github.com/df07/go-photon-transport/pkg/stats"
	"github.com/df07/go-photon-transport/pkg/table"
	"github.com/df07/go-photon-transport/pkg/transport"
	"github.com/df07/go-photon-transport/pkg/units"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options are the run settings after flags were applied over the environment
type options struct {
	config.Run
	Mode    string
	Energy  float64 // keV, 0 uses the source energy of the config
	Scatter string
	Radius  float64 // upper edge of the radius histogram in cm
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	run, err := config.LoadRun()
	if err != nil {
		return options{}, err
	}
	opts := options{Run: run}

	fs := flag.NewFlagSet("photon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.Mode, "mode", "collimator", "Mode: 'collimator', 'integrate', 'xsection' or 'distributions'")
	fs.StringVar(&opts.Config, "config", run.Config, "Collimator experiment config (YAML)")
	fs.IntVar(&opts.Photons, "n", run.Photons, "Number of detected photons or samples")
	fs.Int64Var(&opts.Seed, "seed", run.Seed, "Random seed, 0 draws a fresh one")
	fs.IntVar(&opts.Bins, "bins", run.Bins, "Number of histogram bins")
	fs.Float64Var(&opts.Energy, "energy", 0, "Photon energy in keV for xsection mode")
	fs.StringVar(&opts.Scatter, "scatter", "incoherent", "Cross-section for xsection mode: 'coherent', 'incoherent' or 'klein-nishina'")
	fs.Float64Var(&opts.Radius, "radius", 1.27, "Upper limit of the radius histogram in cm")
	fs.StringVar(&opts.LogLevel, "log-level", run.LogLevel, "Log level")
	fs.StringVar(&opts.LogFormat, "log-format", run.LogFormat, "Log format: 'console' or 'json'")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Photon Transport")
		fmt.Fprintln(fs.Output(), "Usage: photon [options]")
		fmt.Fprintln(fs.Output())
		fmt.Fprintln(fs.Output(), "Options:")
		fs.PrintDefaults()
		fmt.Fprintln(fs.Output())
		fmt.Fprintln(fs.Output(), "Environment: PHOTON_SEED, PHOTON_COUNT, PHOTON_BINS, PHOTON_CONFIG, PHOTON_LOG_LEVEL, PHOTON_LOG_FORMAT")
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.Photons < 0 {
		return options{}, fmt.Errorf("-n %d must not be negative", opts.Photons)
	}
	if opts.Bins <= 0 {
		return options{}, fmt.Errorf("-bins %d must be positive", opts.Bins)
	}
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewWithWriter(opts.LogLevel, opts.LogFormat, stderr)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if opts.Seed == 0 {
		if opts.Seed, err = core.NewSeed(); err != nil {
			return err
		}
	}
	logger = logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("mode", opts.Mode),
	)
	logger.Info("starting", zap.Int64("seed", opts.Seed), zap.Int("n", opts.Photons))

	start := time.Now()
	switch opts.Mode {
	case "collimator":
		err = runCollimator(opts, logger, stdout)
	case "integrate":
		err = runIntegrate(opts, stdout)
	case "xsection":
		err = runCrossSection(opts, stdout)
	case "distributions":
		err = runDistributions(opts, stdout)
	default:
		err = fmt.Errorf("unknown mode %q", opts.Mode)
	}
	if err != nil {
		return err
	}

	logger.Info("finished", zap.Duration("elapsed", time.Since(start)))
	return nil
}

func runCollimator(opts options, logger *zap.Logger, stdout io.Writer) error {
	cfg, err := experiment.LoadConfigFile(opts.Config)
	if err != nil {
		return err
	}
	exp, err := cfg.Build()
	if err != nil {
		return err
	}

	energyHist, err := histogram.New(opts.Bins, 0, exp.SourceEnergy())
	if err != nil {
		return err
	}
	radiusHist, err := histogram.New(opts.Bins, 0, opts.Radius)
	if err != nil {
		return err
	}

	rng := core.NewSeededSource(core.DeriveSeed(opts.Seed, "collimator"))
	sim := transport.NewSimulator(exp, rng, transport.Options{
		MaxTrials: cfg.Limits.MaxTrials,
		MaxSteps:  cfg.Limits.MaxSteps,
		Logger:    logger,
	})
	tally, err := sim.Run(opts.Photons, func(photon *particle.Photon) {
		energyHist.Fill(photon.Energy())
		radiusHist.Fill(math.Abs(photon.Location().Y()))
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, "# energy (keV)\tcount")
	if err := energyHist.WriteTable(stdout); err != nil {
		return err
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "# radius (cm)\tcount")
	if err := radiusHist.WriteTable(stdout); err != nil {
		return err
	}
	fmt.Fprintln(stdout)

	p := message.NewPrinter(language.English)
	p.Fprintf(stdout, "# energy: %v\n", tally.Energy)
	p.Fprintf(stdout, "# radius: %v\n", tally.Radius)
	p.Fprintf(stdout, "# efficiency: %.3g (%d of %d emitted, %d steps)\n",
		tally.Efficiency(), tally.Counters.Detected, tally.Counters.Emitted, tally.Counters.Steps)
	p.Fprintf(stdout, "# elapsed: %v\n", tally.Elapsed)
	return nil
}

func runIntegrate(opts options, stdout io.Writer) error {
	rng := core.NewSeededSource(core.DeriveSeed(opts.Seed, "integrate"))

	integral, err := integrate.Float(rng, func(x float64) float64 {
		return 4 * math.Sqrt(1-x*x)
	}, 0, 1, opts.Photons)
	if err != nil {
		return err
	}
	// Unit circle centered in a 2x2 box
	hits, err := integrate.HitOrMiss(rng, func(x, y float64) bool {
		return (x-1)*(x-1)+(y-1)*(y-1) < 1
	}, 2, 2, opts.Photons)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Integration method:\n%v\n\n", integral)
	fmt.Fprintf(stdout, "Hit-or-miss method:\n%v\n", hits)
	return nil
}

func crossSection(opts options) (crosssection.CrossSection, float64, error) {
	if opts.Scatter == "klein-nishina" {
		energy := opts.Energy
		if energy == 0 {
			energy = 661.7
		}
		return crosssection.KleinNishinaOnly{}, energy, nil
	}

	cfg, err := experiment.LoadConfigFile(opts.Config)
	if err != nil {
		return nil, 0, err
	}
	exp, err := cfg.Build()
	if err != nil {
		return nil, 0, err
	}
	energy := opts.Energy
	if energy == 0 {
		energy = exp.SourceEnergy()
	}

	switch opts.Scatter {
	case "coherent":
		return exp.Coherent(), energy, nil
	case "incoherent":
		return exp.Incoherent(), energy, nil
	default:
		return nil, 0, fmt.Errorf("unknown scatter type %q", opts.Scatter)
	}
}

func runCrossSection(opts options, stdout io.Writer) (err error) {
	xs, energy, err := crossSection(opts)
	if err != nil {
		return err
	}
	if !(energy > 0) {
		return fmt.Errorf("-energy %g must be positive", energy)
	}

	// Out of domain lookups panic inside the sampler
	defer func() {
		if r := recover(); r != nil {
			var domainErr *table.DomainError
			if e, ok := r.(error); ok && errors.As(e, &domainErr) {
				err = fmt.Errorf("%s at %g keV: %w", opts.Scatter, energy, e)
				return
			}
			panic(r)
		}
	}()

	muHist, err := histogram.New(opts.Bins, -1, 1)
	if err != nil {
		return err
	}
	rng := core.NewSeededSource(core.DeriveSeed(opts.Seed, "xsection"))
	sampler := crosssection.NewRejectionSampler(xs, energy)

	start := time.Now()
	i := 0
	for mu := range sampler.Samples(rng) {
		if i == opts.Photons {
			break
		}
		muHist.Fill(mu)
		i++
	}
	elapsed := time.Since(start)

	fmt.Fprintf(stdout, "# %s at %g keV\n", opts.Scatter, energy)
	fmt.Fprintln(stdout, "# mu\tdensity")
	centers := muHist.Centers()
	for i, density := range muHist.Normalized() {
		fmt.Fprintf(stdout, "%.4f\t%.6g\n", centers[i], density)
	}
	fmt.Fprintf(stdout, "# elapsed: %v\n", elapsed)
	return nil
}

func runDistributions(opts options, stdout io.Writer) error {
	rng := core.NewSeededSource(core.DeriveSeed(opts.Seed, "distributions"))

	distributions := []struct {
		name string
		draw func() float64
	}{
		{"Uniform", func() float64 { return rng.Uniform(0, 1) }},
		{"Exponential", func() float64 { return rng.Exponential(1) }},
		{"Normal", func() float64 { return rng.Normal(0, 1) }},
	}

	for _, d := range distributions {
		start := time.Now()
		sample := stats.New[units.Scalar, units.Scalar]()
		for i := 0; i < opts.Photons; i++ {
			sample.Push(units.Scalar(d.draw()))
		}
		fmt.Fprintf(stdout, "%s distribution:\n%v\nelapsed %v\n\n", d.name, sample, time.Since(start))
	}
	return nil
}
