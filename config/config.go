// Package config parses the command line of the classifier, with defaults
// from the environment and an optional .env file.
package config

import (
	"cmp"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hupe1980/recotarget/codec"
	"github.com/hupe1980/recotarget/distance"
)

var (
	// ErrHelp is returned when help was requested or no arguments were
	// given. The usage text has been written.
	ErrHelp = errors.New("help requested")

	// ErrUsage is returned for a missing or malformed option. The usage text
	// has been written.
	ErrUsage = errors.New("usage error")
)

// Environment variables consulted for defaults.
const (
	EnvPath     = "RECOTARGET_PATH"
	EnvGeometry = "RECOTARGET_GEOMETRY"
	EnvWorkers  = "RECOTARGET_WORKERS"
	EnvLogLevel = "RECOTARGET_LOG_LEVEL"
	EnvCodec    = "RECOTARGET_CODEC"
)

// Config is the validated run configuration.
type Config struct {
	Path      string
	NTesting  int
	NLearning int
	K         int
	Metric    distance.Metric
	Testing   TargetSet
	Learning  TargetSet
	Summary   bool

	Geometry  string
	Workers   int
	IOLimit   int64
	MemLimit  int64
	LogLevel  slog.Level
	LogFormat string

	// Codec decodes event records and the geometry file.
	Codec codec.Codec
}

// LoadEnv loads variables from the given .env files into the process
// environment without overriding variables already set. Without arguments
// it loads ./.env if present.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
			return nil
		}
	}
	return godotenv.Load(files...)
}

// Parse parses args (without the program name). Usage and error messages
// go to stderr. getenv supplies defaults; pass os.Getenv in production.
func Parse(args []string, stderr io.Writer, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	if len(args) == 0 {
		Usage(stderr)
		return nil, ErrHelp
	}

	c := &Config{
		Path:      getenv(EnvPath),
		Geometry:  getenv(EnvGeometry),
		Workers:   1,
		LogLevel:  slog.LevelWarn,
		LogFormat: "text",
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, usageErr(stderr, fmt.Sprintf("%s=%q is not a number.", EnvWorkers, v))
		}
		c.Workers = n
	}
	if v := getenv(EnvLogLevel); v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, usageErr(stderr, fmt.Sprintf("%s=%q is not a log level.", EnvLogLevel, v))
		}
	}

	var (
		metric          = -1
		testingDefined  bool
		learningDefined bool
		help            bool
		logLevel        = c.LogLevel.String()
		codecName       = cmp.Or(getenv(EnvCodec), codec.Default.Name())
	)
	fs := aliasFlagSet{flag.NewFlagSet("recotarget", flag.ContinueOnError)}
	fs.SetOutput(io.Discard)

	fs.stringVar(&c.Path, "p", "path", c.Path, "input location")
	fs.intVar(&c.NTesting, "t", "ntesting", 0, "size of a testing sample")
	fs.intVar(&c.NLearning, "l", "nlearning", 0, "size of a learning sample")
	fs.intVar(&c.K, "k", "nneighbors", 0, "number of nearest neighbors")
	fs.intVar(&metric, "m", "metric", -1, "metric")
	fs.targetVar(&c.Testing, &testingDefined, "x", "ttargets", "testing target code")
	fs.targetVar(&c.Learning, &learningDefined, "y", "ltargets", "learning target code")
	fs.boolVar(&c.Summary, "s", "summary", "show summary and ask before running")
	fs.boolVar(&help, "h", "help", "show usage")
	fs.stringVar(&c.Geometry, "g", "geometry", c.Geometry, "geometry JSON file")
	fs.intVar(&c.Workers, "w", "workers", c.Workers, "comparison and decode workers")
	fs.Int64Var(&c.IOLimit, "io-limit", 0, "remote read limit in bytes/s")
	fs.Int64Var(&c.MemLimit, "mem-limit", 0, "profile memory limit in bytes")
	fs.StringVar(&logLevel, "log-level", logLevel, "debug, info, warn or error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "text or json")
	fs.StringVar(&codecName, "codec", codecName, "json or go-json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			Usage(stderr)
			return nil, ErrHelp
		}
		return nil, usageErr(stderr, err.Error())
	}
	if help {
		Usage(stderr)
		return nil, ErrHelp
	}
	if fs.NArg() > 0 {
		return nil, usageErr(stderr, fmt.Sprintf("Unexpected argument %q.", fs.Arg(0)))
	}

	if err := c.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, usageErr(stderr, fmt.Sprintf("Unknown log level %q.", logLevel))
	}

	cd, err := codec.ByName(codecName)
	if err != nil {
		return nil, usageErr(stderr, fmt.Sprintf("Unknown codec %q.", codecName))
	}
	c.Codec = cd

	switch {
	case c.Path == "":
		return nil, usageErr(stderr, "The path was not defined.")
	case c.NTesting <= 0:
		return nil, usageErr(stderr, "The size of a testing sample was not defined.")
	case c.NLearning <= 0:
		return nil, usageErr(stderr, "The size of a learning sample was not defined.")
	case c.K <= 0:
		return nil, usageErr(stderr, "The number of nearest neighbors was not defined.")
	case metric < 0:
		return nil, usageErr(stderr, "The metric was not defined.")
	case !testingDefined:
		return nil, usageErr(stderr, "The list of testing targets was not defined.")
	case !learningDefined:
		return nil, usageErr(stderr, "The list of learning targets was not defined.")
	}

	m, err := distance.ParseMetric(metric)
	if err != nil {
		fmt.Fprintf(stderr, "\nERROR: Undefined metric %d.\n", metric)
		return nil, err
	}
	c.Metric = m

	if err := c.Validate(); err != nil {
		return nil, usageErr(stderr, err.Error())
	}
	return c, nil
}

// Validate checks relations between options that single flags cannot.
func (c *Config) Validate() error {
	if c.Testing.Len() == 0 {
		return errors.New("no testing target selected")
	}
	if c.Learning.Len() == 0 {
		return errors.New("no learning target selected")
	}
	if total := c.NLearning * c.Learning.Len(); c.K > total {
		return fmt.Errorf("k = %d exceeds the %d learning profiles", c.K, total)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.IOLimit < 0 || c.MemLimit < 0 {
		return errors.New("limits must not be negative")
	}
	if f := strings.ToLower(c.LogFormat); f != "text" && f != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

func usageErr(w io.Writer, msg string) error {
	fmt.Fprintf(w, "\nERROR: %s\n", msg)
	Usage(w)
	return fmt.Errorf("%w: %s", ErrUsage, msg)
}

// aliasFlagSet registers every option under a short and a long name.
type aliasFlagSet struct {
	*flag.FlagSet
}

func (fs aliasFlagSet) stringVar(p *string, short, long, def, usage string) {
	fs.StringVar(p, short, def, usage)
	fs.StringVar(p, long, def, usage)
}

func (fs aliasFlagSet) intVar(p *int, short, long string, def int, usage string) {
	fs.IntVar(p, short, def, usage)
	fs.IntVar(p, long, def, usage)
}

func (fs aliasFlagSet) boolVar(p *bool, short, long, usage string) {
	fs.BoolVar(p, short, false, usage)
	fs.BoolVar(p, long, false, usage)
}

func (fs aliasFlagSet) targetVar(s *TargetSet, defined *bool, short, long, usage string) {
	fs.Var(targetFlag{s, defined}, short, usage)
	fs.Var(targetFlag{s, defined}, long, usage)
}
