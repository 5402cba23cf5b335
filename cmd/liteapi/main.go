// Package main provides a small command line front end for the LiteAPI client.
//
//	liteapi [flags] countries|currencies|hotel <id>|booking <id>|overview
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/gaborage/go-liteapi"
	"github.com/gaborage/go-liteapi/config"
	"github.com/gaborage/go-liteapi/logger"
)

type cliOptions struct {
	apiKey       string
	configPath   string
	envFile      string
	maxRetries   int
	timeout      time.Duration
	logLevel     string
	trace        bool
	metrics      bool
	otlpEndpoint string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Environ, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, environ func() []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("liteapi", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts cliOptions
	fs.StringVar(&opts.apiKey, "api-key", "", "LiteAPI key (default $LITEAPI_API_KEY)")
	fs.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded when present")
	fs.IntVar(&opts.maxRetries, "max-retries", -1, "retry budget per call (default from config)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "request timeout (default from config)")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, disabled")
	fs.BoolVar(&opts.trace, "trace", false, "print spans to stderr")
	fs.BoolVar(&opts.metrics, "metrics", false, "print client metrics to stderr on exit")
	fs.StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "OTLP/HTTP collector base URL for spans and metrics")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "usage: liteapi [flags] countries|currencies|hotel <id>|booking <id>|overview")
		return 2
	}

	if err := execute(ctx, &opts, fs.Args(), environ, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func execute(ctx context.Context, opts *cliOptions, args []string, environ func() []string, stdout, stderr io.Writer) error {
	env, err := withDotenv(opts.envFile, environ)
	if err != nil {
		return err
	}

	loadOpts := []config.LoadOption{config.WithEnviron(env)}
	if opts.configPath != "" {
		loadOpts = append(loadOpts, config.WithFile(opts.configPath))
	}
	base, err := config.Load(loadOpts...)
	if err != nil {
		return err
	}

	level := base.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}

	clientOpts := []liteapi.Option{
		liteapi.WithLogger(logger.NewConsole(stderr, level, base.Log.Pretty)),
	}
	if opts.apiKey != "" {
		clientOpts = append(clientOpts, liteapi.WithAPIKey(opts.apiKey))
	}
	if opts.maxRetries >= 0 {
		clientOpts = append(clientOpts, liteapi.WithMaxRetries(opts.maxRetries))
	}
	if opts.timeout > 0 {
		clientOpts = append(clientOpts, liteapi.WithTimeout(opts.timeout))
	}

	telemetryOpts, shutdown, err := setupTelemetry(ctx, opts, stderr)
	if err != nil {
		return err
	}
	defer shutdown()
	clientOpts = append(clientOpts, telemetryOpts...)

	client, err := liteapi.New(base, clientOpts...)
	if err != nil {
		return err
	}

	return dispatch(ctx, client, args, stdout)
}

func dispatch(ctx context.Context, client *liteapi.Client, args []string, stdout io.Writer) error {
	static := client.StaticData()

	switch cmd := args[0]; cmd {
	case "countries":
		return printResult(stdout)(static.Countries(ctx))
	case "currencies":
		return printResult(stdout)(static.Currencies(ctx))
	case "hotel":
		if len(args) < 2 {
			return errors.New("hotel requires a hotel id")
		}
		return printResult(stdout)(static.Hotel(ctx, args[1], liteapi.HotelOptions{}))
	case "booking":
		if len(args) < 2 {
			return errors.New("booking requires a booking id")
		}
		return printResult(stdout)(client.Bookings().Get(ctx, args[1]))
	case "overview":
		return overview(ctx, static, stdout)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// overview fetches countries and currencies concurrently.
func overview(ctx context.Context, static *liteapi.StaticData, stdout io.Writer) error {
	var countries, currencies json.RawMessage

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		countries, err = static.Countries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		currencies, err = static.Currencies(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	combined, err := json.Marshal(map[string]json.RawMessage{
		"countries":  orNull(countries),
		"currencies": orNull(currencies),
	})
	if err != nil {
		return err
	}
	return printResult(stdout)(combined, nil)
}

func printResult(w io.Writer) func(json.RawMessage, error) error {
	return func(data json.RawMessage, err error) error {
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, orNull(data), "", "  "); err != nil {
			return fmt.Errorf("format response: %w", err)
		}
		out.WriteByte('\n')
		_, err = out.WriteTo(w)
		return err
	}
}

func orNull(data json.RawMessage) json.RawMessage {
	if len(data) == 0 {
		return json.RawMessage("null")
	}
	return data
}

// withDotenv appends variables from path, if it exists, to environ. Variables
// already present in environ win.
func withDotenv(path string, environ func() []string) (func() []string, error) {
	if path == "" {
		return environ, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return environ, nil
		}
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return func() []string {
		current := environ()
		seen := make(map[string]bool, len(current))
		for _, kv := range current {
			if k, _, ok := strings.Cut(kv, "="); ok {
				seen[k] = true
			}
		}
		merged := make([]string, 0, len(current)+len(vars))
		for k, v := range vars {
			if !seen[k] {
				merged = append(merged, k+"="+v)
			}
		}
		return append(merged, current...)
	}, nil
}
