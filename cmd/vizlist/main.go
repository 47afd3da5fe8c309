package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/zojize/viz-list/pkg/driver"
	"github.com/zojize/viz-list/pkg/programs"
)

const cliToolVersion = "vizlist 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	return execute(args, os.Stdin, os.Stdout, os.Stderr)
}

// execute dispatches one command line. It is separated from run so tests
// can capture the streams.
func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	flags, remaining, err := parseGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if len(remaining) == 0 {
		printUsage(stderr)
		return 1
	}

	switch remaining[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "programs":
		return runPrograms(remaining[1:], stdout, stderr)
	case "run", "trace", "step":
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", remaining[0])
		printUsage(stderr)
		return 1
	}

	command := remaining[0]
	if len(remaining) > 2 {
		fmt.Fprintf(stderr, "%s expects at most one program, got %d\n", command, len(remaining)-1)
		return 1
	}
	cfg, err := resolveConfig(flags, remaining[1:])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger, err := newLogger(stderr, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	src, err := driver.LoadSource(ctx, cfg)
	if err != nil {
		logger.Error("load program", "error", err)
		return 1
	}
	session, err := driver.Open(src, driver.Options{MaxSteps: cfg.MaxSteps, Logger: logger})
	if err != nil {
		logger.Error("open program", "error", err)
		return 1
	}
	defer session.Close()

	out := newRenderer(stdout, cfg.Output)
	defer out.Close()
	switch command {
	case "run":
		return runProgram(ctx, session, out, logger)
	case "trace":
		return traceProgram(ctx, session, out, logger)
	default:
		ln := newLinePrompter(stdin)
		defer ln.Close()
		return stepProgram(session, ln, out)
	}
}

func runPrograms(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		for _, p := range programs.All() {
			if p.Description == "" {
				fmt.Fprintln(stdout, p.Name)
				continue
			}
			fmt.Fprintf(stdout, "%-12s %s\n", p.Name, p.Description)
		}
		return 0
	}
	if len(args) != 1 {
		fmt.Fprintln(stderr, "programs expects at most one sample name")
		return 1
	}
	p, err := programs.Get(args[0])
	if err != nil {
		if errors.Is(err, programs.ErrNotFound) {
			fmt.Fprintf(stderr, "unknown sample %q (available: %v)\n", args[0], programs.Names())
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	stdout.Write(p.Source)
	return 0
}
