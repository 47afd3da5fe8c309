package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/zojize/viz-list/pkg/driver"
	"github.com/zojize/viz-list/pkg/interpreter"
)

const stepPrompt = "vizlist> "

// prompter is the part of *liner.State the step loop uses.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// newLinePrompter uses liner on the process's stdin and a plain line
// reader for anything else.
func newLinePrompter(stdin io.Reader) prompter {
	if f, ok := stdin.(*os.File); ok && f == os.Stdin {
		ln := liner.NewLiner()
		ln.SetCtrlCAborts(true)
		return ln
	}
	return &scanPrompter{scanner: bufio.NewScanner(stdin)}
}

type scanPrompter struct {
	scanner *bufio.Scanner
}

func (p *scanPrompter) Prompt(string) (string, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.scanner.Text(), nil
}

func (p *scanPrompter) AppendHistory(string) {}

func (p *scanPrompter) Close() error { return nil }

// stepProgram drives session interactively. An empty line repeats a single
// step.
func stepProgram(session *driver.Session, ln prompter, out *renderer) int {
	w := out.w
	fmt.Fprintf(w, "%s loaded; type help for commands\n", session.Source().Name)
	for {
		line, err := ln.Prompt(stepPrompt)
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return 0
		}
		if err != nil {
			fmt.Fprintln(w, "error:", err)
			return 1
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			fields = []string{"step"}
		} else {
			ln.AppendHistory(strings.TrimSpace(line))
		}

		switch fields[0] {
		case "s", "step":
			count := 1
			if len(fields) > 1 {
				n, err := strconv.Atoi(fields[1])
				if err != nil || n <= 0 {
					fmt.Fprintf(w, "step expects a positive count, got '%s'\n", fields[1])
					continue
				}
				count = n
			}
			if advance(session, count, out) {
				continue
			}
			if err := out.snapshot(session.Snapshot()); err != nil {
				fmt.Fprintln(w, "error:", err)
				return 1
			}
		case "c", "continue":
			if !session.Interpreter().Running() {
				report(session, out)
				continue
			}
			_, err := session.Run(context.Background())
			switch {
			case err == nil:
				report(session, out)
			case session.Interpreter().Running():
				fmt.Fprintln(w, "paused:", err)
			default:
				fmt.Fprintln(w, "error:", err)
			}
		case "p", "state":
			if err := out.snapshot(session.Snapshot()); err != nil {
				fmt.Fprintln(w, "error:", err)
				return 1
			}
		case "r", "reset":
			if err := session.Restart(); err != nil {
				fmt.Fprintln(w, "error:", err)
				return 1
			}
			fmt.Fprintln(w, "restarted")
		case "q", "quit", "exit":
			return 0
		case "h", "help", "?":
			printStepHelp(w)
		default:
			fmt.Fprintf(w, "unknown command %q; type help for commands\n", fields[0])
		}
	}
}

// advance takes up to count steps. It reports whether the run ended,
// printing the outcome.
func advance(session *driver.Session, count int, out *renderer) bool {
	interp := session.Interpreter()
	if !interp.Running() {
		report(session, out)
		return true
	}
	for n := 0; n < count; n++ {
		done, _ := session.Step()
		if done {
			report(session, out)
			return true
		}
	}
	return false
}

func report(session *driver.Session, out *renderer) {
	interp := session.Interpreter()
	if err := interp.Err(); err != nil {
		fmt.Fprintln(out.w, "error:", err)
		return
	}
	val, _ := interp.Result()
	out.summary(summary{
		Program: session.Source().Name,
		Result:  interpreter.FormatValue(val),
		Steps:   interp.Steps(),
	})
}
