package main

import (
	"fmt"
	"io"
)

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  vizlist [flags] run [program]")
	fmt.Fprintln(w, "  vizlist [flags] trace [program]")
	fmt.Fprintln(w, "  vizlist [flags] step [program]")
	fmt.Fprintln(w, "  vizlist programs [name]")
	fmt.Fprintln(w, "  vizlist version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "A program is a file path or embedded:<name>. Without one, the program")
	fmt.Fprintln(w, "from vizlist.yml in the working directory is used.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --config <path>         config file (default ./vizlist.yml)")
	fmt.Fprintln(w, "  --log-level <level>     debug, info, warn, or error")
	fmt.Fprintln(w, "  --max-steps <n>         stop run and trace after n steps")
	fmt.Fprintln(w, "  --output yaml|text      snapshot format")
}

func printStepHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  s, step [n]     advance n suspension points (default 1)")
	fmt.Fprintln(w, "  c, continue     run to completion")
	fmt.Fprintln(w, "  p, state        print the current snapshot")
	fmt.Fprintln(w, "  r, reset        restart the program")
	fmt.Fprintln(w, "  q, quit         leave")
}
