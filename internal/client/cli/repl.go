package cli

import (
	"bufio"
	"context"
	"fmt"
	"sort"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// command is one REPL verb. Commands with auth set are hidden and refused
// until a session exists.
type command struct {
	name  string
	usage string
	auth  bool
	run   func(ctx context.Context, args []string) error
}

// execIface is the surface the REPL needs. The real App satisfies it; tests
// can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	commands() []command
}

// runREPL starts a read–eval–print loop.
//
// It reads a line from the scanner, splits it into fields, and dispatches
// the first field to the matching command with the rest as arguments. The
// loop exits on EOF, on "exit"/"quit", or when ctx is done. Command errors
// are printed and the loop continues. Commands that prompt for more input
// read from the same reader, so no line is lost to a second buffer.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	byName := make(map[string]command)
	for _, c := range a.commands() {
		byName[c.name] = c
	}

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("ms%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "help":
			printlnFn(helpText(a.commands(), a.isLoggedIn()))
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		c, ok := byName[name]
		if !ok {
			printlnFn("Unknown command:", name)
			continue
		}
		if c.auth && !a.isLoggedIn() {
			printlnFn("Please log in first")
			continue
		}
		if err := c.run(ctx, args); err != nil {
			printlnFn("error:", err)
		}
	}
}

// helpText lists the commands available in the current state.
func helpText(cmds []command, loggedIn bool) string {
	var lines []string
	for _, c := range cmds {
		if c.auth && !loggedIn {
			continue
		}
		lines = append(lines, "  "+c.usage)
	}
	sort.Strings(lines)
	return "Available commands:\n" + strings.Join(lines, "\n") + "\n  help\n  exit"
}
