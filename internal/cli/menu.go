package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nbessler/graphtutorial/internal/graph"
)

// menuItem is one numbered action in an interactive menu.
type menuItem struct {
	label string
	run   func(ctx context.Context) error
}

// runMenu loops a numbered menu until the user picks 0 or input ends.
// Non-numeric input is skipped, out-of-range choices re-prompt, and
// action errors are printed without leaving the loop.
func runMenu(ctx context.Context, in *bufio.Scanner, out io.Writer, items []menuItem) {
	for {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Please choose one of the following options:")
		fmt.Fprintln(out, "0. Exit")
		for i := range items {
			fmt.Fprintf(out, "%d. %s\n", i+1, items[i].label)
		}

		if !in.Scan() {
			fmt.Fprintln(out, "Goodbye...")
			return
		}
		choice, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err != nil {
			// Skip over non-integer input
			continue
		}

		switch {
		case choice == 0:
			fmt.Fprintln(out, "Goodbye...")
			return
		case choice >= 1 && choice <= len(items):
			if err := items[choice-1].run(ctx); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				if hint := errorHint(err); hint != "" {
					fmt.Fprintln(out, hint)
				}
			}
		default:
			fmt.Fprintln(out, "Invalid choice! Please try again.")
		}
	}
}

// errorHint turns well-known failure classes into a follow-up line for
// the user.
func errorHint(err error) string {
	switch {
	case errors.Is(err, graph.ErrNotAuthenticated):
		return "This option requires app-only auth. Set app.clientSecret and app.tenantId in the settings file."
	case graph.InsufficientPermissions(err):
		return "The signed-in identity may be missing a required Graph permission."
	case errors.Is(err, graph.ErrRateLimited):
		return "Graph is throttling requests. Wait a moment and try again."
	}
	return ""
}

// promptLine prints a prompt and reads one trimmed line.
func promptLine(in *bufio.Scanner, out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}
