package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nbessler/graphtutorial/internal/graph"
)

func runMenuWithInput(items []menuItem, input string) string {
	var out bytes.Buffer
	in := bufio.NewScanner(strings.NewReader(input))
	runMenu(context.Background(), in, &out, items)
	return out.String()
}

func TestRunMenu_ExitImmediately(t *testing.T) {
	output := runMenuWithInput(nil, "0\n")

	assert.Contains(t, output, "Please choose one of the following options:")
	assert.Contains(t, output, "0. Exit")
	assert.Contains(t, output, "Goodbye...")
}

func TestRunMenu_RunsChosenAction(t *testing.T) {
	var calls int
	items := []menuItem{
		{label: "First", run: func(context.Context) error { calls++; return nil }},
		{label: "Second", run: func(context.Context) error {
			return errors.New("should not run")
		}},
	}

	output := runMenuWithInput(items, "1\n1\n0\n")

	assert.Equal(t, 2, calls)
	assert.Contains(t, output, "1. First")
	assert.Contains(t, output, "2. Second")
	assert.NotContains(t, output, "should not run")
}

func TestRunMenu_NonNumericInputIsSkipped(t *testing.T) {
	var calls int
	items := []menuItem{
		{label: "Action", run: func(context.Context) error { calls++; return nil }},
	}

	output := runMenuWithInput(items, "banana\n\n1\n0\n")

	assert.Equal(t, 1, calls)
	assert.NotContains(t, output, "Invalid choice")
}

func TestRunMenu_OutOfRangeChoiceReprompts(t *testing.T) {
	items := []menuItem{
		{label: "Action", run: func(context.Context) error { return nil }},
	}

	output := runMenuWithInput(items, "7\n-1\n0\n")

	assert.Equal(t, 2, strings.Count(output, "Invalid choice! Please try again."))
	assert.Contains(t, output, "Goodbye...")
}

func TestRunMenu_ActionErrorKeepsLooping(t *testing.T) {
	var calls int
	items := []menuItem{
		{label: "Flaky", run: func(context.Context) error {
			calls++
			return fmt.Errorf("getting inbox: %w", graph.ErrServerError)
		}},
	}

	output := runMenuWithInput(items, "1\n1\n0\n")

	assert.Equal(t, 2, calls)
	assert.Contains(t, output, "Error: getting inbox:")
	assert.Contains(t, output, "Goodbye...")
}

func TestRunMenu_EndOfInputExits(t *testing.T) {
	output := runMenuWithInput(nil, "")
	assert.Contains(t, output, "Goodbye...")
}

func TestErrorHint(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "not authenticated",
			err:      fmt.Errorf("%w: clientSecret", graph.ErrNotAuthenticated),
			expected: "app-only auth",
		},
		{
			name:     "insufficient permissions",
			err:      fmt.Errorf("getting users: %w", graph.ErrForbidden),
			expected: "permission",
		},
		{
			name:     "rate limited",
			err:      graph.ErrRateLimited,
			expected: "throttling",
		},
		{
			name:     "other errors have no hint",
			err:      errors.New("boom"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hint := errorHint(tt.err)
			if tt.expected == "" {
				assert.Empty(t, hint)
				return
			}
			assert.Contains(t, hint, tt.expected)
		})
	}
}

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewScanner(strings.NewReader("  hello world  \n"))

	value := promptLine(in, &out, "Subject: ")

	assert.Equal(t, "hello world", value)
	assert.Equal(t, "Subject: ", out.String())
}

func TestPromptLine_EndOfInput(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewScanner(strings.NewReader(""))

	assert.Empty(t, promptLine(in, &out, "> "))
}
