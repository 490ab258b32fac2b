package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user for confirmation.
type Prompter interface {
	// Confirm asks a yes/no question and returns true if the answer is yes.
	Confirm(message string) (bool, error)
}

// StreamPrompter reads answers from In and writes questions to Out.
type StreamPrompter struct {
	In  io.Reader
	Out io.Writer
}

// Confirm asks message and waits for a line. Anything but y/yes declines.
func (p StreamPrompter) Confirm(message string) (bool, error) {
	fmt.Fprintf(p.Out, "%s [y/n]: ", message)
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// removePrompt is the question asked before a todo is soft-deleted.
func removePrompt(task string) string {
	return fmt.Sprintf("Do you want to remove %q from your list?", task)
}
