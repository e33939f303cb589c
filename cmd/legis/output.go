package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Constants for output formatting.
const (
	TitleMaxLen   = 60 // Title truncation in human listings
	SummaryMaxLen = 90 // Summary truncation in human listings
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is the JSON shape of a command failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString shortens s to maxLen runes, adding "..." when cut.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

func readAllStdin() (string, error) {
	data, err := io.ReadAll(stdin)
	return string(data), err
}
