package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Command completed
	ExitValidation = 1 // Artifact or training file failed validation
	ExitError      = 2 // Configuration or runtime error
)

// ValidationError indicates the command ran successfully but the
// validated artifact or training file is incompatible.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			os.Exit(ExitValidation)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
