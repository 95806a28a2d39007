package cmd

import (
	"context"
	"errors"
	"strings"

	"ai-setup/internal/setup"
)

const (
	ExitSuccess  = 0
	ExitGeneral  = 1
	ExitUsage    = 2
	ExitCanceled = 130
)

// ErrUsage marks invalid flag values.
var ErrUsage = errors.New("invalid usage")

// ExitCode maps command errors to process exit codes.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return ExitCanceled
	}
	if errors.Is(err, setup.ErrMissingCredential) || errors.Is(err, setup.ErrAborted) {
		return ExitGeneral
	}
	if isUsageError(err) {
		return ExitUsage
	}
	return ExitGeneral
}

func isUsageError(err error) bool {
	if errors.Is(err, ErrUsage) {
		return true
	}

	msg := strings.ToLower(err.Error())
	fragments := []string{
		"unknown flag",
		"unknown command",
		"unknown shorthand flag",
		"accepts no arg",
		"flag needs an argument",
		"invalid argument",
	}
	for _, f := range fragments {
		if strings.Contains(msg, f) {
			return true
		}
	}
	return false
}
