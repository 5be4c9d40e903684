// Package display clears the terminal between report cycles.
package display

import (
	"context"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Clear runs the platform's clear-screen command with its output going to
// out. The error is returned for logging; a failed clear is cosmetic.
func Clear(ctx context.Context, out io.Writer) error {
	cmd := clearCommand(ctx, runtime.GOOS)
	cmd.Stdout = out
	return cmd.Run()
}

// Stdout clears the terminal attached to standard output.
func Stdout(ctx context.Context) error {
	return Clear(ctx, os.Stdout)
}

func clearCommand(ctx context.Context, goos string) *exec.Cmd {
	if goos == "windows" {
		return exec.CommandContext(ctx, "cmd", "/c", "cls")
	}
	return exec.CommandContext(ctx, "sh", "-c", "clear")
}
