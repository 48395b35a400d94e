package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/penwyp/go-tt/commands"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes tt and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := commands.Execute(ctx, args, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), commands.ErrorMessage(err))
		return commands.ExitCode(err)
	}
	return commands.ExitOK
}
