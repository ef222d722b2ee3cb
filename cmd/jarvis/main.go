package main

import (
	"context"
	"fmt"
	"os"

	"github.com/xaenox/jarvis-bot/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{}
	defer app.Close()

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}
