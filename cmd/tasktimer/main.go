package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andy/tasktimer/internal/app"
	"github.com/andy/tasktimer/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Help and shell completion must not initialize the app (which may prompt)
	skipInit := false
	for _, a := range os.Args[1:] {
		if a == "-h" || a == "--help" || a == "help" || a == "completion" {
			skipInit = true
			break
		}
	}

	if !skipInit {
		a, err := app.New(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			return 1
		}
		defer a.Close()
		cli.SetApp(a)
	}

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
