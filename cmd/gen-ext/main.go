package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/seitarof/gen-ext/internal/cli"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCommand(version, cli.NewDefaultRunner)
	if err := cli.Execute(ctx, root); err != nil {
		stop()
		os.Exit(1)
	}
}
