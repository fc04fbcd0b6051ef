package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cryptix-os/helix/cmd"
	"github.com/cryptix-os/helix/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.GetRootCommand().ExecuteContext(ctx); err != nil {
		log.Fatal("%v", err)
	}
}
