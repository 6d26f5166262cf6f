package main

import (
	"context"
	"os/signal"
	"schoolfinder/cmd/schoolfinder/commands"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	commands.ExecuteContext(ctx)
}
