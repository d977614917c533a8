package main

import (
	"context"
	"log"

	"github.com/philly/rolekeeper/internal/server"
)

func main() {
	ctx := context.Background()

	worker, cleanup, err := server.InitializeWorker(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize worker: %v", err)
	}
	defer cleanup()

	if err := worker.Run(ctx); err != nil {
		log.Fatalf("Failed to run worker: %v", err)
	}
}
