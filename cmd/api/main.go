package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"early-access-api/cmd/api/app"
	"early-access-api/cmd/api/server"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	ctx, stop := server.WithSignal(context.Background(), func(sig os.Signal) {
		a.Logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	})
	defer stop()

	if err := a.Run(ctx); err != nil {
		a.Logger.Error("application exited with error", zap.Error(err))
		stop()
		os.Exit(1)
	}
}
