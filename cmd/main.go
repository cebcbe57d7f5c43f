package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/Badsnus/qrlabels/cmd/server"
	"github.com/Badsnus/qrlabels/internal/adapters/config"
	"github.com/Badsnus/qrlabels/pkg/logger"

	_ "time/tzdata"
)

func main() {
	cfg := config.Get()
	defer logger.Sync()

	s, err := server.New(cfg)
	if err != nil {
		log.Panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = s.Start(ctx); err != nil {
		log.Panic(err)
	}
}
