package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/auth"
	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/config"
	"github.com/vroslmend/check-the-card-game-v2-sub001/internal/server"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
	}

	rooms := server.NewRoomManager(log, cfg.Game)
	defer rooms.Shutdown()

	srv := server.New(log, rooms, auth.NewSigner(cfg.JWTSecret))
	log.WithField("addr", cfg.ListenAddr).Info("check server listening")
	if err := srv.Router().Run(cfg.ListenAddr); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
