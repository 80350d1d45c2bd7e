package main

import (
	"tutorhub/config"
	"tutorhub/di"
	"tutorhub/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
