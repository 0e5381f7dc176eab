package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"faceattend/config"
	"faceattend/database"
	"faceattend/logger"
	"faceattend/web"
	"faceattend/web/service"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
)

func main() {
	_ = godotenv.Load()

	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
	defer logger.CloseLogger()

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatal(err)
	}

	if err := database.InitDB(config.GetDBPath()); err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	userService := service.UserService{}
	if err := userService.InitDefaultUser(settings.AdminEmail, settings.AdminPassword); err != nil {
		log.Fatal(err)
	}

	server := web.NewServer(settings)
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		logger.Warning("stop server err:", err)
	}
}
