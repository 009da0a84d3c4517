package main

import (
	"os"

	"clinic-booking/core/logger"
	"clinic-booking/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
		logger.Sync()
		os.Exit(1)
	}
}
