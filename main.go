package main

import (
	"Pulse/Config"
	"Pulse/CronJobs"
	"Pulse/FiberConfig"
	"Pulse/Models"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"
)

func main() {
	setupLogging()
	Config.Load()
	Models.Connect()

	go func() {
		rateSync := CronJobs.NewBankRateSync(Config.Current.BankRatesURL, true)
		if err := rateSync.Start(); err != nil {
			log.Printf("Failed to start bank rate sync: %v", err)
		} else {
			log.Println("Bank rate sync started")
		}
	}()

	FiberConfig.FiberConfig()
}

func setupLogging() {
	// Create logs directory if it doesn't exist
	if err := os.MkdirAll("logs", 0755); err != nil {
		log.Printf("Error creating logs directory: %v\n", err)
		return
	}

	logFile, err := os.OpenFile("logs/application.log",
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)

	if err != nil {
		log.Printf("Error opening log file: %v\n", err)
		return
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime)
}
