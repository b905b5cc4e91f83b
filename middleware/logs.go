package middleware

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"Pulse/Models"

	"github.com/gofiber/fiber/v2"
)

// LogConfig holds configuration for the logging middleware
type LogConfig struct {
	// Enable console logging
	Console bool
	// Enable file logging
	File bool
	// Log file path
	LogFilePath string
	// Skip logging for specific paths
	SkipPaths []string
}

// LogData contains all the information that will be logged
type LogData struct {
	Timestamp     time.Time     `json:"timestamp"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	Status        int           `json:"status"`
	Latency       time.Duration `json:"latency"`
	IP            string        `json:"ip"`
	UserAgent     string        `json:"user_agent"`
	Error         string        `json:"error,omitempty"`
	UserID        interface{}   `json:"user_id"`
	Username      string        `json:"username"`
	ContentLength int64         `json:"content_length"`
}

// DefaultLogConfig returns a default configuration for the logging middleware
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Console:     true,
		File:        true,
		LogFilePath: "logs/requests.log",
		SkipPaths:   []string{"/health"},
	}
}

// RequestLogger logs every request as one JSON line.
func RequestLogger() fiber.Handler {
	return RequestLoggerWithConfig(DefaultLogConfig())
}

func RequestLoggerWithConfig(config LogConfig) fiber.Handler {
	var logFile *os.File

	if config.File {
		if err := os.MkdirAll("logs", 0755); err != nil {
			log.Printf("Error creating logs directory: %v", err)
		} else {
			var err error
			logFile, err = os.OpenFile(config.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
			if err != nil {
				log.Printf("Error opening request log file: %v", err)
			}
		}
	}

	return func(c *fiber.Ctx) error {
		for _, path := range config.SkipPaths {
			if c.Path() == path {
				return c.Next()
			}
		}

		start := time.Now()
		err := c.Next()

		data := LogData{
			Timestamp:     start,
			Method:        c.Method(),
			Path:          c.Path(),
			Status:        c.Response().StatusCode(),
			Latency:       time.Since(start),
			IP:            c.IP(),
			UserAgent:     c.Get("User-Agent"),
			ContentLength: int64(len(c.Body())),
		}

		if err != nil {
			data.Error = err.Error()
		}

		if user, ok := c.Locals("user").(Models.User); ok {
			data.UserID = user.ID
			data.Username = user.Name
		}

		line, marshalErr := json.Marshal(data)
		if marshalErr == nil {
			if config.Console {
				log.Println(string(line))
			}
			if logFile != nil {
				logFile.Write(append(line, '\n'))
			}
		}

		return err
	}
}
