// Call events Lambda entry point
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"lead-call-bridge/internal/config"
	"lead-call-bridge/internal/handlers"
	"lead-call-bridge/internal/utils"
)

func main() {
	cfg, _ := config.Load()

	// Initialize logger
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	handler := handlers.NewCallEventsHandler()

	// Start Lambda
	lambda.Start(handler.Handle)
}
