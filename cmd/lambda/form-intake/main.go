// Form intake Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"lead-call-bridge/internal/config"
	"lead-call-bridge/internal/handlers"
	"lead-call-bridge/internal/services/ses"
	"lead-call-bridge/internal/services/vapi"
	"lead-call-bridge/internal/utils"
)

func main() {
	cfg, _ := config.Load()

	// Initialize logger
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	notifier, err := ses.NewNotifier(context.Background(), cfg)
	if err != nil {
		utils.GetLogger().Warn("Lead alerts disabled", utils.Error(err))
		notifier = ses.NopNotifier{}
	}

	// Missing Vapi secrets are reported per request, not at cold start
	client := vapi.NewClient(cfg.VapiAPIKey, cfg.VapiBaseURL, cfg.VapiTimeout)
	handler := handlers.NewFormIntakeHandler(cfg, client, notifier)

	// Start Lambda
	lambda.Start(handler.Handle)
}
