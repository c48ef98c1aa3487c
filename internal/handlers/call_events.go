package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"lead-call-bridge/internal/metrics"
	"lead-call-bridge/internal/models"
	"lead-call-bridge/internal/utils"
)

// CallEventsHandler acknowledges call API server messages. Nothing is stored.
type CallEventsHandler struct{}

// NewCallEventsHandler creates a new call events handler.
func NewCallEventsHandler() *CallEventsHandler {
	return &CallEventsHandler{}
}

// Handle processes a call event. Every POST is answered 200 "ok".
func (h *CallEventsHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := baseHeaders("POST,OPTIONS")
	logger := utils.GetLogger().With(utils.String("requestId", headers["X-Request-Id"]))

	if request.HTTPMethod == http.MethodOptions {
		return preflightResponse(headers)
	}
	if request.HTTPMethod != http.MethodPost {
		return methodNotAllowed(headers)
	}

	event, err := parseCallEvent(requestBody(request))
	if err != nil {
		logger.Debug("Call event not fully decoded", utils.Error(err))
	}
	eventType := event.Type()

	if eventType == "" {
		logger.Debug("Call event without type")
		metrics.CallEventsReceived.WithLabelValues("none").Inc()
		return textResponse(headers, http.StatusOK, "ok")
	}

	label := string(eventType)
	if !eventType.IsKnown() {
		label = "unknown"
	}
	metrics.CallEventsReceived.WithLabelValues(label).Inc()

	logCallEvent(logger, event)

	return textResponse(headers, http.StatusOK, "ok")
}

// parseCallEvent decodes an event body. Fields with an unexpected JSON type
// are skipped and the rest of the event is kept; malformed JSON yields an
// empty event. The returned error only describes what was dropped.
func parseCallEvent(body []byte) (*models.CallEvent, error) {
	var event models.CallEvent
	err := json.Unmarshal(body, &event)
	if err == nil {
		return &event, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &event, err
	}
	return &models.CallEvent{}, err
}

func logCallEvent(logger *zap.Logger, event *models.CallEvent) {
	msg := event.Message
	fields := []zap.Field{
		zap.String("type", string(msg.Type)),
		zap.String("callId", event.CallID()),
	}

	switch msg.Type {
	case models.EventStatusUpdate:
		logger.Info("Call status update", append(fields, zap.String("status", msg.Status))...)
	case models.EventTranscript:
		logger.Debug("Call transcript",
			append(fields,
				zap.String("role", msg.Role),
				zap.String("transcriptType", msg.TranscriptType),
				zap.Int("length", len(msg.Transcript)))...)
	case models.EventEndOfCallReport:
		logger.Info("Call ended",
			append(fields,
				zap.String("endedReason", msg.EndedReason),
				zap.Bool("hasSummary", msg.Summary != ""),
				zap.Bool("hasRecording", msg.RecordingURL != ""))...)
	default:
		logger.Info("Unhandled call event", fields...)
	}
}
