package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"lead-call-bridge/internal/config"
	"lead-call-bridge/internal/formdata"
	"lead-call-bridge/internal/metrics"
	"lead-call-bridge/internal/models"
	"lead-call-bridge/internal/services/ses"
	"lead-call-bridge/internal/services/vapi"
	"lead-call-bridge/internal/utils"
)

// Messages returned to the form submitter.
const (
	msgMissingEnv    = "Missing env vars"
	msgCallFailed    = "Vapi call failed"
	msgCallingYouNow = "Calling you now…"
)

// leadAlertDeadline bounds the latency a lead alert adds to a form response.
// Alerts run inline: Lambda freezes the environment once the handler returns.
const leadAlertDeadline = 2 * time.Second

// leadErrors maps lead validation errors to their response messages, in the
// order they are checked.
var leadErrors = []struct {
	err     error
	message string
}{
	{models.ErrMissingName, "Missing name"},
	{models.ErrMissingPhone, "Missing phone"},
	{models.ErrConsentRequired, "Consent required"},
	{models.ErrInvalidPhoneFormat, "Invalid phone format"},
}

// CallPlacedResponse is returned when the call API accepts the call.
type CallPlacedResponse struct {
	OK      bool   `json:"ok"`
	CallID  string `json:"callId"`
	Message string `json:"message"`
}

// FormIntakeHandler turns form submissions into outbound calls.
type FormIntakeHandler struct {
	cfg       *config.Config
	extractor *formdata.Extractor
	calls     vapi.Client
	notifier  ses.Notifier
	now       func() time.Time
}

// NewFormIntakeHandler creates a new form intake handler. A nil notifier
// disables lead alerts.
func NewFormIntakeHandler(cfg *config.Config, calls vapi.Client, notifier ses.Notifier) *FormIntakeHandler {
	if notifier == nil {
		notifier = ses.NopNotifier{}
	}
	return &FormIntakeHandler{
		cfg:       cfg,
		extractor: formdata.NewExtractor(),
		calls:     calls,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Handle processes a form submission.
func (h *FormIntakeHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := baseHeaders("POST,OPTIONS")
	logger := utils.GetLogger().With(utils.String("requestId", headers["X-Request-Id"]))

	if request.HTTPMethod == http.MethodOptions {
		return preflightResponse(headers)
	}
	if request.HTTPMethod != http.MethodPost {
		return methodNotAllowed(headers)
	}

	// Secrets are checked before the payload is even looked at
	if err := h.cfg.ValidateVapi(); err != nil {
		logger.Error("Form intake misconfigured", utils.Error(err))
		metrics.FormSubmissions.WithLabelValues(metrics.OutcomeMisconfigured).Inc()
		return errorResponse(headers, http.StatusInternalServerError, ErrorBody{Error: msgMissingEnv})
	}

	payload := formdata.Parse(requestBody(request))

	lead, err := h.extractor.ExtractLead(payload)
	if err == nil {
		err = lead.Normalize()
	}
	if err != nil {
		logger.Info("Rejected form submission",
			utils.Error(err),
			utils.Bool("hasName", lead.Name != ""),
			utils.Phone("phone", lead.Phone),
			utils.Bool("consent", lead.Consent))
		metrics.FormSubmissions.WithLabelValues(metrics.OutcomeInvalid).Inc()

		body := ErrorBody{Error: leadErrorMessage(err)}
		if errors.Is(err, models.ErrInvalidPhoneFormat) {
			body.Normalized = &lead.Number
		}
		return errorResponse(headers, http.StatusBadRequest, body)
	}

	submittedAt := h.now()
	call := models.NewOutboundCall(h.cfg.VapiAssistantID, h.cfg.VapiPhoneNumberID, *lead, submittedAt)

	start := time.Now()
	result, err := h.calls.CreateCall(ctx, call)
	metrics.VapiCallDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		details := err.Error()
		var apiErr *vapi.APIError
		if errors.As(err, &apiErr) {
			details = apiErr.Body
			metrics.VapiCalls.WithLabelValues("rejected").Inc()
		} else {
			metrics.VapiCalls.WithLabelValues("transport_error").Inc()
		}

		logger.Error("Vapi call failed",
			utils.Phone("customer", lead.Number),
			utils.Error(err))
		metrics.FormSubmissions.WithLabelValues(metrics.OutcomeUpstreamError).Inc()

		h.alert(ctx, logger, ses.LeadAlert{Lead: call.Metadata.Lead, Failure: err.Error(), SubmittedAt: submittedAt})
		return errorResponse(headers, http.StatusBadGateway, ErrorBody{Error: msgCallFailed, Details: &details})
	}

	metrics.VapiCalls.WithLabelValues("created").Inc()
	metrics.FormSubmissions.WithLabelValues(metrics.OutcomeAccepted).Inc()
	logger.Info("Call placed for form lead",
		utils.String("callId", result.ID),
		utils.Phone("customer", lead.Number))

	h.alert(ctx, logger, ses.LeadAlert{Lead: call.Metadata.Lead, CallID: result.ID, SubmittedAt: submittedAt})

	return jsonResponse(headers, http.StatusOK, CallPlacedResponse{
		OK:      true,
		CallID:  result.ID,
		Message: msgCallingYouNow,
	})
}

// alert sends a lead alert. Failures are logged and never reach the submitter.
func (h *FormIntakeHandler) alert(ctx context.Context, logger *zap.Logger, alert ses.LeadAlert) {
	ctx, cancel := context.WithTimeout(ctx, leadAlertDeadline)
	defer cancel()

	if err := h.notifier.NotifyLead(ctx, alert); err != nil {
		logger.Warn("Failed to send lead alert", utils.Error(err))
	}
}

func leadErrorMessage(err error) string {
	for _, le := range leadErrors {
		if errors.Is(err, le.err) {
			return le.message
		}
	}
	return err.Error()
}
