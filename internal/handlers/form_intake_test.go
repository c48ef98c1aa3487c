package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"lead-call-bridge/internal/config"
	"lead-call-bridge/internal/metrics"
	"lead-call-bridge/internal/models"
	"lead-call-bridge/internal/services/ses"
	"lead-call-bridge/internal/services/vapi"
	"lead-call-bridge/internal/utils"
)

func TestMain(m *testing.M) {
	utils.SetLogger(zap.NewNop())
	os.Exit(m.Run())
}

type mockVapiClient struct {
	mock.Mock
}

func (m *mockVapiClient) CreateCall(ctx context.Context, req *models.CallRequest) (*models.CallResponse, error) {
	args := m.Called(ctx, req)
	if resp := args.Get(0); resp != nil {
		return resp.(*models.CallResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyLead(ctx context.Context, alert ses.LeadAlert) error {
	return m.Called(ctx, alert).Error(0)
}

var fixedNow = time.Date(2025, 3, 4, 9, 15, 30, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		VapiAPIKey:        "key",
		VapiAssistantID:   "asst_1",
		VapiPhoneNumberID: "pn_1",
		Version:           "1.0.0",
		Stage:             "test",
	}
}

func newTestFormHandler(cfg *config.Config, calls vapi.Client, notifier ses.Notifier) *FormIntakeHandler {
	h := NewFormIntakeHandler(cfg, calls, notifier)
	h.now = func() time.Time { return fixedNow }
	return h
}

func post(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: body}
}

func decodeBody(t *testing.T, resp events.APIGatewayProxyResponse) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body), resp.Body)
	return body
}

const validSubmission = `{"name":"Jane","phone":"07123456789","email":"jane@example.com","consent":"yes"}`

func TestFormIntake_Preflight(t *testing.T) {
	calls := new(mockVapiClient)
	h := newTestFormHandler(testConfig(), calls, nil)

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.NotEmpty(t, resp.Headers["X-Request-Id"])
	calls.AssertNotCalled(t, "CreateCall", mock.Anything, mock.Anything)
}

func TestFormIntake_MethodNotAllowed(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			calls := new(mockVapiClient)
			h := newTestFormHandler(testConfig(), calls, nil)

			resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: method, Body: validSubmission})

			require.NoError(t, err)
			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
			assert.Equal(t, "Method Not Allowed", resp.Body)
			calls.AssertNotCalled(t, "CreateCall", mock.Anything, mock.Anything)
		})
	}
}

func TestFormIntake_MissingConfiguration(t *testing.T) {
	payloads := map[string]string{
		"valid payload":   validSubmission,
		"invalid payload": `{"name":`,
		"empty payload":   ``,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig()
			cfg.VapiPhoneNumberID = ""
			calls := new(mockVapiClient)
			h := newTestFormHandler(cfg, calls, nil)

			resp, err := h.Handle(context.Background(), post(payload))

			require.NoError(t, err)
			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.JSONEq(t, `{"error":"Missing env vars"}`, resp.Body)
			calls.AssertNotCalled(t, "CreateCall", mock.Anything, mock.Anything)
		})
	}
}

func TestFormIntake_RejectsInvalidLeads(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"empty object", `{}`, `{"error":"Missing name"}`},
		{"garbage body", `not json`, `{"error":"Missing name"}`},
		{"whitespace name", `{"name":"  ","phone":"07123456789","consent":"yes"}`, `{"error":"Missing name"}`},
		{"missing phone", `{"name":"Jane","consent":"yes"}`, `{"error":"Missing phone"}`},
		{"consent refused", `{"name":"Jane","phone":"07123456789","consent":"no"}`, `{"error":"Consent required"}`},
		{"consent absent", `{"name":"Jane","phone":"07123456789"}`, `{"error":"Consent required"}`},
		{"phone too short", `{"name":"Jane","phone":"12345","consent":"yes"}`, `{"error":"Invalid phone format","normalized":"12345"}`},
		{"phone without digits", `{"name":"Jane","phone":"call me","consent":"yes"}`, `{"error":"Invalid phone format","normalized":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := new(mockVapiClient)
			notifier := new(mockNotifier)
			h := newTestFormHandler(testConfig(), calls, notifier)

			resp, err := h.Handle(context.Background(), post(tt.body))

			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])
			assert.JSONEq(t, tt.expected, resp.Body)
			calls.AssertNotCalled(t, "CreateCall", mock.Anything, mock.Anything)
			notifier.AssertNotCalled(t, "NotifyLead", mock.Anything, mock.Anything)
		})
	}
}

func TestFormIntake_CallPlaced(t *testing.T) {
	calls := new(mockVapiClient)
	notifier := new(mockNotifier)

	calls.On("CreateCall", mock.Anything, mock.MatchedBy(func(req *models.CallRequest) bool {
		return req.Type == models.CallTypeOutboundPhone &&
			req.AssistantID == "asst_1" &&
			req.PhoneNumberID == "pn_1" &&
			req.Customer.Number == "+447123456789" &&
			req.Metadata.Lead.Name == "Jane" &&
			req.Metadata.Lead.Email == "jane@example.com" &&
			req.Metadata.SubmittedAt == "2025-03-04T09:15:30.000Z"
	})).Return(&models.CallResponse{ID: "abc123"}, nil).Once()

	notifier.On("NotifyLead", mock.Anything, mock.MatchedBy(func(alert ses.LeadAlert) bool {
		return alert.Placed() && alert.CallID == "abc123" && alert.SubmittedAt.Equal(fixedNow)
	})).Return(nil).Once()

	before := testutil.ToFloat64(metrics.FormSubmissions.WithLabelValues(metrics.OutcomeAccepted))

	h := newTestFormHandler(testConfig(), calls, notifier)
	resp, err := h.Handle(context.Background(), post(validSubmission))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true,"callId":"abc123","message":"Calling you now…"}`, resp.Body)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.FormSubmissions.WithLabelValues(metrics.OutcomeAccepted)))
	calls.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestFormIntake_AcceptedShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"capitalised consent", `{"name":"Jane","phone":"07123456789","consent":"Yes"}`},
		{"boolean consent", `{"name":"Jane","phone":"07123 456 789","consent":true}`},
		{"nested fields", `{"fields":{"full name":"Jane","mobile":"+44 7123 456789","I agree":"checked"}}`},
		{"field list", `{"data":{"fields":[{"label":"Name","value":"Jane"},{"label":"Phone Number","value":"00447123456789"},{"label":"Consent","value":"on"}]}}`},
		{"stray inner plus", `{"name":"Jane","phone":"+44 7123+456789","consent":"yes"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := new(mockVapiClient)
			calls.On("CreateCall", mock.Anything, mock.MatchedBy(func(req *models.CallRequest) bool {
				return req.Customer.Number == "+447123456789"
			})).Return(&models.CallResponse{ID: "call_1"}, nil).Once()

			h := newTestFormHandler(testConfig(), calls, nil)
			resp, err := h.Handle(context.Background(), post(tt.body))

			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)
			assert.Equal(t, "call_1", decodeBody(t, resp)["callId"])
			calls.AssertExpectations(t)
		})
	}
}

func TestFormIntake_Base64Body(t *testing.T) {
	calls := new(mockVapiClient)
	calls.On("CreateCall", mock.Anything, mock.Anything).Return(&models.CallResponse{ID: "abc123"}, nil).Once()

	h := newTestFormHandler(testConfig(), calls, nil)
	req := post(base64.StdEncoding.EncodeToString([]byte(validSubmission)))
	req.IsBase64Encoded = true

	resp, err := h.Handle(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	calls.AssertExpectations(t)
}

func TestFormIntake_UpstreamRejected(t *testing.T) {
	calls := new(mockVapiClient)
	notifier := new(mockNotifier)

	upstream := `{"message":"assistant not found"}`
	calls.On("CreateCall", mock.Anything, mock.Anything).
		Return(nil, &vapi.APIError{StatusCode: http.StatusNotFound, Body: upstream}).Once()
	notifier.On("NotifyLead", mock.Anything, mock.MatchedBy(func(alert ses.LeadAlert) bool {
		return !alert.Placed() && strings.Contains(alert.Failure, "status 404")
	})).Return(nil).Once()

	h := newTestFormHandler(testConfig(), calls, notifier)
	resp, err := h.Handle(context.Background(), post(validSubmission))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Vapi call failed", body["error"])
	assert.Equal(t, upstream, body["details"])
	calls.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestFormIntake_UpstreamEmptyBody(t *testing.T) {
	calls := new(mockVapiClient)
	calls.On("CreateCall", mock.Anything, mock.Anything).
		Return(nil, &vapi.APIError{StatusCode: http.StatusInternalServerError}).Once()

	h := newTestFormHandler(testConfig(), calls, nil)
	resp, err := h.Handle(context.Background(), post(validSubmission))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Vapi call failed","details":""}`, resp.Body)
}

func TestFormIntake_TransportError(t *testing.T) {
	calls := new(mockVapiClient)
	calls.On("CreateCall", mock.Anything, mock.Anything).
		Return(nil, errors.New("error creating call: connection refused")).Once()

	h := newTestFormHandler(testConfig(), calls, nil)
	resp, err := h.Handle(context.Background(), post(validSubmission))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "error creating call: connection refused", decodeBody(t, resp)["details"])
}

func TestFormIntake_AlertFailureIsIgnored(t *testing.T) {
	calls := new(mockVapiClient)
	notifier := new(mockNotifier)
	calls.On("CreateCall", mock.Anything, mock.Anything).Return(&models.CallResponse{ID: "abc123"}, nil).Once()
	notifier.On("NotifyLead", mock.Anything, mock.Anything).Return(errors.New("ses throttled")).Once()

	h := newTestFormHandler(testConfig(), calls, notifier)
	resp, err := h.Handle(context.Background(), post(validSubmission))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	notifier.AssertExpectations(t)
}

func TestFormIntake_RawPhoneNeverLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	utils.SetLogger(zap.New(core))
	t.Cleanup(func() { utils.SetLogger(zap.NewNop()) })

	calls := new(mockVapiClient)
	calls.On("CreateCall", mock.Anything, mock.Anything).Return(nil, &vapi.APIError{StatusCode: 400, Body: "bad"}).Once()

	h := newTestFormHandler(testConfig(), calls, nil)
	_, err := h.Handle(context.Background(), post(validSubmission))
	require.NoError(t, err)
	_, err = h.Handle(context.Background(), post(`{"name":"Jane","phone":"0712345","consent":"yes"}`))
	require.NoError(t, err)

	require.NotZero(t, logs.Len())
	for _, entry := range logs.All() {
		for key, value := range entry.ContextMap() {
			s, ok := value.(string)
			if !ok {
				continue
			}
			assert.NotContains(t, s, "7123456789", "field %q of %q", key, entry.Message)
			assert.NotContains(t, s, "0712345", "field %q of %q", key, entry.Message)
		}
	}
}

func TestFormIntake_AlertIsBounded(t *testing.T) {
	calls := new(mockVapiClient)
	notifier := new(mockNotifier)
	calls.On("CreateCall", mock.Anything, mock.Anything).Return(&models.CallResponse{ID: "abc123"}, nil).Once()

	var deadline time.Time
	notifier.On("NotifyLead", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			deadline, _ = ctx.Deadline()
			<-ctx.Done()
		}).
		Return(context.DeadlineExceeded).Once()

	h := newTestFormHandler(testConfig(), calls, notifier)
	start := time.Now()
	resp, err := h.Handle(context.Background(), post(validSubmission))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, deadline.IsZero())
	assert.WithinDuration(t, start.Add(leadAlertDeadline), deadline, time.Second)
	assert.Less(t, elapsed, leadAlertDeadline+time.Second)
	notifier.AssertExpectations(t)
}
