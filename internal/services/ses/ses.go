// Package ses sends lead alert emails via AWS SES
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "lead-call-bridge/internal/config"
	"lead-call-bridge/internal/models"
	"lead-call-bridge/internal/utils"
)

// Notifier sends a lead alert once the call outcome is known.
type Notifier interface {
	NotifyLead(ctx context.Context, alert LeadAlert) error
}

// SendEmailAPI is the part of the SES client the service uses.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// LeadAlert describes one form submission and what happened to its call.
type LeadAlert struct {
	Lead        models.Lead
	CallID      string
	Failure     string
	SubmittedAt time.Time
}

// Placed reports whether the call API accepted the call.
func (a LeadAlert) Placed() bool {
	return a.CallID != ""
}

// Service handles SES email operations
type Service struct {
	client    SendEmailAPI
	fromEmail string
	toEmail   string
}

// NewService creates a new SES service using the default AWS credential chain
func NewService(ctx context.Context, region, fromEmail, toEmail string) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewServiceWithClient(ses.NewFromConfig(cfg), fromEmail, toEmail), nil
}

// NewNotifier returns an SES-backed notifier when lead alerts are configured
// and a NopNotifier otherwise.
func NewNotifier(ctx context.Context, cfg *appConfig.Config) (Notifier, error) {
	if !cfg.LeadAlertsEnabled() {
		return NopNotifier{}, nil
	}
	svc, err := NewService(ctx, cfg.AWSRegion, cfg.SESSenderEmail, cfg.LeadAlertEmail)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// NewServiceWithClient creates a service on top of an existing SES client
func NewServiceWithClient(client SendEmailAPI, fromEmail, toEmail string) *Service {
	return &Service{
		client:    client,
		fromEmail: fromEmail,
		toEmail:   toEmail,
	}
}

// NotifyLead emails the alert recipient about a lead
func (s *Service) NotifyLead(ctx context.Context, alert LeadAlert) error {
	htmlBody, err := renderLeadAlertHTML(alert)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{s.toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(leadAlertSubject(alert)),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data:    aws.String(htmlBody),
					Charset: aws.String("UTF-8"),
				},
				Text: &types.Content{
					Data:    aws.String(renderLeadAlertText(alert)),
					Charset: aws.String("UTF-8"),
				},
			},
		},
	}

	if alert.Lead.Email != "" {
		input.ReplyToAddresses = []string{alert.Lead.Email}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	utils.GetLogger().Info("Lead alert sent",
		zap.String("messageId", aws.ToString(result.MessageId)),
		zap.Bool("placed", alert.Placed()),
	)

	return nil
}

// NopNotifier drops alerts. Used when alerting is not configured.
type NopNotifier struct{}

// NotifyLead does nothing.
func (NopNotifier) NotifyLead(context.Context, LeadAlert) error { return nil }

func leadAlertSubject(alert LeadAlert) string {
	if alert.Placed() {
		return fmt.Sprintf("New lead: %s (call %s)", alert.Lead.Name, alert.CallID)
	}
	return fmt.Sprintf("New lead: %s (call failed)", alert.Lead.Name)
}

var leadAlertTemplate = template.Must(template.New("lead_alert").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: sans-serif; color: #333;">
    <h2>New form lead</h2>
    <table cellpadding="4">
        <tr><td><b>Name</b></td><td>{{.Lead.Name}}</td></tr>
        <tr><td><b>Phone</b></td><td>{{.Lead.Number}}</td></tr>
        {{if .Lead.Email}}<tr><td><b>Email</b></td><td>{{.Lead.Email}}</td></tr>{{end}}
        <tr><td><b>Source</b></td><td>{{.Lead.Source}}</td></tr>
        <tr><td><b>Submitted</b></td><td>{{.SubmittedAt.Format "2006-01-02 15:04:05 MST"}}</td></tr>
    </table>
    {{if .Placed}}
    <p>Call placed, id <code>{{.CallID}}</code>.</p>
    {{else}}
    <p style="color: #b00;">The call could not be placed: {{.Failure}}</p>
    {{end}}
</body>
</html>`))

func renderLeadAlertHTML(alert LeadAlert) (string, error) {
	var buf bytes.Buffer
	if err := leadAlertTemplate.Execute(&buf, alert); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderLeadAlertText(alert LeadAlert) string {
	var buf bytes.Buffer

	buf.WriteString("New form lead\n\n")
	buf.WriteString(fmt.Sprintf("Name:      %s\n", alert.Lead.Name))
	buf.WriteString(fmt.Sprintf("Phone:     %s\n", alert.Lead.Number))
	if alert.Lead.Email != "" {
		buf.WriteString(fmt.Sprintf("Email:     %s\n", alert.Lead.Email))
	}
	buf.WriteString(fmt.Sprintf("Source:    %s\n", alert.Lead.Source))
	buf.WriteString(fmt.Sprintf("Submitted: %s\n\n", alert.SubmittedAt.Format("2006-01-02 15:04:05 MST")))

	if alert.Placed() {
		buf.WriteString(fmt.Sprintf("Call placed, id %s.\n", alert.CallID))
	} else {
		buf.WriteString(fmt.Sprintf("The call could not be placed: %s\n", alert.Failure))
	}

	return buf.String()
}
