// Package slack sends urgent email triage notifications to Slack via incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/only4dhanvi-ctrl/healthcare-email-backend/internal/triage"
)

const (
	maxAnalysisLen = 3000
	maxHeaderLen   = 150
	httpTimeout    = 10 * time.Second
)

// Notifier sends triage results to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
	logger     log.Logger
}

// New creates a new Slack notifier. If webhookURL is empty, Notify is a no-op.
func New(webhookURL string, logger log.Logger) *Notifier {
	if logger == nil {
		logger = log.Nop()
	}
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
		logger:     logger,
	}
}

// Enabled reports whether a webhook URL is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && n.webhookURL != ""
}

// Notify posts a triage result to the configured Slack webhook.
// If no webhook URL is configured, it returns nil immediately.
func (n *Notifier) Notify(ctx context.Context, result *triage.Result) error {
	if !n.Enabled() {
		return nil
	}

	msg := buildMessage(result)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}

	n.logger.Info(ctx, "slack notification sent", "triage_id", result.ID, "urgency", result.Urgency())
	return nil
}

func buildMessage(r *triage.Result) map[string]any {
	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(r),
			{"type": "divider"},
			fieldsBlock(r),
			{"type": "divider"},
			analysisBlock(r),
			{"type": "divider"},
			contextBlock(r),
		},
	}
}

func headerBlock(r *triage.Result) map[string]any {
	subject := r.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	text := fmt.Sprintf("%s %s urgency: %s", urgencyEmoji(r.Urgency()), strings.ToUpper(urgencyLabel(r.Urgency())), subject)

	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": truncate(text, maxHeaderLen),
		},
	}
}

func fieldsBlock(r *triage.Result) map[string]any {
	intent := ""
	if r.Analysis != nil {
		intent = r.Analysis.PatientIntent
	}

	fields := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Urgency:* %s", urgencyLabel(r.Urgency())),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*From:* %s", r.From),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Intent:* %s", intent),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Model:* %s", shortModel(r.Model)),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Duration:* %.1fs", r.Duration),
		},
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("*Tokens:* %d in / %d out", r.TokensIn, r.TokensOut),
		},
	}

	return map[string]any{
		"type":   "section",
		"fields": fields,
	}
}

func analysisBlock(r *triage.Result) map[string]any {
	return map[string]any{
		"type": "section",
		"text": map[string]any{
			"type": "mrkdwn",
			"text": truncate(analysisText(r), maxAnalysisLen),
		},
	}
}

func analysisText(r *triage.Result) string {
	a := r.Analysis
	if a == nil {
		if len(r.Raw) == 0 {
			return "_No analysis available._"
		}
		return fmt.Sprintf("*Analysis*\n```%s```", string(r.Raw))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Summary*\n%s", a.Summary)
	if len(a.Conditions) > 0 {
		fmt.Fprintf(&b, "\n\n*Conditions*\n%s", strings.Join(a.Conditions, ", "))
	}
	if a.UrgencyReason != "" {
		fmt.Fprintf(&b, "\n\n*Urgency reason*\n%s", a.UrgencyReason)
	}
	if a.ConcerningInfo != nil && *a.ConcerningInfo != "" {
		fmt.Fprintf(&b, "\n\n*Concerning info*\n%s", *a.ConcerningInfo)
	}
	return b.String()
}

func contextBlock(r *triage.Result) map[string]any {
	elements := []map[string]any{
		{
			"type": "mrkdwn",
			"text": fmt.Sprintf("email-analyzer • triage %s • %s", r.ID, r.CreatedAt.UTC().Format("2006-01-02 15:04 UTC")),
		},
	}

	return map[string]any{
		"type":     "context",
		"elements": elements,
	}
}

func urgencyEmoji(u triage.UrgencyLevel) string {
	switch u {
	case triage.UrgencyCritical:
		return "\U0001f534" // red circle
	case triage.UrgencyHigh:
		return "\U0001f7e0" // orange circle
	case triage.UrgencyMedium:
		return "\U0001f7e1" // yellow circle
	case triage.UrgencyLow:
		return "\U0001f7e2" // green circle
	default:
		return "⚪" // white circle
	}
}

func urgencyLabel(u triage.UrgencyLevel) string {
	if !u.Valid() {
		return "unknown"
	}
	return string(u)
}

// dateModelRe matches model names ending with a YYYYMMDD date suffix.
var dateModelRe = regexp.MustCompile(`-\d{8}$`)

func shortModel(model string) string {
	return dateModelRe.ReplaceAllString(model, "")
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return strings.ToValidUTF8(s[:limit-3], "") + "..."
}
