package triage

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// ResponseTokens caps the length of the model's reply.
	ResponseTokens = 1000

	// Temperature is kept low so the model answers with literal JSON rather than prose.
	Temperature = 0.3
)

const promptTemplate = `You are a medical triage assistant. Analyze this patient email and provide a structured summary.

Email Details:
From: %s
Subject: %s
Body: %s

Provide a JSON response with:
{
  "summary": "Brief 2-3 sentence summary",
  "conditions": ["list", "of", "conditions"],
  "patientIntent": "What patient wants (appointment, refill, etc)",
  "concerningInfo": "Any red flags or null if none",
  "urgencyLevel": "low|medium|high|critical",
  "urgencyReason": "Brief explanation"
}

Urgency levels:
- critical: Life-threatening, severe pain, suicidal ideation
- high: Urgent, needs same-day attention
- medium: Address within 1-3 days
- low: Routine, can wait

Respond ONLY with valid JSON.`

// buildPrompt embeds the email fields verbatim into the fixed triage instructions.
func buildPrompt(e *Email) string {
	return fmt.Sprintf(promptTemplate, e.From, e.Subject, e.Body)
}

var (
	jsonFenceRe = regexp.MustCompile("```json\n?")
	fenceRe     = regexp.MustCompile("```\n?")
)

// cleanResponse strips markdown code fences anywhere in the text, then trims whitespace.
func cleanResponse(text string) string {
	text = jsonFenceRe.ReplaceAllString(text, "")
	text = fenceRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
