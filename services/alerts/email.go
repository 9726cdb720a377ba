// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package alerts

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/fundlens/fundlens/services/llm"
	"github.com/fundlens/fundlens/services/store"
)

// =============================================================================
// Email Rendering
// =============================================================================

// maxListedInvestors caps how many matches appear in an alert body.
const maxListedInvestors = 5

const emailSystemPrompt = "You are an expert assistant for a venture capital " +
	"and investor search platform. Write personalized, professional email content."

var alertBodyTmpl = template.Must(template.New("alert").Parse(`<html>
<body>
<h2>{{.AlertName}}</h2>
<p>Hello {{.UserName}},</p>
<p>We've found {{.Total}} investors matching your criteria:</p>
<ul>
{{range .Investors}}<li>
<strong>{{.Name}}</strong> ({{.Type}})
<br>Location: {{.Location}}
<br>Investments: {{.Investments}}
<br>Stages: {{.Stages}}
</li>
{{end}}</ul>
<p><a href="{{.PlatformURL}}">View all matching investors on the platform</a></p>
<p>Thank you for using FundLens!</p>
</body>
</html>`))

var testBodyTmpl = template.Must(template.New("test").Parse(`<html>
<body>
<h2>Test Alert: {{.AlertName}}</h2>
<p>Hello {{.UserName}},</p>
<p>This is a test email for your alert: <strong>{{.AlertName}}</strong></p>
<p>Alert type: {{.AlertType}}</p>
<p>Frequency: {{.Frequency}}</p>
<p>This alert will notify you about investors matching your criteria:</p>
<ul>
{{range .Criteria}}<li><strong>{{.Label}}:</strong> {{.Value}}</li>
{{end}}</ul>
<p>Thank you for using FundLens!</p>
</body>
</html>`))

type listedInvestor struct {
	Name        string
	Type        string
	Location    string
	Investments int
	Stages      string
}

type criterionLine struct {
	Label string
	Value string
}

// Renderer produces alert email bodies. When an LLM client is set the
// body is model-written from the match summary; on any failure or when
// no client is configured it falls back to the HTML template.
type Renderer struct {
	client      llm.LLMClient
	platformURL string
}

// NewRenderer creates a renderer. client may be nil for template-only
// rendering; platformURL defaults to the public site.
func NewRenderer(client llm.LLMClient, platformURL string) *Renderer {
	if platformURL == "" {
		platformURL = "https://app.fundlens.dev"
	}
	return &Renderer{client: client, platformURL: platformURL}
}

// AlertEmail renders the notification for an alert and its matching
// investors. Returns the subject and HTML body.
func (r *Renderer) AlertEmail(ctx context.Context, alert store.Alert, user store.AlertUser, investors []store.Investor) (string, string) {
	subject := alert.Name
	if subject == "" {
		subject = "Investor Alert from FundLens"
	}

	if r.client != nil && len(investors) > 0 {
		body, err := r.personalizedBody(ctx, alert, user, investors)
		if err == nil {
			return subject, body
		}
		slog.Warn("personalized email generation failed, using template",
			"alert_id", alert.ID, "error", err)
	}
	return subject, r.templateBody(alert, user, investors)
}

// TestEmail renders a preview of what an alert will send, without
// querying the store.
func (r *Renderer) TestEmail(alert store.Alert, user store.AlertUser) (string, string) {
	var lines []criterionLine
	c := alert.Criteria
	if len(c.InvestorTypes) > 0 {
		lines = append(lines, criterionLine{"Investor Types", strings.Join(c.InvestorTypes, ", ")})
	}
	if len(c.Stages) > 0 {
		lines = append(lines, criterionLine{"Investment Stages", strings.Join(c.Stages, ", ")})
	}
	if c.MinInvestments > 0 {
		lines = append(lines, criterionLine{"Min Investments", fmt.Sprintf("%d", c.MinInvestments)})
	}
	if len(c.Locations) > 0 {
		lines = append(lines, criterionLine{"Locations", strings.Join(c.Locations, ", ")})
	}
	if len(c.Sectors) > 0 {
		lines = append(lines, criterionLine{"Sectors", strings.Join(c.Sectors, ", ")})
	}
	if len(c.Keywords) > 0 {
		lines = append(lines, criterionLine{"Keywords", strings.Join(c.Keywords, ", ")})
	}

	var buf strings.Builder
	err := testBodyTmpl.Execute(&buf, map[string]any{
		"AlertName": alert.Name,
		"UserName":  user.Name,
		"AlertType": titleize(alert.Type),
		"Frequency": titleize(alert.Frequency),
		"Criteria":  lines,
	})
	if err != nil {
		slog.Error("test email template failed", "error", err)
	}
	return "Test Alert from FundLens", buf.String()
}

func (r *Renderer) personalizedBody(ctx context.Context, alert store.Alert, user store.AlertUser, investors []store.Investor) (string, error) {
	summaries := make([]string, 0, maxListedInvestors)
	for i, inv := range investors {
		if i >= maxListedInvestors {
			break
		}
		summaries = append(summaries, fmt.Sprintf(
			"%s (%s): %s, Investments: %d, Stages: %s",
			inv.Name, inv.Type, inv.Location, inv.Investments,
			strings.Join(inv.InvestmentStages, ", ")))
	}

	prompt := fmt.Sprintf(`%s

Create a professional email for an investor alert notification with the following details:

User: %s
Alert Type: %s
Alert Name: %s

Matching Investors:
%s

Include a personalized greeting, a summary of why these investors match their criteria,
and a call to action to view more details on the platform. Format as HTML.`,
		emailSystemPrompt, user.Name, titleize(alert.Type), alert.Name,
		strings.Join(summaries, "\n"))

	maxTokens := 800
	body, err := r.client.Generate(ctx, prompt, llm.GenerationParams{MaxTokens: &maxTokens})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(body) == "" {
		return "", fmt.Errorf("empty model response")
	}
	return body, nil
}

func (r *Renderer) templateBody(alert store.Alert, user store.AlertUser, investors []store.Investor) string {
	listed := make([]listedInvestor, 0, maxListedInvestors)
	for i, inv := range investors {
		if i >= maxListedInvestors {
			break
		}
		listed = append(listed, listedInvestor{
			Name:        inv.Name,
			Type:        inv.Type,
			Location:    inv.Location,
			Investments: inv.Investments,
			Stages:      strings.Join(inv.InvestmentStages, ", "),
		})
	}

	var buf strings.Builder
	err := alertBodyTmpl.Execute(&buf, map[string]any{
		"AlertName":   alert.Name,
		"UserName":    user.Name,
		"Total":       len(investors),
		"Investors":   listed,
		"PlatformURL": r.platformURL,
	})
	if err != nil {
		slog.Error("alert email template failed", "alert_id", alert.ID, "error", err)
	}
	return buf.String()
}

// titleize turns "new_investors" into "New Investors".
func titleize(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
