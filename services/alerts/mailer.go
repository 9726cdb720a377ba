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
	"log/slog"
	"net/smtp"
	"strings"
)

// =============================================================================
// Mail Delivery
// =============================================================================

// Mailer delivers a rendered alert email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTPConfig holds the connection settings for the SMTP mailer.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends email over a plain SMTP connection with optional
// AUTH. STARTTLS negotiation is handled by net/smtp when the server
// advertises it.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a mailer from the given settings.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp mailer: host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.From == "" {
		cfg.From = "alerts@fundlens.dev"
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send delivers a single HTML message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// NopMailer logs the message instead of sending it. Used when no SMTP
// server is configured so alert cycles still run end to end.
type NopMailer struct{}

// Send logs the would-be delivery and succeeds.
func (NopMailer) Send(_ context.Context, to, subject, _ string) error {
	slog.Info("email delivery skipped (no SMTP configured)", "to", to, "subject", subject)
	return nil
}
