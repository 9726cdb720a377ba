// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fundlens/fundlens/services/store"
)

// =============================================================================
// Alert Scheduler
// =============================================================================

// auditLogFileMode restricts the audit log to owner read/write. The
// log records subscriber addresses and delivery outcomes.
const auditLogFileMode = 0600

// SchedulerConfig holds settings for the background alert scheduler.
type SchedulerConfig struct {
	// Interval is how often due alerts are checked. Default: 1 hour.
	Interval time.Duration

	// AuditLogPath, when set, appends a JSON line per delivery attempt.
	AuditLogPath string

	// OnCycle, when set, is called after each cycle with its result.
	OnCycle func(CycleResult)
}

// DefaultSchedulerConfig returns production defaults.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{Interval: 1 * time.Hour}
}

// CycleResult summarizes one scheduler cycle.
type CycleResult struct {
	AlertsDue  int       `json:"alerts_due"`
	EmailsSent int       `json:"emails_sent"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

// Scheduler periodically finds due alerts, runs their saved criteria
// against the store, and mails the results. It uses the ticker + done
// channel pattern for graceful shutdown; all public methods are
// thread-safe.
type Scheduler struct {
	service  *Service
	renderer *Renderer
	mailer   Mailer
	config   SchedulerConfig
	audit    *auditLogger
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewScheduler creates a scheduler. The audit log file is opened
// immediately when a path is configured.
func NewScheduler(service *Service, renderer *Renderer, mailer Mailer, cfg SchedulerConfig) (*Scheduler, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultSchedulerConfig().Interval
	}
	if mailer == nil {
		mailer = NopMailer{}
	}

	var audit *auditLogger
	if cfg.AuditLogPath != "" {
		var err error
		audit, err = newAuditLogger(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("alert scheduler: %w", err)
		}
	}

	return &Scheduler{
		service:  service,
		renderer: renderer,
		mailer:   mailer,
		config:   cfg,
		audit:    audit,
		done:     make(chan struct{}),
	}, nil
}

// Start launches the background goroutine. Returns an error if the
// scheduler is already running.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("alert scheduler is already running")
	}
	s.running = true
	s.done = make(chan struct{}) // Reset done channel for potential restart
	s.mu.Unlock()

	slog.Info("alert scheduler starting", "interval", s.config.Interval.String())
	go s.runLoop(ctx)
	return nil
}

// Stop signals the scheduler to stop. Safe to call multiple times.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	slog.Info("alert scheduler stopping")
	close(s.done)
	s.running = false

	if s.audit != nil {
		_ = s.audit.Close()
	}
	return nil
}

// RunNow triggers an immediate cycle without waiting for the ticker.
func (s *Scheduler) RunNow(ctx context.Context) (CycleResult, error) {
	return s.runCycle(ctx)
}

func (s *Scheduler) runLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// First cycle runs immediately on start.
	s.executeCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("alert scheduler stopped (context cancelled)")
			return
		case <-s.done:
			slog.Info("alert scheduler stopped (stop requested)")
			return
		case <-ticker.C:
			s.executeCycle(ctx)
		}
	}
}

func (s *Scheduler) executeCycle(ctx context.Context) {
	result, err := s.runCycle(ctx)
	if err != nil {
		slog.Error("alert cycle failed", "error", err)
		return
	}

	if result.AlertsDue > 0 {
		slog.Info("alert cycle completed",
			"alerts_due", result.AlertsDue,
			"emails_sent", result.EmailsSent,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"duration_ms", result.EndTime.Sub(result.StartTime).Milliseconds(),
		)
	} else {
		slog.Debug("alert cycle completed (nothing due)")
	}
}

// runCycle processes every due alert. Alerts with no matching
// investors are skipped without stamping last_sent, so the next cycle
// retries them. Delivery failures are counted and audited but do not
// abort the cycle.
func (s *Scheduler) runCycle(ctx context.Context) (CycleResult, error) {
	result := CycleResult{StartTime: time.Now()}
	defer func() {
		result.EndTime = time.Now()
		if s.config.OnCycle != nil {
			s.config.OnCycle(result)
		}
	}()

	due, err := s.service.DueAlerts(ctx, time.Now())
	if err != nil {
		return result, fmt.Errorf("query due alerts: %w", err)
	}
	result.AlertsDue = len(due)

	for _, alert := range due {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		investors, err := s.service.Matches(ctx, alert)
		if err != nil {
			result.Failed++
			s.recordDelivery(alert, 0, false, err)
			continue
		}
		if len(investors) == 0 {
			result.Skipped++
			continue
		}

		user, err := s.service.GetUser(ctx, alert.UserEmail)
		if err != nil {
			result.Failed++
			s.recordDelivery(alert, len(investors), false, err)
			continue
		}

		subject, body := s.renderer.AlertEmail(ctx, alert, *user, investors)
		if err := s.mailer.Send(ctx, alert.UserEmail, subject, body); err != nil {
			result.Failed++
			s.recordDelivery(alert, len(investors), false, err)
			continue
		}

		if err := s.service.MarkSent(ctx, alert.ID, time.Now()); err != nil {
			slog.Warn("failed to stamp alert last_sent", "alert_id", alert.ID, "error", err)
		}
		result.EmailsSent++
		s.recordDelivery(alert, len(investors), true, nil)
	}

	return result, nil
}

func (s *Scheduler) recordDelivery(alert store.Alert, matches int, sent bool, sendErr error) {
	if s.audit == nil {
		return
	}
	entry := auditEntry{
		Time:      time.Now(),
		AlertID:   alert.ID,
		UserEmail: alert.UserEmail,
		Matches:   matches,
		Sent:      sent,
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
	}
	if err := s.audit.Log(entry); err != nil {
		slog.Warn("audit log write failed", "alert_id", alert.ID, "error", err)
	}
}

// =============================================================================
// Audit Log
// =============================================================================

// auditEntry is one JSON line in the delivery audit log.
type auditEntry struct {
	Time      time.Time `json:"time"`
	AlertID   string    `json:"alert_id"`
	UserEmail string    `json:"user_email"`
	Matches   int       `json:"matches"`
	Sent      bool      `json:"sent"`
	Error     string    `json:"error,omitempty"`
}

// auditLogger appends delivery records to a dedicated file. Writes are
// serialized via mutex; rotation is handled externally.
type auditLogger struct {
	file *os.File
	mu   sync.Mutex
}

func newAuditLogger(path string) (*auditLogger, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, auditLogFileMode)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &auditLogger{file: file}, nil
}

func (l *auditLogger) Log(e auditEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := l.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func (l *auditLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
