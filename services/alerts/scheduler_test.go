// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package alerts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundlens/fundlens/services/store"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func newTestScheduler(t *testing.T, svc *Service, mailer Mailer, cfg SchedulerConfig) *Scheduler {
	t.Helper()
	sched, err := NewScheduler(svc, NewRenderer(nil, ""), mailer, cfg)
	require.NoError(t, err)
	return sched
}

func TestRunNowSendsDueAlerts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	mailer := &recordingMailer{}
	sched := newTestScheduler(t, svc, mailer, SchedulerConfig{})

	alert, err := svc.CreateAlert(ctx, validRequest())
	require.NoError(t, err)

	result, err := sched.RunNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AlertsDue)
	assert.Equal(t, 1, result.EmailsSent)
	assert.Equal(t, []string{"founder@example.com"}, mailer.recipients())

	refreshed, err := svc.GetAlert(ctx, alert.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshed.LastSent)

	t.Run("not due again within the window", func(t *testing.T) {
		result, err := sched.RunNow(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, result.AlertsDue)
		assert.Equal(t, 0, result.EmailsSent)
	})
}

func TestRunNowSkipsAlertsWithoutMatches(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	mailer := &recordingMailer{}
	sched := newTestScheduler(t, svc, mailer, SchedulerConfig{})

	req := validRequest()
	req.Criteria = store.AlertCriteria{Keywords: []string{"zzzznomatch"}}
	alert, err := svc.CreateAlert(ctx, req)
	require.NoError(t, err)

	result, err := sched.RunNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AlertsDue)
	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, mailer.recipients())

	// No delivery means no last_sent stamp; the alert stays due.
	refreshed, err := svc.GetAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.Nil(t, refreshed.LastSent)
}

func TestRunNowCountsDeliveryFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	mailer := &recordingMailer{err: errors.New("connection refused")}
	sched := newTestScheduler(t, svc, mailer, SchedulerConfig{})

	alert, err := svc.CreateAlert(ctx, validRequest())
	require.NoError(t, err)

	result, err := sched.RunNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 0, result.EmailsSent)

	refreshed, err := svc.GetAlert(ctx, alert.ID)
	require.NoError(t, err)
	assert.Nil(t, refreshed.LastSent)
}

func TestSchedulerAuditLog(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	auditPath := filepath.Join(t.TempDir(), "alerts_audit.log")
	sched := newTestScheduler(t, svc, &recordingMailer{}, SchedulerConfig{AuditLogPath: auditPath})

	alert, err := svc.CreateAlert(ctx, validRequest())
	require.NoError(t, err)

	_, err = sched.RunNow(ctx)
	require.NoError(t, err)

	data, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), alert.ID)
	assert.Contains(t, string(data), `"sent":true`)
}

func TestSchedulerStartStop(t *testing.T) {
	svc := newTestService(t)
	sched := newTestScheduler(t, svc, &recordingMailer{}, SchedulerConfig{Interval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, sched.Start(ctx))
	assert.Error(t, sched.Start(ctx))

	require.NoError(t, sched.Stop())
	require.NoError(t, sched.Stop())

	t.Run("restart after stop", func(t *testing.T) {
		require.NoError(t, sched.Start(ctx))
		require.NoError(t, sched.Stop())
	})
}

func TestSchedulerOnCycleHook(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	var observed []CycleResult
	sched := newTestScheduler(t, svc, &recordingMailer{}, SchedulerConfig{
		OnCycle: func(r CycleResult) { observed = append(observed, r) },
	})

	_, err := svc.CreateAlert(ctx, validRequest())
	require.NoError(t, err)

	_, err = sched.RunNow(ctx)
	require.NoError(t, err)
	require.Len(t, observed, 1)
	assert.Equal(t, 1, observed[0].EmailsSent)
}
