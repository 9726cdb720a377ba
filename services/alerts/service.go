// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package alerts manages saved-search email alerts: subscriber
// preferences, alert CRUD, and the background scheduler that matches
// criteria against the investor store and mails the results.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fundlens/fundlens/services/store"
)

// =============================================================================
// Alert Service
// =============================================================================

// ErrNotFound is returned when an alert or subscriber does not exist.
var ErrNotFound = errors.New("alerts: not found")

// Frequencies lists the supported alert cadences.
var Frequencies = []string{"daily", "weekly", "monthly"}

// AlertTypes lists the supported alert kinds.
var AlertTypes = []string{
	"new_investors",
	"investor_updates",
	"market_changes",
	"funding_announcements",
}

// frequencyWindow maps a cadence to the minimum gap between sends.
var frequencyWindow = map[string]time.Duration{
	"daily":   24 * time.Hour,
	"weekly":  7 * 24 * time.Hour,
	"monthly": 30 * 24 * time.Hour,
}

// Service provides alert and subscriber CRUD on top of the investor
// store. Alert rows share the store's database so a single migration
// path covers both.
type Service struct {
	db       *gorm.DB
	store    *store.Store
	validate *validator.Validate
}

// New creates an alert service backed by the given store.
func New(st *store.Store) *Service {
	// The validator reads the same binding tags gin uses, so requests
	// arriving outside the HTTP layer get identical checks.
	v := validator.New()
	v.SetTagName("binding")
	return &Service{db: st.DB(), store: st, validate: v}
}

// CreateAlertRequest is the payload for creating an alert. The
// subscriber record is created on first use.
type CreateAlertRequest struct {
	Email     string              `json:"email" binding:"required,email"`
	Name      string              `json:"name" binding:"required"`
	Criteria  store.AlertCriteria `json:"criteria"`
	Frequency string              `json:"frequency"`
	Type      string              `json:"type"`
}

// CreateAlert validates the request, creates the subscriber if needed,
// and persists a new active alert. The alert name follows the
// "<name>'s <type> alert" convention.
func (s *Service) CreateAlert(ctx context.Context, req CreateAlertRequest) (*store.Alert, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}
	if req.Frequency == "" {
		req.Frequency = "weekly"
	}
	if _, ok := frequencyWindow[req.Frequency]; !ok {
		return nil, fmt.Errorf("create alert: unknown frequency %q", req.Frequency)
	}
	if req.Type == "" {
		req.Type = "new_investors"
	}
	if !validAlertType(req.Type) {
		return nil, fmt.Errorf("create alert: unknown alert type %q", req.Type)
	}
	if req.Criteria.Empty() {
		return nil, errors.New("create alert: at least one search criterion is required")
	}

	user := store.AlertUser{
		Email:        req.Email,
		Name:         req.Name,
		Frequency:    req.Frequency,
		AlertTypes:   []string{req.Type},
		DigestFormat: "individual",
	}
	if err := s.db.WithContext(ctx).
		Where(&store.AlertUser{Email: req.Email}).
		FirstOrCreate(&user).Error; err != nil {
		return nil, fmt.Errorf("create alert subscriber: %w", err)
	}

	alert := store.Alert{
		ID:        uuid.NewString(),
		UserEmail: req.Email,
		Name:      fmt.Sprintf("%s's %s alert", req.Name, strings.ReplaceAll(req.Type, "_", " ")),
		Criteria:  req.Criteria,
		Frequency: req.Frequency,
		Type:      req.Type,
		Active:    true,
	}
	if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
		return nil, fmt.Errorf("create alert: %w", err)
	}

	slog.Info("alert created", "alert_id", alert.ID, "email", req.Email, "type", req.Type)
	return &alert, nil
}

// AlertUpdate carries the mutable alert fields. The id, subscriber, and
// creation time never change after creation.
type AlertUpdate struct {
	Name      *string              `json:"name,omitempty"`
	Criteria  *store.AlertCriteria `json:"criteria,omitempty"`
	Frequency *string              `json:"frequency,omitempty"`
	Type      *string              `json:"type,omitempty"`
	Active    *bool                `json:"active,omitempty"`
}

// UpdateAlert applies the non-nil fields of upd to an existing alert.
func (s *Service) UpdateAlert(ctx context.Context, id string, upd AlertUpdate) (*store.Alert, error) {
	alert, err := s.GetAlert(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		alert.Name = *upd.Name
	}
	if upd.Criteria != nil {
		if upd.Criteria.Empty() {
			return nil, errors.New("update alert: criteria cannot be empty")
		}
		alert.Criteria = *upd.Criteria
	}
	if upd.Frequency != nil {
		if _, ok := frequencyWindow[*upd.Frequency]; !ok {
			return nil, fmt.Errorf("update alert: unknown frequency %q", *upd.Frequency)
		}
		alert.Frequency = *upd.Frequency
	}
	if upd.Type != nil {
		if !validAlertType(*upd.Type) {
			return nil, fmt.Errorf("update alert: unknown alert type %q", *upd.Type)
		}
		alert.Type = *upd.Type
	}
	if upd.Active != nil {
		alert.Active = *upd.Active
	}

	if err := s.db.WithContext(ctx).Save(alert).Error; err != nil {
		return nil, fmt.Errorf("update alert %s: %w", id, err)
	}
	return alert, nil
}

// DeleteAlert removes an alert by id.
func (s *Service) DeleteAlert(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&store.Alert{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete alert %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	slog.Info("alert deleted", "alert_id", id)
	return nil
}

// GetAlert fetches an alert by id.
func (s *Service) GetAlert(ctx context.Context, id string) (*store.Alert, error) {
	var alert store.Alert
	err := s.db.WithContext(ctx).First(&alert, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get alert %s: %w", id, err)
	}
	return &alert, nil
}

// UserAlerts returns every alert belonging to the given subscriber.
func (s *Service) UserAlerts(ctx context.Context, email string) ([]store.Alert, error) {
	var out []store.Alert
	err := s.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order("created_at").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list alerts for %s: %w", email, err)
	}
	return out, nil
}

// GetUser fetches a subscriber by email.
func (s *Service) GetUser(ctx context.Context, email string) (*store.AlertUser, error) {
	var user store.AlertUser
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscriber %s: %w", email, err)
	}
	return &user, nil
}

// Preferences carries the mutable subscriber settings.
type Preferences struct {
	Frequency    *string  `json:"frequency,omitempty"`
	AlertTypes   []string `json:"alert_types,omitempty"`
	DigestFormat *string  `json:"digest_format,omitempty"`
}

// UpdatePreferences applies the non-nil preference fields to an
// existing subscriber.
func (s *Service) UpdatePreferences(ctx context.Context, email string, prefs Preferences) (*store.AlertUser, error) {
	user, err := s.GetUser(ctx, email)
	if err != nil {
		return nil, err
	}

	if prefs.Frequency != nil {
		if _, ok := frequencyWindow[*prefs.Frequency]; !ok {
			return nil, fmt.Errorf("update preferences: unknown frequency %q", *prefs.Frequency)
		}
		user.Frequency = *prefs.Frequency
	}
	if prefs.AlertTypes != nil {
		for _, t := range prefs.AlertTypes {
			if !validAlertType(t) {
				return nil, fmt.Errorf("update preferences: unknown alert type %q", t)
			}
		}
		user.AlertTypes = prefs.AlertTypes
	}
	if prefs.DigestFormat != nil {
		if *prefs.DigestFormat != "individual" && *prefs.DigestFormat != "digest" {
			return nil, fmt.Errorf("update preferences: unknown digest format %q", *prefs.DigestFormat)
		}
		user.DigestFormat = *prefs.DigestFormat
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("update preferences for %s: %w", email, err)
	}
	return user, nil
}

// DueAlerts returns active alerts whose frequency window has elapsed
// since they were last sent. Never-sent alerts are always due.
func (s *Service) DueAlerts(ctx context.Context, now time.Time) ([]store.Alert, error) {
	var active []store.Alert
	err := s.db.WithContext(ctx).Where("active = ?", true).Find(&active).Error
	if err != nil {
		return nil, fmt.Errorf("query active alerts: %w", err)
	}

	due := make([]store.Alert, 0, len(active))
	for _, a := range active {
		window, ok := frequencyWindow[a.Frequency]
		if !ok {
			window = frequencyWindow["weekly"]
		}
		if a.LastSent == nil || now.Sub(*a.LastSent) >= window {
			due = append(due, a)
		}
	}
	return due, nil
}

// MarkSent stamps the alert's last-sent time.
func (s *Service) MarkSent(ctx context.Context, id string, at time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&store.Alert{}).
		Where("id = ?", id).
		Update("last_sent", at)
	if res.Error != nil {
		return fmt.Errorf("mark alert %s sent: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Matches runs the alert's saved criteria against the investor store.
func (s *Service) Matches(ctx context.Context, alert store.Alert) ([]store.Investor, error) {
	return s.store.SearchByCriteria(ctx, alert.Criteria)
}

func validAlertType(t string) bool {
	for _, known := range AlertTypes {
		if t == known {
			return true
		}
	}
	return false
}
