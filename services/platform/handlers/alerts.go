// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fundlens/fundlens/services/alerts"
)

// CreateAlert registers a new saved-search alert, creating the
// subscriber on first use.
func CreateAlert(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req alerts.CreateAlertRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		alert, err := svc.CreateAlert(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, alert)
	}
}

// GetUserAlerts lists all alerts belonging to a subscriber.
func GetUserAlerts(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")
		list, err := svc.UserAlerts(c.Request.Context(), email)
		if err != nil {
			slog.Error("list alerts failed", "email", email, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list alerts"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"alerts": list, "count": len(list)})
	}
}

// UpdateAlert applies a partial update to an alert.
func UpdateAlert(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd alerts.AlertUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		alert, err := svc.UpdateAlert(c.Request.Context(), c.Param("id"), upd)
		if errors.Is(err, alerts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, alert)
	}
}

// DeleteAlert removes an alert.
func DeleteAlert(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := svc.DeleteAlert(c.Request.Context(), c.Param("id"))
		if errors.Is(err, alerts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		if err != nil {
			slog.Error("delete alert failed", "id", c.Param("id"), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete alert"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted"})
	}
}

// TestAlert renders and sends a preview email for an alert.
func TestAlert(svc *alerts.Service, renderer *alerts.Renderer, mailer alerts.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		alert, err := svc.GetAlert(c.Request.Context(), c.Param("id"))
		if errors.Is(err, alerts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load alert"})
			return
		}

		user, err := svc.GetUser(c.Request.Context(), alert.UserEmail)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscriber"})
			return
		}

		subject, body := renderer.TestEmail(*alert, *user)
		if err := mailer.Send(c.Request.Context(), alert.UserEmail, subject, body); err != nil {
			slog.Error("test email delivery failed", "alert_id", alert.ID, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "email delivery failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"subject": subject, "body": body})
	}
}

// UpdatePreferences updates a subscriber's notification settings.
func UpdatePreferences(svc *alerts.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var prefs alerts.Preferences
		if err := c.ShouldBindJSON(&prefs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		user, err := svc.UpdatePreferences(c.Request.Context(), c.Param("email"), prefs)
		if errors.Is(err, alerts.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subscriber not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
