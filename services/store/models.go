// Copyright (C) 2025 FundLens Labs (oss@fundlens.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import "time"

// =============================================================================
// Canonical Vocabulary
// =============================================================================

// InvestmentStages is the canonical ordered list of funding stages used
// across search filters, matching, and alert criteria.
var InvestmentStages = []string{
	"Pre-Seed", "Seed", "Series A", "Series B", "Series C", "Growth", "Late Stage",
}

// InvestorTypes is the canonical list of investor classifications.
var InvestorTypes = []string{
	"Venture Capital", "Angel Investor", "Private Equity", "Accelerator", "Incubator",
}

// Sectors is the canonical list of investment sectors used in filters
// and startup profiles.
var Sectors = []string{
	"Technology", "Healthcare", "Finance", "Consumer", "Enterprise", "AI/ML",
	"Blockchain", "SaaS", "E-commerce", "Mobile", "IoT", "Clean Tech",
	"B2B", "B2C", "Hardware", "Software", "Deep Tech",
}

// FundingBrackets is the canonical ordered list of check-size brackets.
// The bracket strings double as display labels.
var FundingBrackets = []string{
	"< $100K", "$100K-$500K", "$500K-$1M", "$1M-$5M", "$5M-$10M", "> $10M",
}

// Regions is the canonical list of geographic regions accepted by the
// search filters.
var Regions = []string{
	"North America", "Europe", "Asia", "South America", "Africa", "Oceania",
}

// =============================================================================
// Investor
// =============================================================================

// Investor is the core record of the platform: a fund, angel, accelerator,
// or other capital source with its searchable attributes.
//
// List-valued attributes use GORM's json serializer so the schema stays
// portable between postgres and sqlite.
type Investor struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"index;not null" json:"name"`

	// Type is one of InvestorTypes.
	Type     string `gorm:"index" json:"type"`
	Location string `gorm:"index" json:"location"`

	// Investments is the count of known investments.
	Investments int    `json:"investments"`
	ProfileURL  string `json:"profile_url"`

	// InvestmentStages holds entries from InvestmentStages.
	InvestmentStages []string `gorm:"serializer:json" json:"investment_stages"`

	// FocusAreas holds sector names from Sectors plus free-form tags
	// harvested from scraped descriptions.
	FocusAreas []string `gorm:"serializer:json" json:"focus_areas"`

	// InvestmentSize is a bracket string from FundingBrackets, empty when
	// unknown.
	InvestmentSize string `json:"investment_size"`

	YearsActive int    `json:"years_active"`
	Description string `json:"description"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Scraped marks records discovered through web intelligence rather
	// than curated imports.
	Scraped bool `json:"scraped"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasStage reports whether the investor lists the given stage.
func (inv *Investor) HasStage(stage string) bool {
	for _, s := range inv.InvestmentStages {
		if s == stage {
			return true
		}
	}
	return false
}

// =============================================================================
// Alerts
// =============================================================================

// AlertUser holds notification preferences for an alert subscriber.
type AlertUser struct {
	Email string `gorm:"primaryKey" json:"email"`
	Name  string `json:"name"`

	// Frequency is the default cadence: "daily", "weekly", or "monthly".
	Frequency string `json:"frequency"`

	// AlertTypes lists subscribed alert kinds, e.g. "new_investors".
	AlertTypes []string `gorm:"serializer:json" json:"alert_types"`

	// DigestFormat is "individual" or "digest".
	DigestFormat string `json:"digest_format"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Alert is a saved search whose matches are mailed to the subscriber on a
// schedule.
type Alert struct {
	// ID is a UUID assigned at creation.
	ID        string `gorm:"primaryKey" json:"id"`
	UserEmail string `gorm:"index;not null" json:"user_email"`
	Name      string `json:"name"`

	// Criteria is the saved search, serialized as JSON.
	Criteria AlertCriteria `gorm:"serializer:json" json:"criteria"`

	// Frequency is "daily", "weekly", or "monthly".
	Frequency string `json:"frequency"`

	// Type is the alert kind: "new_investors", "investor_updates",
	// "market_changes", or "funding_announcements".
	Type string `json:"type"`

	Active   bool       `gorm:"index" json:"active"`
	LastSent *time.Time `json:"last_sent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AlertCriteria is the saved-search shape used by alerts. It is a subset
// of SearchFilters with the interactive-only knobs (sorting, web
// enrichment) removed.
type AlertCriteria struct {
	InvestorTypes  []string `json:"investor_types,omitempty"`
	Stages         []string `json:"investment_stages,omitempty"`
	MinInvestments int      `json:"min_investments,omitempty"`
	Locations      []string `json:"locations,omitempty"`
	Sectors        []string `json:"sectors,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
}

// Empty reports whether no criterion is set. Empty criteria are rejected
// at alert creation; an alert that matches everything is noise.
func (c AlertCriteria) Empty() bool {
	return len(c.InvestorTypes) == 0 &&
		len(c.Stages) == 0 &&
		c.MinInvestments == 0 &&
		len(c.Locations) == 0 &&
		len(c.Sectors) == 0 &&
		len(c.Keywords) == 0
}
