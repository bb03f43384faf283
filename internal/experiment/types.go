// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package experiment

import (
	"fmt"
	"time"

	"github.com/tomtom215/faqrec/internal/recommend"
)

// Metric names a per-variant measurement.
type Metric string

const (
	MetricExposures          Metric = "exposures"
	MetricClicks             Metric = "clicks"
	MetricViews              Metric = "views"
	MetricAverageTimeSpent   Metric = "averageTimeSpent"
	MetricConversionRate     Metric = "conversionRate"
	MetricSatisfactionScore  Metric = "satisfactionScore"
	MetricRevenueAttribution Metric = "revenueAttribution"
)

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricExposures, MetricClicks, MetricViews, MetricAverageTimeSpent,
		MetricConversionRate, MetricSatisfactionScore, MetricRevenueAttribution:
		return true
	default:
		return false
	}
}

// UnmarshalText rejects unknown metric names.
func (m *Metric) UnmarshalText(text []byte) error {
	v := Metric(text)
	if !v.Valid() {
		return fmt.Errorf("unknown metric %q", string(text))
	}
	*m = v
	return nil
}

// Variant is one arm of an experiment. Config is the recommendation
// configuration served to users assigned to it.
type Variant struct {
	ID          string           `json:"id" koanf:"id" validate:"required"`
	Name        string           `json:"name" koanf:"name"`
	Description string           `json:"description,omitempty" koanf:"description"`
	Config      recommend.Config `json:"config" koanf:"config"`
	Weight      float64          `json:"weight" koanf:"weight" validate:"probability"`
	Active      bool             `json:"isActive" koanf:"active"`
}

// Experiment defines an A/B test over recommendation configurations.
type Experiment struct {
	ID                string     `json:"id" koanf:"id" validate:"required"`
	Name              string     `json:"name" koanf:"name" validate:"required"`
	Description       string     `json:"description,omitempty" koanf:"description"`
	StartDate         time.Time  `json:"startDate" koanf:"start_date"`
	EndDate           *time.Time `json:"endDate,omitempty" koanf:"end_date"`
	MinSampleSize     int        `json:"minSampleSize" koanf:"min_sample_size" validate:"gte=0"`
	SignificanceLevel float64    `json:"significanceLevel" koanf:"significance_level" validate:"gt=0,lt=1"`
	PowerLevel        float64    `json:"powerLevel" koanf:"power_level" validate:"probability"`
	PrimaryMetric     Metric     `json:"primaryMetric" koanf:"primary_metric" validate:"required"`
	Variants          []Variant  `json:"variants" koanf:"variants" validate:"min=2,dive"`
	Active            bool       `json:"isActive" koanf:"active"`
}

// Defaults applied to optional experiment fields.
const (
	DefaultSignificanceLevel = 0.05
	DefaultPowerLevel        = 0.8
	DefaultPrimaryMetric     = MetricConversionRate
)

// ApplyDefaults fills unset optional fields: the name falls back to the ID,
// the statistical settings to DefaultSignificanceLevel, DefaultPowerLevel
// and DefaultPrimaryMetric, and a variant without a config block gets
// recommend.DefaultConfig. The Variants slice is copied before it is
// modified.
func (e *Experiment) ApplyDefaults() {
	if e.Name == "" {
		e.Name = e.ID
	}
	if e.SignificanceLevel == 0 {
		e.SignificanceLevel = DefaultSignificanceLevel
	}
	if e.PowerLevel == 0 {
		e.PowerLevel = DefaultPowerLevel
	}
	if e.PrimaryMetric == "" {
		e.PrimaryMetric = DefaultPrimaryMetric
	}
	e.Variants = append([]Variant(nil), e.Variants...)
	for i := range e.Variants {
		if e.Variants[i].Config == (recommend.Config{}) {
			e.Variants[i].Config = recommend.DefaultConfig()
		}
	}
}

// clone returns a deep copy.
func (e *Experiment) clone() Experiment {
	cp := *e
	cp.Variants = append([]Variant(nil), e.Variants...)
	if e.EndDate != nil {
		end := *e.EndDate
		cp.EndDate = &end
	}
	return cp
}

// activeVariants returns the active variants in declaration order.
func (e *Experiment) activeVariants() []Variant {
	active := make([]Variant, 0, len(e.Variants))
	for _, v := range e.Variants {
		if v.Active {
			active = append(active, v)
		}
	}
	return active
}

func (e *Experiment) variant(id string) (Variant, bool) {
	for _, v := range e.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// Metrics aggregates interactions for one variant.
type Metrics struct {
	VariantID          string    `json:"variantId"`
	Exposures          int64     `json:"exposures"`
	Clicks             int64     `json:"clicks"`
	Views              int64     `json:"views"`
	AverageTimeSpent   float64   `json:"averageTimeSpent"`
	ConversionRate     float64   `json:"conversionRate"`
	SatisfactionScore  float64   `json:"satisfactionScore"`
	RevenueAttribution float64   `json:"revenueAttribution"`
	LastUpdated        time.Time `json:"lastUpdated"`

	// Sample counts behind the running averages.
	TimeSamples         int64 `json:"timeSamples"`
	SatisfactionSamples int64 `json:"satisfactionSamples"`
}

// Assignment pins a user to a variant. It is created once and never changes.
type Assignment struct {
	UserID       string    `json:"userId"`
	ExperimentID string    `json:"experimentId"`
	VariantID    string    `json:"variantId"`
	AssignedAt   time.Time `json:"assignedAt"`
	SessionID    string    `json:"sessionId"`
}

// StatisticalResult compares one metric between the control and a treatment.
type StatisticalResult struct {
	Metric             Metric     `json:"metric"`
	ControlVariantID   string     `json:"controlVariantId"`
	TreatmentVariantID string     `json:"treatmentVariantId"`
	ControlValue       float64    `json:"controlValue"`
	TreatmentValue     float64    `json:"treatmentValue"`
	Difference         float64    `json:"difference"`
	PercentChange      float64    `json:"percentChange"`
	PValue             float64    `json:"pValue"`
	Significant        bool       `json:"isSignificant"`
	ConfidenceInterval [2]float64 `json:"confidenceInterval"`
}
