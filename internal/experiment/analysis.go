// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package experiment

import (
	"github.com/tomtom215/faqrec/internal/stats"
)

// conversionConfidence is the confidence level of the treatment interval.
const conversionConfidence = 0.95

// timeSpentPValue is reported for every time-spent comparison. Per-user
// dwell samples are not retained, so no two-sample test can be run.
const timeSpentPValue = 0.5

// AnalyzeExperiment compares every active treatment against the control,
// which is the first active variant. Each treatment yields a conversion
// rate result (two-proportion z-test on clicks over exposures, with a 95%
// interval on the treatment rate) followed by an average time spent result.
//
// The time spent result is descriptive only: its p-value is fixed at 0.5
// and it is never significant.
//
// It returns false when the experiment is missing or has fewer than two
// active variants.
func (m *Manager) AnalyzeExperiment(experimentID string) ([]StatisticalResult, bool) {
	st, ok := m.get(experimentID)
	if !ok {
		return nil, false
	}

	st.mu.Lock()
	variants := st.experiment.activeVariants()
	snapshot := make(map[string]Metrics, len(st.metrics))
	for id, mt := range st.metrics {
		snapshot[id] = *mt
	}
	st.mu.Unlock()

	if len(variants) < 2 {
		return nil, false
	}
	control, ok := snapshot[variants[0].ID]
	if !ok {
		return nil, false
	}

	results := make([]StatisticalResult, 0, 2*(len(variants)-1))
	for _, v := range variants[1:] {
		treatment, ok := snapshot[v.ID]
		if !ok {
			continue
		}

		z := stats.ZTest(int(control.Clicks), int(control.Exposures), int(treatment.Clicks), int(treatment.Exposures))
		results = append(results, StatisticalResult{
			Metric:             MetricConversionRate,
			ControlVariantID:   control.VariantID,
			TreatmentVariantID: treatment.VariantID,
			ControlValue:       control.ConversionRate,
			TreatmentValue:     treatment.ConversionRate,
			Difference:         treatment.ConversionRate - control.ConversionRate,
			PercentChange:      percentChange(control.ConversionRate, treatment.ConversionRate),
			PValue:             z.PValue,
			Significant:        z.Significant,
			ConfidenceInterval: stats.ConfidenceInterval(treatment.ConversionRate, int(treatment.Exposures), conversionConfidence),
		})

		results = append(results, StatisticalResult{
			Metric:             MetricAverageTimeSpent,
			ControlVariantID:   control.VariantID,
			TreatmentVariantID: treatment.VariantID,
			ControlValue:       control.AverageTimeSpent,
			TreatmentValue:     treatment.AverageTimeSpent,
			Difference:         treatment.AverageTimeSpent - control.AverageTimeSpent,
			PercentChange:      percentChange(control.AverageTimeSpent, treatment.AverageTimeSpent),
			PValue:             timeSpentPValue,
			Significant:        false,
			ConfidenceInterval: [2]float64{treatment.AverageTimeSpent, treatment.AverageTimeSpent},
		})
	}
	return results, true
}

// percentChange is the relative change from control in percent, or 0 when
// control is not positive.
func percentChange(control, treatment float64) float64 {
	if control <= 0 {
		return 0
	}
	return (treatment - control) / control * 100
}
