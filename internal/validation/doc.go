// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

// Package validation provides struct validation using go-playground/validator v10.
//
// It wraps the validator library in a thread-safe singleton with
// user-friendly error messages. Experiment definitions and configuration
// sections declare their constraints as struct tags and are checked here
// before any state is mutated.
//
// # Quick Start
//
//	type Variant struct {
//	    ID     string  `validate:"required"`
//	    Weight float64 `validate:"probability"`
//	}
//
//	if verr := validation.ValidateStruct(&v); verr != nil {
//	    return fmt.Errorf("variant: %w", verr)
//	}
//
// # Custom Validators
//
//   - probability: float in [0, 1], NaN rejected
//
// # Error Handling
//
// ValidateStruct returns *RequestValidationError, which lists every failing
// field. It matches ErrValidation through errors.Is, so wrapped errors can be
// classified without a type assertion.
//
// Error messages follow the tag:
//
//	required  -> "ID is required"
//	min       -> "Variants must be at least 2 items"
//	gt / lt   -> "SignificanceLevel must be less than 1"
//
// # Thread Safety
//
// GetValidator initializes the validator once via sync.Once. The validator
// caches struct metadata and is safe for concurrent use.
package validation
