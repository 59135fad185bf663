// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import "errors"

var (
	// ErrDoubleRegistration is returned when a metric with the same full
	// name and label set is registered twice.
	ErrDoubleRegistration = errors.New("metrics: double registration")

	// ErrTypeMismatch is returned when a metric is registered under an
	// existing full name with a different base type.
	ErrTypeMismatch = errors.New("metrics: metric family type mismatch")

	// ErrHistogramBounds is returned when merging histograms whose bucket
	// upper bounds differ.
	ErrHistogramBounds = errors.New("metrics: histogram bucket bounds mismatch")

	errNotHistogram  = errors.New("metrics: value does not hold a histogram")
	errRelabelExpr   = errors.New("metrics: invalid relabel expression")
	errReplicateSelf = errors.New("metrics: cannot replicate a family onto its own handle")
)
