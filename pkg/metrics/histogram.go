// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import "fmt"

// Bucket is one cumulative histogram bucket.
type Bucket struct {
	UpperBound float64
	Count      uint64
}

// Histogram is a fixed-bucket cumulative histogram sample.
type Histogram struct {
	SampleCount uint64
	SampleSum   float64
	Buckets     []Bucket
}

// Clone returns a deep copy of h.
func (h *Histogram) Clone() *Histogram {
	if h == nil {
		return &Histogram{}
	}
	out := &Histogram{
		SampleCount: h.SampleCount,
		SampleSum:   h.SampleSum,
	}
	if len(h.Buckets) > 0 {
		out.Buckets = append([]Bucket(nil), h.Buckets...)
	}
	return out
}

// Add merges o into h: sample count, sum and per-bucket counts are summed
// elementwise. Buckets must share upper bounds; merging histograms with
// different bounds is a logic error and fails without modifying h.
// Merging an empty histogram is a no-op.
func (h *Histogram) Add(o *Histogram) error {
	if o == nil || o.SampleCount == 0 {
		return nil
	}
	for i := range o.Buckets {
		if i < len(h.Buckets) && h.Buckets[i].UpperBound != o.Buckets[i].UpperBound {
			return fmt.Errorf("%w: %g vs %g at bucket %d",
				ErrHistogramBounds, h.Buckets[i].UpperBound, o.Buckets[i].UpperBound, i)
		}
	}
	for i, b := range o.Buckets {
		if i < len(h.Buckets) {
			h.Buckets[i].Count += b.Count
		} else {
			h.Buckets = append(h.Buckets, b)
		}
	}
	h.SampleCount += o.SampleCount
	h.SampleSum += o.SampleSum
	return nil
}
