package main

import (
	"math"
	"sort"
)

// ===============================
// Statistics
// ===============================

// computeFrameStats reduces raw animation-frame timestamps into a
// FrameRateSample. Fewer than two timestamps means no measurable interval,
// so every rate degrades to zero instead of dividing by zero.
func computeFrameStats(stamps []float64) FrameRateSample {
	if len(stamps) < 2 {
		return FrameRateSample{}
	}

	deltas := make([]float64, 0, len(stamps)-1)
	var duration float64
	var dropped int
	for i := 1; i < len(stamps); i++ {
		d := stamps[i] - stamps[i-1]
		deltas = append(deltas, d)
		duration += d
		if d > droppedFrameThresholdMs {
			dropped++
		}
	}

	var fps float64
	if duration > 0 {
		fps = float64(len(deltas)) / duration * 1000
	}

	sorted := make([]float64, len(deltas))
	copy(sorted, deltas)
	sort.Float64s(sorted)
	p95Idx := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Idx < 0 {
		p95Idx = 0
	}

	return FrameRateSample{
		AvgFps:            roundTo(fps, 3),
		P95FrameMs:        roundTo(sorted[p95Idx], 3),
		DroppedFrameRatio: roundTo(float64(dropped)/float64(len(deltas)), 4),
		TotalFrames:       len(deltas),
		SampleDurationMs:  roundTo(duration, 3),
	}
}

// median returns the median of values. Caller guarantees len > 0.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// mean returns the arithmetic mean of values. Caller guarantees len > 0.
func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

// medianOf reduces values to a rounded median, or nil when no run produced a
// value for the field. Absence stays absent; it is never coerced to zero.
func medianOf(values []float64, places int) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := roundTo(median(values), places)
	return &m
}

// meanOf is medianOf's counterpart for means.
func meanOf(values []float64, places int) *float64 {
	if len(values) == 0 {
		return nil
	}
	m := roundTo(mean(values), places)
	return &m
}
