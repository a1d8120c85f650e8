package services

import (
	"math"

	"shortscope-backend/internal/models"
)

// ScoreWeights is the virality policy. The like ratio is usually orders of
// magnitude smaller than the view ratio, hence the much larger weight.
type ScoreWeights struct {
	Views float64
	Likes float64
}

var DefaultScoreWeights = ScoreWeights{Views: 0.6, Likes: 400.0}

type Metrics struct {
	ViewsPerSub   *float64
	LikesPerSub   *float64
	ViralityScore float64
}

// ComputeMetrics derives the subscriber ratios and the virality score of one
// video. Ratios are nil for an unknown or non-positive subscriber count; the
// score then counts them as zero so it is always a finite number.
func ComputeMetrics(v models.Video, subs models.SubscriberCount, w ScoreWeights) Metrics {
	var m Metrics
	if subs.Known && subs.Value > 0 {
		vps := round4(float64(v.ViewCount) / float64(subs.Value))
		lps := round4(float64(v.LikeCount) / float64(subs.Value))
		m.ViewsPerSub = &vps
		m.LikesPerSub = &lps
	}

	m.ViralityScore = round4(valueOrZero(m.ViewsPerSub)*w.Views + valueOrZero(m.LikesPerSub)*w.Likes)
	return m
}

func round4(f float64) float64 {
	return math.Round(f*1e4) / 1e4
}

func valueOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
