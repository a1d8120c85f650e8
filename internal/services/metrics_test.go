package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shortscope-backend/internal/models"
)

func TestComputeMetrics_KnownSubscribers(t *testing.T) {
	v := models.Video{ViewCount: 100, LikeCount: 5}

	m := ComputeMetrics(v, models.KnownSubscribers(1000), DefaultScoreWeights)

	require.NotNil(t, m.ViewsPerSub)
	require.NotNil(t, m.LikesPerSub)
	assert.Equal(t, 0.1, *m.ViewsPerSub)
	assert.Equal(t, 0.005, *m.LikesPerSub)
	// 0.1*0.6 + 0.005*400
	assert.InDelta(t, 2.06, m.ViralityScore, 1e-9)
}

func TestComputeMetrics_NullSafety(t *testing.T) {
	v := models.Video{ViewCount: 5000, LikeCount: 300}

	for name, subs := range map[string]models.SubscriberCount{
		"unknown":  models.UnknownSubscribers(),
		"zero":     models.KnownSubscribers(0),
		"negative": models.KnownSubscribers(-4),
	} {
		t.Run(name, func(t *testing.T) {
			m := ComputeMetrics(v, subs, DefaultScoreWeights)
			assert.Nil(t, m.ViewsPerSub)
			assert.Nil(t, m.LikesPerSub)
			assert.Equal(t, 0.0, m.ViralityScore)
		})
	}
}

func TestComputeMetrics_RoundsToFourDecimals(t *testing.T) {
	v := models.Video{ViewCount: 1, LikeCount: 2}

	m := ComputeMetrics(v, models.KnownSubscribers(3), DefaultScoreWeights)

	assert.Equal(t, 0.3333, *m.ViewsPerSub)
	assert.Equal(t, 0.6667, *m.LikesPerSub)
	assert.InDelta(t, 266.88, m.ViralityScore, 1e-9)
}

func TestComputeMetrics_CustomWeights(t *testing.T) {
	v := models.Video{ViewCount: 200, LikeCount: 0}

	m := ComputeMetrics(v, models.KnownSubscribers(100), ScoreWeights{Views: 1, Likes: 0})

	assert.Equal(t, 2.0, m.ViralityScore)
}
