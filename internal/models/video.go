package models

import "fmt"

const watchURLFormat = "https://www.youtube.com/watch?v=%s"

// VideoDetail is the upstream projection of one videos.list item.
type VideoDetail struct {
	ID           string
	Title        string
	ChannelID    string
	ChannelTitle string
	PublishedAt  string
	Duration     string // ISO-8601, e.g. "PT1M5S"
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// SubscriberCount is a channel's subscriber statistic. A hidden count is
// Known == false and must never be read as zero.
type SubscriberCount struct {
	Value int64
	Known bool
}

func KnownSubscribers(n int64) SubscriberCount {
	return SubscriberCount{Value: n, Known: true}
}

func UnknownSubscribers() SubscriberCount {
	return SubscriberCount{}
}

// Ptr returns nil for an unknown count.
func (s SubscriberCount) Ptr() *int64 {
	if !s.Known {
		return nil
	}
	v := s.Value
	return &v
}

// Channel holds the public statistics of a video owner.
type Channel struct {
	ID          string
	Subscribers SubscriberCount
}

// Video is one ranked item. The subscriber and ratio fields are nil when the
// owner was not found or hides its subscriber count.
type Video struct {
	VideoID         string   `json:"videoId"`
	VideoTitle      string   `json:"videoTitle"`
	ChannelID       string   `json:"channelId"`
	ChannelTitle    string   `json:"channelTitle"`
	PublishedAt     string   `json:"publishedAt"`
	ViewCount       int64    `json:"viewCount"`
	LikeCount       int64    `json:"likeCount"`
	CommentCount    int64    `json:"commentCount"`
	DurationSec     int      `json:"durationSec"`
	WatchURL        string   `json:"watchUrl"`
	SubscriberCount *int64   `json:"subscriberCount"`
	ViewsPerSub     *float64 `json:"viewsPerSub"`
	LikesPerSub     *float64 `json:"likesPerSub"`
	ViralityScore   float64  `json:"viralityScore"`
}

// WatchURL builds the canonical watch link for a video id.
func WatchURL(videoID string) string {
	return fmt.Sprintf(watchURLFormat, videoID)
}
