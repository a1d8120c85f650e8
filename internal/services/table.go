package services

import (
	"math"

	"shortscope-backend/internal/models"
)

// ExportHeader is the fixed column order of an exported sheet.
var ExportHeader = []string{
	"channelTitle",
	"videoTitle",
	"publishedAt",
	"subscriberCount",
	"viewCount",
	"viewsPerSub",
	"likeCount",
	"likesPerSub",
	"viralityScore",
	"commentCount",
	"watchUrl",
	"videoId",
	"durationSec",
	"channelId",
}

// Table is a header plus data rows. Cells are strings, int64 or float64;
// an absent value is the empty string.
type Table struct {
	Header []string
	Rows   [][]interface{}
}

// ProjectTable lays out videos in ExportHeader order, keeping their order.
func ProjectTable(videos []models.Video) Table {
	t := Table{
		Header: append([]string(nil), ExportHeader...),
		Rows:   make([][]interface{}, 0, len(videos)),
	}
	for _, v := range videos {
		t.Rows = append(t.Rows, []interface{}{
			v.ChannelTitle,
			v.VideoTitle,
			v.PublishedAt,
			intCell(v.SubscriberCount),
			v.ViewCount,
			floatCell(v.ViewsPerSub),
			v.LikeCount,
			floatCell(v.LikesPerSub),
			round6(v.ViralityScore),
			v.CommentCount,
			v.WatchURL,
			v.VideoID,
			int64(v.DurationSec),
			v.ChannelID,
		})
	}
	return t
}

// Values returns header and rows as one grid, header first.
func (t Table) Values() [][]interface{} {
	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	return append([][]interface{}{header}, t.Rows...)
}

func intCell(p *int64) interface{} {
	if p == nil {
		return ""
	}
	return *p
}

func floatCell(p *float64) interface{} {
	if p == nil {
		return ""
	}
	return round6(*p)
}

func round6(x float64) float64 {
	return math.Round(x*1e6) / 1e6
}
