package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"shortscope-backend/internal/models"
)

// YouTubeClient adapts the YouTube Data API v3 to the three fetchers the
// Analyzer consumes.
type YouTubeClient struct {
	svc     *youtube.Service
	limiter *rate.Limiter
}

// NewYouTubeClient builds an API-key client. requestsPerSec <= 0 disables
// pacing. Extra options are appended last (tests point the endpoint at a fake).
func NewYouTubeClient(ctx context.Context, apiKey string, requestsPerSec float64, opts ...option.ClientOption) (*YouTubeClient, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}

	limit := rate.Inf
	if requestsPerSec > 0 {
		limit = rate.Limit(requestsPerSec)
	}
	return &YouTubeClient{svc: svc, limiter: rate.NewLimiter(limit, 1)}, nil
}

// wait blocks for a pacing token. The limiter refuses early when the token
// would arrive after the deadline; that is reported as DeadlineExceeded.
func (c *YouTubeClient) wait(ctx context.Context) error {
	err := c.limiter.Wait(ctx)
	if err == nil || ctx.Err() != nil {
		return err
	}
	if _, ok := ctx.Deadline(); ok {
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return err
}

func (c *YouTubeClient) SearchPage(ctx context.Context, req SearchPageRequest) (SearchPage, error) {
	if err := c.wait(ctx); err != nil {
		return SearchPage{}, err
	}

	call := c.svc.Search.List([]string{"id"}).
		Q(req.Query).
		Type("video").
		MaxResults(int64(req.PageSize)).
		Context(ctx)
	if req.Order != "" {
		call = call.Order(req.Order)
	}
	if !req.PublishedAfter.IsZero() {
		call = call.PublishedAfter(req.PublishedAfter.UTC().Format(time.RFC3339))
	}
	if req.Region != "" {
		call = call.RegionCode(req.Region)
	}
	if req.PageToken != "" {
		call = call.PageToken(req.PageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return SearchPage{}, err
	}

	page := SearchPage{IDs: make([]string, 0, len(resp.Items)), NextPageToken: resp.NextPageToken}
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		page.IDs = append(page.IDs, item.Id.VideoId)
	}
	return page, nil
}

func (c *YouTubeClient) VideoDetails(ctx context.Context, ids []string) ([]models.VideoDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	details := make([]models.VideoDetail, 0, len(resp.Items))
	for _, item := range resp.Items {
		d := models.VideoDetail{ID: item.Id}
		if item.Snippet != nil {
			d.Title = item.Snippet.Title
			d.ChannelID = item.Snippet.ChannelId
			d.ChannelTitle = item.Snippet.ChannelTitle
			d.PublishedAt = item.Snippet.PublishedAt
		}
		if item.ContentDetails != nil {
			d.Duration = item.ContentDetails.Duration
		}
		if item.Statistics != nil {
			d.ViewCount = int64(item.Statistics.ViewCount)
			d.LikeCount = int64(item.Statistics.LikeCount)
			d.CommentCount = int64(item.Statistics.CommentCount)
		}
		details = append(details, d)
	}
	return details, nil
}

func (c *YouTubeClient) ChannelDetails(ctx context.Context, ids []string) ([]models.Channel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.svc.Channels.List([]string{"statistics"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	channels := make([]models.Channel, 0, len(resp.Items))
	for _, item := range resp.Items {
		ch := models.Channel{ID: item.Id, Subscribers: models.UnknownSubscribers()}
		if item.Statistics != nil && !item.Statistics.HiddenSubscriberCount {
			ch.Subscribers = models.KnownSubscribers(int64(item.Statistics.SubscriberCount))
		}
		channels = append(channels, ch)
	}
	return channels, nil
}
