package services

import (
	"context"
	"log"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"shortscope-backend/internal/models"
)

// Pipeline stages, in execution order.
const (
	StageCollectingIDs   = "collecting_ids"
	StageFetchingVideos  = "fetching_item_details"
	StageFilteringLength = "filtering_by_duration"
	StageFetchingOwners  = "fetching_owner_details"
	StageJoining         = "joining"
	StageRanking         = "ranking"
	StageDone            = "done"
)

var stageOrder = []string{
	StageCollectingIDs,
	StageFetchingVideos,
	StageFilteringLength,
	StageFetchingOwners,
	StageJoining,
	StageRanking,
	StageDone,
}

// VideoDetailFetcher looks up at most MaxBatchSize videos per call.
type VideoDetailFetcher interface {
	VideoDetails(ctx context.Context, ids []string) ([]models.VideoDetail, error)
}

// ChannelDetailFetcher looks up at most MaxBatchSize channels per call.
type ChannelDetailFetcher interface {
	ChannelDetails(ctx context.Context, ids []string) ([]models.Channel, error)
}

// ProgressReporter receives stage transitions of a run.
type ProgressReporter interface {
	ReportStage(runID uuid.UUID, update models.StageUpdate)
}

type AnalyzerConfig struct {
	PageSize    int
	BatchSize   int
	Concurrency int
	Weights     ScoreWeights
}

func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		PageSize:    MaxPageSize,
		BatchSize:   MaxBatchSize,
		Concurrency: 1,
		Weights:     DefaultScoreWeights,
	}
}

type AnalyzerOption func(*Analyzer)

// WithClock overrides time.Now for the publication-date cutoff.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) { a.now = now }
}

func WithProgress(p ProgressReporter) AnalyzerOption {
	return func(a *Analyzer) { a.progress = p }
}

// Analyzer runs the search → details → filter → owners → join → rank flow.
// It holds no per-run state and is safe for concurrent use.
type Analyzer struct {
	search   SearchPageFetcher
	videos   VideoDetailFetcher
	channels ChannelDetailFetcher
	cfg      AnalyzerConfig
	now      func() time.Time
	progress ProgressReporter
}

func NewAnalyzer(search SearchPageFetcher, videos VideoDetailFetcher, channels ChannelDetailFetcher, cfg AnalyzerConfig, opts ...AnalyzerOption) *Analyzer {
	if cfg.PageSize <= 0 {
		cfg.PageSize = MaxPageSize
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = MaxBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	a := &Analyzer{
		search:   search,
		videos:   videos,
		channels: channels,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes one search. Zero candidates or zero survivors end the run
// early with Count 0 and the matching outcome; any upstream failure fails the
// whole run and no partial result is returned.
func (a *Analyzer) Run(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error) {
	runID := req.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	result := &models.SearchResult{RunID: runID, Keyword: req.Keyword, Videos: []models.Video{}}

	// 1. collecting_ids
	a.enter(runID, StageCollectingIDs, 0)
	ids, err := Paginate(ctx, a.search, SearchPageRequest{
		Query:          req.Keyword,
		Order:          req.Order,
		Region:         req.Region,
		PublishedAfter: a.now().UTC().AddDate(0, 0, -req.Days),
	}, req.MaxResults, a.cfg.PageSize)
	if err != nil {
		return nil, upstream(StageCollectingIDs, "search.list", err)
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		result.Outcome = models.OutcomeNoCandidates
		a.enter(runID, StageDone, 0)
		return result, nil
	}

	// 2. fetching_item_details
	a.enter(runID, StageFetchingVideos, len(ids))
	details, err := FetchInBatches[models.VideoDetail](ctx, ids, a.cfg.BatchSize, a.cfg.Concurrency, a.videos.VideoDetails,
		func(d models.VideoDetail) string { return d.ID })
	if err != nil {
		return nil, upstream(StageFetchingVideos, "videos.list", err)
	}
	videos := make([]models.Video, 0, len(details))
	for _, id := range ids {
		d, ok := details[id]
		if !ok {
			continue
		}
		videos = append(videos, newVideo(d))
	}

	// 3. filtering_by_duration
	a.enter(runID, StageFilteringLength, len(videos))
	if req.ShortsOnly {
		videos = slices.DeleteFunc(videos, func(v models.Video) bool {
			return v.DurationSec > req.MaxDurationSec
		})
	}
	if len(videos) == 0 {
		result.Outcome = models.OutcomeNoMatches
		a.enter(runID, StageDone, 0)
		return result, nil
	}

	// 4. fetching_owner_details
	channelIDs := distinctChannels(videos)
	a.enter(runID, StageFetchingOwners, len(channelIDs))
	channels, err := FetchInBatches[models.Channel](ctx, channelIDs, a.cfg.BatchSize, a.cfg.Concurrency, a.channels.ChannelDetails,
		func(c models.Channel) string { return c.ID })
	if err != nil {
		return nil, upstream(StageFetchingOwners, "channels.list", err)
	}

	// 5. joining
	a.enter(runID, StageJoining, len(videos))
	subs := make([]models.SubscriberCount, len(videos))
	for i, v := range videos {
		if ch, ok := channels[v.ChannelID]; ok {
			subs[i] = ch.Subscribers
		} else {
			subs[i] = models.UnknownSubscribers()
		}
		videos[i].SubscriberCount = subs[i].Ptr()
	}

	// 6. ranking
	a.enter(runID, StageRanking, len(videos))
	for i := range videos {
		m := ComputeMetrics(videos[i], subs[i], a.cfg.Weights)
		videos[i].ViewsPerSub = m.ViewsPerSub
		videos[i].LikesPerSub = m.LikesPerSub
		videos[i].ViralityScore = m.ViralityScore
	}
	sortByViews(videos)

	result.Videos = videos
	result.Count = len(videos)
	result.Outcome = models.OutcomeCompleted
	a.enter(runID, StageDone, len(videos))
	return result, nil
}

func (a *Analyzer) enter(runID uuid.UUID, stage string, items int) {
	log.Printf("run %s: %s (%d items)", runID, stage, items)
	if a.progress == nil {
		return
	}
	a.progress.ReportStage(runID, models.StageUpdate{
		RunID:      runID,
		Stage:      stage,
		Step:       slices.Index(stageOrder, stage) + 1,
		TotalSteps: len(stageOrder),
		Items:      items,
	})
}

func newVideo(d models.VideoDetail) models.Video {
	return models.Video{
		VideoID:      d.ID,
		VideoTitle:   d.Title,
		ChannelID:    d.ChannelID,
		ChannelTitle: d.ChannelTitle,
		PublishedAt:  d.PublishedAt,
		ViewCount:    d.ViewCount,
		LikeCount:    d.LikeCount,
		CommentCount: d.CommentCount,
		DurationSec:  ParseDuration(d.Duration),
		WatchURL:     models.WatchURL(d.ID),
	}
}

// distinctChannels returns each referenced channel id once, sorted.
func distinctChannels(videos []models.Video) []string {
	seen := make(map[string]struct{}, len(videos))
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		if v.ChannelID == "" {
			continue
		}
		if _, ok := seen[v.ChannelID]; ok {
			continue
		}
		seen[v.ChannelID] = struct{}{}
		ids = append(ids, v.ChannelID)
	}
	sort.Strings(ids)
	return ids
}

// sortByViews orders by view count descending; equal counts keep their
// fetch order.
func sortByViews(videos []models.Video) {
	sort.SliceStable(videos, func(i, j int) bool {
		return videos[i].ViewCount > videos[j].ViewCount
	})
}
