/*
Package dashboard aggregates catalogue statistics for the club landing page.

The snapshot combines table totals, the top rated books, and the most active
reviewers. Because every piece is derived data that tolerates short
staleness, the assembled snapshot is cached in Redis for a fixed TTL; the
cache is best-effort and a Redis outage only costs the latency of
recomputing.
*/
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/pagebound/bookclub/internal/club/book"
	"github.com/pagebound/bookclub/internal/platform/constants"
)

const topListSize = 5

type Service struct {
	repo        Repository
	bookService *book.Service
	cache       *redis.Client
	logger      *slog.Logger
}

func NewService(repo Repository, bookService *book.Service, cache *redis.Client, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		bookService: bookService,
		cache:       cache,
		logger:      logger,
	}
}

// GetStats returns the dashboard snapshot, serving from cache when fresh.
func (service *Service) GetStats(context context.Context) (*Stats, error) {
	if cached := service.fromCache(context); cached != nil {
		return cached, nil
	}

	stats, err := service.compute(context)
	if err != nil {
		return nil, err
	}

	service.toCache(context, stats)
	return stats, nil
}

func (service *Service) compute(context context.Context) (*Stats, error) {
	totals, err := service.repo.GetTotals(context)
	if err != nil {
		return nil, err
	}

	topBooks, err := service.bookService.TopRated(context, topListSize)
	if err != nil {
		return nil, err
	}

	activeMembers, err := service.repo.MostActiveMembers(context, topListSize)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalBooks:        totals.Books,
		TotalMembers:      totals.Members,
		TotalMeetings:     totals.Meetings,
		TotalReviews:      totals.Reviews,
		TopRatedBooks:     make([]RatedBook, 0, len(topBooks)),
		MostActiveMembers: activeMembers,
	}
	if stats.MostActiveMembers == nil {
		stats.MostActiveMembers = []ActiveMember{}
	}

	for _, b := range topBooks {
		stats.TopRatedBooks = append(stats.TopRatedBooks, RatedBook{
			ID:            b.ID,
			Title:         b.Title,
			Slug:          b.Slug,
			AverageRating: b.AverageRating,
			ReviewCount:   b.ReviewCount,
		})
	}

	return stats, nil
}

func (service *Service) fromCache(context context.Context) *Stats {
	payload, err := service.cache.Get(context, constants.RedisKeyDashboardStats).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			service.logger.Warn("dashboard_cache_read_failed", slog.Any("error", err))
		}
		return nil
	}

	stats := &Stats{}
	if err := json.Unmarshal(payload, stats); err != nil {
		service.logger.Warn("dashboard_cache_decode_failed", slog.Any("error", err))
		return nil
	}

	return stats
}

func (service *Service) toCache(context context.Context, stats *Stats) {
	payload, err := json.Marshal(stats)
	if err != nil {
		service.logger.Warn("dashboard_cache_encode_failed", slog.Any("error", err))
		return
	}

	if err := service.cache.Set(context, constants.RedisKeyDashboardStats, payload, constants.DashboardStatsTTL).Err(); err != nil {
		service.logger.Warn("dashboard_cache_write_failed", slog.Any("error", err))
	}
}
