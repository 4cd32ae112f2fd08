package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battleid"
	"github.com/webzeppelin/angry-birdman-sub003/internal/domain/battlestats"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/cache"
	"github.com/webzeppelin/angry-birdman-sub003/internal/platform/logging"
)

// TrendQuery selects the clan, the optional battle-id range, and whether the
// series is per battle or rolled up per month.
type TrendQuery struct {
	ClanID      string
	From        battleid.ID
	To          battleid.ID
	Aggregation string
}

type TrendService struct {
	recordRepo battlestats.Repository
	store      *cache.Store
	logger     *logging.Logger
}

func NewTrendService(recordRepo battlestats.Repository, store *cache.Store, logger *logging.Logger) *TrendService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TrendService{recordRepo: recordRepo, store: store, logger: logger}
}

// ComputeTrends builds the chart series for one clan. A clan without battle
// records in range yields empty series rather than an error.
func (s *TrendService) ComputeTrends(ctx context.Context, query TrendQuery) (battlestats.Trends, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TrendService.ComputeTrends")
	defer span.End()

	clanID := strings.TrimSpace(query.ClanID)
	if clanID == "" {
		return battlestats.Trends{}, fmt.Errorf("%w: clan id is required", ErrInvalidInput)
	}
	aggregation, err := battlestats.ParseAggregation(query.Aggregation)
	if err != nil {
		return battlestats.Trends{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if query.From != "" {
		if _, err := battleid.Decode(query.From); err != nil {
			return battlestats.Trends{}, fmt.Errorf("%w: from: %v", ErrInvalidInput, err)
		}
	}
	if query.To != "" {
		if _, err := battleid.Decode(query.To); err != nil {
			return battlestats.Trends{}, fmt.Errorf("%w: to: %v", ErrInvalidInput, err)
		}
	}

	if s.store == nil {
		return s.buildTrends(ctx, clanID, query.From, query.To, aggregation)
	}

	key := trendCacheKey(clanID, query.From, query.To, aggregation)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.buildTrends(ctx, clanID, query.From, query.To, aggregation)
	})
	if err != nil {
		return battlestats.Trends{}, err
	}

	trends, ok := value.(battlestats.Trends)
	if !ok {
		return battlestats.Trends{}, fmt.Errorf("unexpected cache value for %s", key)
	}
	return trends, nil
}

// InvalidateClan drops cached trend series after a clan's records change.
func (s *TrendService) InvalidateClan(ctx context.Context, clanID string) {
	if s.store == nil {
		return
	}
	s.store.DeletePrefix(ctx, "trends:"+clanID+":")
}

// InvalidateAll drops every cached trend series, e.g. after a recalculation
// over all clans.
func (s *TrendService) InvalidateAll(ctx context.Context) {
	if s.store == nil {
		return
	}
	s.store.DeletePrefix(ctx, "trends:")
}

func (s *TrendService) buildTrends(ctx context.Context, clanID string, from, to battleid.ID, aggregation battlestats.Aggregation) (battlestats.Trends, error) {
	battles, err := s.recordRepo.ListByClan(ctx, clanID, from, to)
	if err != nil {
		return battlestats.Trends{}, fmt.Errorf("list battle records: %w", err)
	}
	if len(battles) == 0 {
		return emptyTrends(), nil
	}

	trends, err := battlestats.BuildTrends(battles, aggregation)
	if err != nil {
		return battlestats.Trends{}, fmt.Errorf("build trends: %w", err)
	}
	return trends, nil
}

func emptyTrends() battlestats.Trends {
	return battlestats.Trends{
		FlockPower:    []battlestats.FlockPowerPoint{},
		Ratio:         []battlestats.RatioPoint{},
		Participation: []battlestats.ParticipationPoint{},
		Margin:        []battlestats.MarginPoint{},
	}
}

func trendCacheKey(clanID string, from, to battleid.ID, aggregation battlestats.Aggregation) string {
	return fmt.Sprintf("trends:%s:%s:%s:%s", clanID, from, to, aggregation)
}
