package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/server/cache"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// statsCacheKey is where aggregate statistics live in Redis.
const statsCacheKey = "ciclone:estatisticas"

// Statistics is the /api/estatisticas payload.
type Statistics struct {
	TotalUsuarios  int64           `json:"total_usuarios"`
	TotalClicks    int64           `json:"total_clicks"`
	TotalAnuncios  int64           `json:"total_anuncios"`
	TopSaldoNome   string          `json:"top_saldo_nome,omitempty"`
	TopSaldo       decimal.Decimal `json:"top_saldo"`
	TopClickerNome string          `json:"top_clicker_nome,omitempty"`
	TopClicks      int64           `json:"top_clicks"`
}

// StatsService aggregates platform statistics, cache-aside over Redis with
// a short TTL. Works with the cache disabled (nil).
type StatsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Cache
}

// NewStatsService constructs a StatsService. The cache may be nil.
func NewStatsService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Cache) *StatsService {
	return &StatsService{db: db, repomanager: m, cache: c}
}

// Statistics returns the aggregate counters, from cache when fresh.
func (s *StatsService) Statistics(ctx context.Context) (*Statistics, error) {
	if cached, err := s.cache.Get(ctx, statsCacheKey); err == nil {
		stats := &Statistics{}
		if err := json.Unmarshal([]byte(cached), stats); err == nil {
			return stats, nil
		}
	}

	stats, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, statsCacheKey, string(payload))
	}
	return stats, nil
}

func (s *StatsService) collect(ctx context.Context) (*Statistics, error) {
	accountRepo := s.repomanager.Accounts(s.db)
	clickRepo := s.repomanager.Clicks(s.db)
	adRepo := s.repomanager.Ads(s.db)

	stats := &Statistics{}

	var err error
	if stats.TotalUsuarios, err = accountRepo.Count(ctx); err != nil {
		return nil, common.ErrorInternal
	}
	if stats.TotalClicks, err = clickRepo.Total(ctx); err != nil {
		return nil, common.ErrorInternal
	}
	if stats.TotalAnuncios, err = adRepo.Count(ctx); err != nil {
		return nil, common.ErrorInternal
	}

	top, err := accountRepo.HighestBalance(ctx)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}
	if top != nil {
		stats.TopSaldoNome = top.Nome
		stats.TopSaldo = top.Saldo
	}

	clicker, err := clickRepo.Top(ctx)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}
	if clicker != nil {
		stats.TopClickerNome = clicker.Nome
		stats.TopClicks = clicker.TotalClicks
	}

	return stats, nil
}
