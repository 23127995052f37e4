package services

import (
	"context"
	"testing"

	"github.com/ciclone-ptc/ciclone/internal/common"
	clicksrepo "github.com/ciclone-ptc/ciclone/internal/server/repositories/clicks"
	"github.com/ciclone-ptc/ciclone/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_CollectsAggregates(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.a.accounts = []*models.Account{
		account(1, "ana@x.com", true, false, "10.5"),
		account(2, "bia@x.com", false, false, "99.9"),
	}
	rm.c.totalOut = 1234
	rm.c.topOut = &clicksrepo.TopClicker{Nome: "ana@x.com", TotalClicks: 700}
	rm.ad.countOut = 7

	s := NewStatsService(db, rm, nil)

	stats, err := s.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalUsuarios)
	assert.Equal(t, int64(1234), stats.TotalClicks)
	assert.Equal(t, int64(7), stats.TotalAnuncios)
	assert.Equal(t, "bia@x.com", stats.TopSaldoNome)
	assert.True(t, stats.TopSaldo.Equal(dec("99.9")))
	assert.Equal(t, "ana@x.com", stats.TopClickerNome)
	assert.Equal(t, int64(700), stats.TopClicks)
}

func TestStatistics_EmptyPlatform(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewStatsService(db, newFakeRepoManager(), nil)

	stats, err := s.Statistics(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUsuarios)
	assert.Empty(t, stats.TopSaldoNome)
	assert.Empty(t, stats.TopClickerNome)
}

func TestStatistics_RepoError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	rm.c.totalErr = errBoom{}
	s := NewStatsService(db, rm, nil)

	_, err := s.Statistics(context.Background())
	assert.ErrorIs(t, err, common.ErrorInternal)
}
