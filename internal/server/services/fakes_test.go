package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/dbx"
	"github.com/ciclone-ptc/ciclone/internal/server/config"
	"github.com/ciclone-ptc/ciclone/internal/server/models"
	accountsrepo "github.com/ciclone-ptc/ciclone/internal/server/repositories/accounts"
	adsrepo "github.com/ciclone-ptc/ciclone/internal/server/repositories/ads"
	clicksrepo "github.com/ciclone-ptc/ciclone/internal/server/repositories/clicks"
	productsrepo "github.com/ciclone-ptc/ciclone/internal/server/repositories/products"
	ratingsrepo "github.com/ciclone-ptc/ciclone/internal/server/repositories/ratings"
	refreshtokensrepo "github.com/ciclone-ptc/ciclone/internal/server/repositories/refreshtokens"
	"github.com/shopspring/decimal"
)

// --- shared helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewUserService(db, rm, cfg)
}

// --- stateful in-memory accounts repo ---

type fakeAccountsRepo struct {
	accounts []*models.Account

	createErr     error
	getErr        error
	updateBalErr  error
	setFlagsErr   error
	activateErr   error
	countOut      int64
	countErr      error
	highestOut    *accountsrepo.TopBalance
	highestErr    error
	balanceWrites []decimal.Decimal
}

func (f *fakeAccountsRepo) find(pred func(*models.Account) bool) *models.Account {
	var best *models.Account
	for _, a := range f.accounts {
		if pred(a) && (best == nil || a.ID < best.ID) {
			best = a
		}
	}
	return best
}

func (f *fakeAccountsRepo) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = int64(len(f.accounts) + 1)
	a.CreatedAt = time.Now()
	f.accounts = append(f.accounts, a)
	return a, nil
}

func (f *fakeAccountsRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a := f.find(func(a *models.Account) bool { return a.Email == email }); a != nil {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a := f.find(func(a *models.Account) bool { return a.ID == id }); a != nil {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) CurrentRecipientForUpdate(ctx context.Context) (*models.Account, error) {
	if a := f.find(func(a *models.Account) bool { return a.ReceivingCredits && !a.CapReached }); a != nil {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) NextCandidateForUpdate(ctx context.Context) (*models.Account, error) {
	if a := f.find(func(a *models.Account) bool { return !a.ReceivingCredits && !a.CapReached }); a != nil {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeAccountsRepo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	if f.updateBalErr != nil {
		return f.updateBalErr
	}
	f.balanceWrites = append(f.balanceWrites, balance)
	if a := f.find(func(a *models.Account) bool { return a.ID == id }); a != nil {
		a.Balance = balance
	}
	return nil
}

func (f *fakeAccountsRepo) SetRotationFlags(ctx context.Context, id int64, receiving, capped bool) error {
	if f.setFlagsErr != nil {
		return f.setFlagsErr
	}
	if a := f.find(func(a *models.Account) bool { return a.ID == id }); a != nil {
		a.ReceivingCredits = receiving
		a.CapReached = capped
	}
	return nil
}

func (f *fakeAccountsRepo) ActivateByEmail(ctx context.Context, email string) (*models.Account, error) {
	if f.activateErr != nil {
		return nil, f.activateErr
	}
	a := f.find(func(a *models.Account) bool { return a.Email == email })
	if a == nil {
		return nil, common.ErrorNotFound
	}
	a.ReceivingCredits = true
	return a, nil
}

func (f *fakeAccountsRepo) Count(ctx context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	if f.countOut != 0 {
		return f.countOut, nil
	}
	return int64(len(f.accounts)), nil
}

func (f *fakeAccountsRepo) HighestBalance(ctx context.Context) (*accountsrepo.TopBalance, error) {
	if f.highestErr != nil {
		return nil, f.highestErr
	}
	if f.highestOut != nil {
		return f.highestOut, nil
	}
	if len(f.accounts) == 0 {
		return nil, common.ErrorNotFound
	}
	sorted := append([]*models.Account(nil), f.accounts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Balance.GreaterThan(sorted[j].Balance) })
	return &accountsrepo.TopBalance{Nome: sorted[0].Nome, Saldo: sorted[0].Balance}, nil
}

// --- clicks repo fake ---

type fakeClicksRepo struct {
	counters map[string]*models.ClickCounter

	registerErr error
	setErr      error
	totalOut    int64
	totalErr    error
	topOut      *clicksrepo.TopClicker
	topErr      error
}

func (f *fakeClicksRepo) counter(email string) *models.ClickCounter {
	if f.counters == nil {
		f.counters = map[string]*models.ClickCounter{}
	}
	c, ok := f.counters[email]
	if !ok {
		c = &models.ClickCounter{Email: email}
		f.counters[email] = c
	}
	return c
}

func (f *fakeClicksRepo) Get(ctx context.Context, email string) (*models.ClickCounter, error) {
	return f.counter(email), nil
}

func (f *fakeClicksRepo) Register(ctx context.Context, email string) (*models.ClickCounter, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	c := f.counter(email)
	c.TotalClicks++
	c.ClicksToday++
	now := time.Now()
	c.LastClickAt = &now
	return c, nil
}

func (f *fakeClicksRepo) SetToday(ctx context.Context, email string, clicksHoje int64) (*models.ClickCounter, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	c := f.counter(email)
	c.TotalClicks++
	c.ClicksToday = clicksHoje
	return c, nil
}

func (f *fakeClicksRepo) Total(ctx context.Context) (int64, error) {
	if f.totalErr != nil {
		return 0, f.totalErr
	}
	return f.totalOut, nil
}

func (f *fakeClicksRepo) Top(ctx context.Context) (*clicksrepo.TopClicker, error) {
	if f.topErr != nil {
		return nil, f.topErr
	}
	if f.topOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.topOut, nil
}

// --- catalog repo fakes ---

type fakeAdsRepo struct {
	listOut   []*models.Ad
	listErr   error
	getOut    *models.Ad
	getErr    error
	createErr error
	countOut  int64
	countErr  error
}

func (f *fakeAdsRepo) List(ctx context.Context, filter adsrepo.ListFilter) ([]*models.Ad, error) {
	return f.listOut, f.listErr
}

func (f *fakeAdsRepo) GetByID(ctx context.Context, id int64) (*models.Ad, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAdsRepo) Create(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	ad.ID = 1
	return ad, nil
}

func (f *fakeAdsRepo) Count(ctx context.Context) (int64, error) {
	return f.countOut, f.countErr
}

type fakeProductsRepo struct {
	listOut   []*models.Product
	listErr   error
	getOut    *models.Product
	getErr    error
	createErr error
}

func (f *fakeProductsRepo) List(ctx context.Context, filter productsrepo.ListFilter) ([]*models.Product, error) {
	return f.listOut, f.listErr
}

func (f *fakeProductsRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.getOut == nil {
		return nil, common.ErrorNotFound
	}
	return f.getOut, nil
}

func (f *fakeProductsRepo) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = 1
	return p, nil
}

// --- ratings repo fake ---

type fakeRatingsRepo struct {
	created   []*models.Rating
	createErr error

	stats     *models.ProductStats
	upsertErr error
	getErr    error
}

func (f *fakeRatingsRepo) Create(ctx context.Context, r *models.Rating) (*models.Rating, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	r.ID = int64(len(f.created) + 1)
	r.CreatedAt = time.Now()
	f.created = append(f.created, r)
	return r, nil
}

func (f *fakeRatingsRepo) UpsertStats(ctx context.Context, productID int64, nota int) (*models.ProductStats, error) {
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	if f.stats == nil || f.stats.ProductID != productID {
		f.stats = &models.ProductStats{ProductID: productID}
	}
	total := float64(f.stats.TotalAvaliacoes)
	f.stats.Media = (f.stats.Media*total + float64(nota)) / (total + 1)
	f.stats.TotalAvaliacoes++
	return f.stats, nil
}

func (f *fakeRatingsRepo) GetStats(ctx context.Context, productID int64) (*models.ProductStats, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.stats == nil {
		return &models.ProductStats{ProductID: productID}, nil
	}
	return f.stats, nil
}

// --- refresh tokens repo fake ---

type fakeRefreshRepo struct {
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	createErr error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID int64, token string, validity time.Duration) error {
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	return f.delErr
}

// --- repo manager fake ---

type fakeRepoManager struct {
	a  *fakeAccountsRepo
	c  *fakeClicksRepo
	ad *fakeAdsRepo
	p  *fakeProductsRepo
	rt *fakeRatingsRepo
	r  *fakeRefreshRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		a:  &fakeAccountsRepo{},
		c:  &fakeClicksRepo{},
		ad: &fakeAdsRepo{},
		p:  &fakeProductsRepo{},
		rt: &fakeRatingsRepo{},
		r:  &fakeRefreshRepo{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Accounts(db dbx.DBTX) accountsrepo.Repository           { return m.a }
func (m *fakeRepoManager) Clicks(db dbx.DBTX) clicksrepo.Repository               { return m.c }
func (m *fakeRepoManager) Ads(db dbx.DBTX) adsrepo.Repository                     { return m.ad }
func (m *fakeRepoManager) Products(db dbx.DBTX) productsrepo.Repository           { return m.p }
func (m *fakeRepoManager) Ratings(db dbx.DBTX) ratingsrepo.Repository             { return m.rt }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
