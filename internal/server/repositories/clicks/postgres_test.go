package clicks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ciclone-ptc/ciclone/internal/common"
)

var counterCols = []string{"email", "total_clicks", "clicks_hoje", "data_ultimo_click"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `(?s)^\s*SELECT\s+email,\s*total_clicks,\s*clicks_hoje,\s*data_ultimo_click\s+FROM\s+clicks\s+WHERE\s+email\s*=\s*\$1`
	mock.ExpectQuery(q).WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(counterCols).AddRow("alice@example.com", int64(10), int64(3), now))

	got, err := repo.Get(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.TotalClicks != 10 || got.ClicksToday != 3 || got.LastClickAt == nil {
		t.Fatalf("unexpected counter: %+v", got)
	}
}

func TestGet_MissingRowIsZeroCounter(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)FROM\s+clicks\s+WHERE\s+email\s*=\s*\$1`
	mock.ExpectQuery(q).WithArgs("fresh@example.com").WillReturnError(sql.ErrNoRows)

	got, err := repo.Get(context.Background(), "fresh@example.com")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Email != "fresh@example.com" || got.TotalClicks != 0 || got.ClicksToday != 0 || got.LastClickAt != nil {
		t.Fatalf("expected zero counter, got %+v", got)
	}
}

func TestRegister_Upsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	q := `(?s)^\s*INSERT\s+INTO\s+clicks\s*\(email,\s*total_clicks,\s*clicks_hoje,\s*data_ultimo_click\).*ON\s+CONFLICT\s*\(email\)\s+DO\s+UPDATE.*RETURNING`
	mock.ExpectQuery(q).WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(counterCols).AddRow("alice@example.com", int64(11), int64(4), now))

	got, err := repo.Register(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if got.TotalClicks != 11 || got.ClicksToday != 4 {
		t.Fatalf("unexpected counter: %+v", got)
	}
}

func TestSetToday_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+clicks.*clicks_hoje\s*=\s*\$2.*RETURNING`
	mock.ExpectQuery(q).WithArgs("alice@example.com", int64(7)).WillReturnError(errors.New("db down"))

	_, err := repo.SetToday(context.Background(), "alice@example.com", 7)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestTotal_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+COALESCE\(SUM\(total_clicks\),\s*0\)\s+FROM\s+clicks\s*$`
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(int64(42)))

	got, err := repo.Total(context.Background())
	if err != nil {
		t.Fatalf("Total error: %v", err)
	}
	if got != 42 {
		t.Fatalf("unexpected total: %d", got)
	}
}

func TestTop_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)JOIN\s+cadastro\s+cad\s+ON\s+c\.email\s*=\s*cad\.email`
	mock.ExpectQuery(q).WillReturnError(sql.ErrNoRows)

	_, err := repo.Top(context.Background())
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}
