package products

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/server/models"
)

var productCols = []string{"id", "nome", "descricao", "imagem", "categoria", "ativo", "data_criacao"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func productRow(id int64, nome string, ativo bool) *sqlmock.Rows {
	return sqlmock.NewRows(productCols).AddRow(id, nome, "", "", "eletronicos", ativo, time.Now())
}

func TestList_ActiveOnlyByDefault(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+produtos\s+WHERE\s+ativo\s*=\s*\$1\s+ORDER\s+BY\s+id`
	mock.ExpectQuery(q).WithArgs(true).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(int64(1), "Fone", "", "", "eletronicos", true, time.Now()).
			AddRow(int64(2), "Mouse", "", "", "eletronicos", true, time.Now()))

	got, err := repo.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].Nome != "Fone" || got[1].Nome != "Mouse" {
		t.Fatalf("unexpected products: %+v", got)
	}
}

func TestList_CategoriaAndLimit(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+.*FROM\s+produtos\s+WHERE\s+ativo\s*=\s*\$1\s+AND\s+categoria\s*=\s*\$2\s+ORDER\s+BY\s+id\s+LIMIT\s+3`
	mock.ExpectQuery(q).WithArgs(true, "casa").WillReturnRows(sqlmock.NewRows(productCols))

	got, err := repo.List(context.Background(), ListFilter{Categoria: "casa", Limit: 3})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestGetByID_InactiveIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)FROM\s+produtos\s+WHERE\s+id\s*=\s*\$1\s+AND\s+ativo\s*=\s*true`
	mock.ExpectQuery(q).WithArgs(int64(4)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 4)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+produtos\s*\(nome,\s*descricao,\s*imagem,\s*categoria,\s*ativo\).*RETURNING`
	mock.ExpectQuery(q).
		WithArgs("Teclado", "", "", "eletronicos", true).
		WillReturnRows(productRow(11, "Teclado", true))

	got, err := repo.Create(context.Background(), &models.Product{
		Nome: "Teclado", Categoria: "eletronicos", Ativo: true,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 11 {
		t.Fatalf("unexpected product: %+v", got)
	}
}
