package documents

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/cryptopass/internal/common"
	"github.com/dmitrijs2005/cryptopass/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var columns = []string{"remote_id", "owner", "entry_id", "item_type", "service_name", "encrypted_data", "iv", "category", "favorite", "created_at", "updated_at"}

func TestPostgres_Create(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	d := doc("alice", "r1", "GitHub", 10)

	mock.ExpectExec(`(?s)INSERT INTO documents .* VALUES \(\$1, .*\$11\)`).
		WithArgs("r1", "alice", "entry-r1", "login", "GitHub", "ct-r1", "iv-r1", "", false, int64(10), int64(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), d))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Create_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO documents`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), doc("a", "r1", "x", 1))
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestPostgres_ListByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("r1", "alice", "e1", "login", "Bank", "ct1", "iv1", "", false, int64(1), int64(2)).
		AddRow("r2", "alice", "e2", "note", "[DELETED]", "DELETED_ENTRY", "DELETED_IV", "work", true, int64(3), int64(4))

	mock.ExpectQuery(`(?s)SELECT .* FROM documents\s+WHERE owner=\$1\s+ORDER BY created_at, remote_id`).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.ListByOwner(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, &models.Document{RemoteID: "r2", Owner: "alice", EntryID: "e2", ItemType: "note", ServiceName: "[DELETED]",
		EncryptedData: "DELETED_ENTRY", IV: "DELETED_IV", Category: "work", Favorite: true, CreatedAt: 3, UpdatedAt: 4}, got[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ListByOwner_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"remote_id"}).AddRow("r1")
	mock.ExpectQuery(`SELECT .* FROM documents`).WithArgs("alice").WillReturnRows(rows)

	_, err := repo.ListByOwner(context.Background(), "alice")
	require.Error(t, err)
}

func TestPostgres_Search_EscapesWildcards(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)SELECT .* FROM documents\s+WHERE owner=\$1 AND service_name ILIKE`).
		WithArgs("alice", `100\%\_off`).
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.SearchByServiceName(context.Background(), "alice", "100%_off")
	require.NoError(t, err)
	assert.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_Get(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM documents WHERE owner=\$1 AND remote_id=\$2`).
		WithArgs("alice", "r1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("r1", "alice", "e1", "login", "Bank", "ct", "iv", "", false, int64(1), int64(1)))

	d, err := repo.Get(context.Background(), "alice", "r1")
	require.NoError(t, err)
	assert.Equal(t, "Bank", d.ServiceName)
}

func TestPostgres_Get_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM documents WHERE owner=\$1 AND remote_id=\$2`).
		WithArgs("alice", "nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "alice", "nope")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgres_Update(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
		anyErr   bool
	}{
		{name: "one row", affected: 1},
		{name: "no rows", affected: 0, wantErr: common.ErrorNotFound},
		{name: "many rows", affected: 2, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(`(?s)UPDATE documents SET .* WHERE owner=\$1 AND remote_id=\$2`).
				WithArgs("alice", "r1", "login", "Bank", "ct-r1", "iv-r1", "", false, int64(7)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.Update(context.Background(), doc("alice", "r1", "Bank", 7))
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
			default:
				require.NoError(t, err)
			}
		})
	}
}
