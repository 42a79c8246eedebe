package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "content", "display_author", "author_id", "tags", "is_admin", "created_at", "updated_at"})
}

func TestPostRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WithArgs("abc", 1).
		WillReturnRows(postRows().AddRow("abc", "Hello", "World", "Anonymous", "u1", []byte(`["notice"]`), false, now, now))

	post, err := repo.GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, []string{"notice"}, post.Tags)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "posts" WHERE id = \$1`).
		WithArgs("missing", 1).
		WillReturnRows(postRows())

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_ListPage(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	now := time.Now()
	tests := []struct {
		name         string
		cursor       *time.Time
		limit        int
		mockBehavior func()
		expectedLen  int
	}{
		{
			name:   "First page fetches limit plus one",
			cursor: nil,
			limit:  2,
			mockBehavior: func() {
				mock.ExpectQuery(`SELECT \* FROM "posts" ORDER BY created_at DESC LIMIT \$1`).
					WithArgs(3).
					WillReturnRows(postRows().
						AddRow("a", "t1", "c1", "Anonymous", "u1", []byte(`[]`), false, now, now).
						AddRow("b", "t2", "c2", "Anonymous", "u1", []byte(`[]`), false, now.Add(-time.Minute), now).
						AddRow("c", "t3", "c3", "Anonymous", "u1", []byte(`[]`), false, now.Add(-2*time.Minute), now))
			},
			expectedLen: 3,
		},
		{
			name:   "Cursor filters older rows",
			cursor: &now,
			limit:  2,
			mockBehavior: func() {
				mock.ExpectQuery(`SELECT \* FROM "posts" WHERE created_at < \$1 ORDER BY created_at DESC LIMIT \$2`).
					WithArgs(now, 3).
					WillReturnRows(postRows().
						AddRow("b", "t2", "c2", "Anonymous", "u1", []byte(`[]`), false, now.Add(-time.Minute), now))
			},
			expectedLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			posts, err := repo.ListPage(ctx, tt.cursor, tt.limit)
			require.NoError(t, err)
			assert.Len(t, posts, tt.expectedLen)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostRepository_CommentCounts(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) AS count FROM "comments" WHERE post_id IN \(\$1,\$2\) GROUP BY`).
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "count"}).
			AddRow("a", 3).
			AddRow("b", 1))

	counts, err := repo.CommentCounts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 3, "b": 1}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_LikeCounts_MissingIDsAbsent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT post_id, COUNT\(\*\) AS count FROM "likes" WHERE post_id IN \(\$1,\$2\) GROUP BY`).
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "count"}).AddRow("a", 2))

	counts, err := repo.LikeCounts(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, counts["a"])
	_, present := counts["b"]
	assert.False(t, present, "posts with no likes have no row")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_LikedPostIDs(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT "post_id" FROM "likes" WHERE user_id = \$1 AND post_id IN \(\$2,\$3\)`).
		WithArgs("u1", "a", "b").
		WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow("b"))

	ids, err := repo.LikedPostIDs(context.Background(), "u1", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetLike_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "likes" WHERE post_id = \$1 AND user_id = \$2`).
		WithArgs("a", "u1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "created_at"}))

	_, err := repo.GetLike(context.Background(), "a", "u1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_CountLikes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "likes" WHERE post_id = \$1`).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountLikes(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_IsLiked(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "likes" WHERE post_id = \$1 AND user_id = \$2`).
		WithArgs("a", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	liked, err := repo.IsLiked(context.Background(), "a", "u1")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Update_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "posts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	_, err := repo.Update(context.Background(), "missing", map[string]any{"title": "x"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_Delete_RemovesDependents(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "comments" WHERE post_id = \$1`).
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "likes" WHERE post_id = \$1`).
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "posts" WHERE id = \$1`).
		WithArgs("a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), "a")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
