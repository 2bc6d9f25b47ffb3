package data

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/memebin/memebin/internal/meme/biz"
	"github.com/memebin/memebin/internal/pkg/database"
	"github.com/memebin/memebin/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupRepo(t *testing.T) biz.MemeRepo {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&MemePO{}))

	return NewMemeRepo(database.NewFromGorm(gdb, logger.NewNop()))
}

func seedMeme(t *testing.T, repo biz.MemeRepo, title, content, key, etag string) *biz.Meme {
	t.Helper()
	meme, err := repo.Create(context.Background(), &biz.Meme{
		Title:     title,
		Content:   content,
		ObjectKey: key,
		URL:       "http://storage.local/memes/" + key,
		ETag:      etag,
	})
	require.NoError(t, err)
	return meme
}

func str(s string) *string { return &s }

func TestMemeRepo_FindBy(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created := seedMeme(t, repo, "cat", "meow", "cat.jpg", "etag-1")

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindBy(ctx, map[string]interface{}{"id": created.ID})
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "cat", found.Title)
		assert.Equal(t, "meow", found.Content)
		assert.Equal(t, "cat.jpg", found.ObjectKey)
		assert.Equal(t, "etag-1", found.ETag)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.FindBy(ctx, map[string]interface{}{"id": int64(999)})
		assert.ErrorIs(t, err, biz.ErrMemeNotFound)
	})

	t.Run("multiple matches", func(t *testing.T) {
		seedMeme(t, repo, "cat", "", "cat2.jpg", "etag-2")

		_, err := repo.FindBy(ctx, map[string]interface{}{"title": "cat"})
		assert.ErrorIs(t, err, biz.ErrMultipleMemesFound)
	})

	t.Run("only unknown columns", func(t *testing.T) {
		// must not widen into an unfiltered scan that matches everything
		_, err := repo.FindBy(ctx, map[string]interface{}{"bogus": "x"})
		assert.ErrorIs(t, err, biz.ErrMemeNotFound)
	})

	t.Run("unknown columns are ignored", func(t *testing.T) {
		found, err := repo.FindBy(ctx, map[string]interface{}{
			"id":       created.ID,
			"nonsense": "value",
		})
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})
}

func TestMemeRepo_CreateIgnoresCallerID(t *testing.T) {
	repo := setupRepo(t)

	created, err := repo.Create(context.Background(), &biz.Meme{
		ID:        777,
		Title:     "cat",
		ObjectKey: "cat.jpg",
		ETag:      "etag-1",
	})
	require.NoError(t, err)
	assert.NotEqual(t, int64(777), created.ID)
	assert.Equal(t, int64(1), created.ID)
}

func TestMemeRepo_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("partial leaves absent fields intact", func(t *testing.T) {
		repo := setupRepo(t)
		created := seedMeme(t, repo, "cat", "meow", "cat.jpg", "etag-1")

		updated, err := repo.Upsert(ctx,
			map[string]interface{}{"id": created.ID},
			biz.MemeFields{Title: str("better cat")},
			true,
		)
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "better cat", updated.Title)
		assert.Equal(t, "meow", updated.Content)
		assert.Equal(t, "cat.jpg", updated.ObjectKey)
		assert.Equal(t, "etag-1", updated.ETag)
	})

	t.Run("full update resets absent fields", func(t *testing.T) {
		repo := setupRepo(t)
		created := seedMeme(t, repo, "cat", "meow", "cat.jpg", "etag-1")

		updated, err := repo.Upsert(ctx,
			map[string]interface{}{"id": created.ID},
			biz.MemeFields{
				Title:     str("cat v2"),
				ObjectKey: str("cat2.jpg"),
				URL:       str("http://storage.local/memes/cat2.jpg"),
				ETag:      str("etag-2"),
			},
			false,
		)
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID, "primary key survives a full update")
		assert.Equal(t, "cat v2", updated.Title)
		assert.Empty(t, updated.Content, "absent content is cleared")
		assert.Equal(t, "cat2.jpg", updated.ObjectKey)
		assert.Equal(t, "etag-2", updated.ETag)
	})

	t.Run("creates when no row matches", func(t *testing.T) {
		repo := setupRepo(t)

		created, err := repo.Upsert(ctx,
			map[string]interface{}{"id": int64(42)},
			biz.MemeFields{
				Title:     str("fresh"),
				ObjectKey: str("fresh.jpg"),
				ETag:      str("etag-9"),
			},
			false,
		)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "fresh", created.Title)

		found, err := repo.FindBy(ctx, map[string]interface{}{"id": created.ID})
		require.NoError(t, err)
		assert.Equal(t, "etag-9", found.ETag)
	})
}

func TestMemeRepo_DeleteBy(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created := seedMeme(t, repo, "cat", "", "cat.jpg", "etag-1")

	require.NoError(t, repo.DeleteBy(ctx, map[string]interface{}{"id": created.ID}))

	_, err := repo.FindBy(ctx, map[string]interface{}{"id": created.ID})
	assert.ErrorIs(t, err, biz.ErrMemeNotFound)

	// deleting again is not an error
	assert.NoError(t, repo.DeleteBy(ctx, map[string]interface{}{"id": created.ID}))
}

func TestMemeRepo_DeleteByUnknownFilterIsNoop(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	seedMeme(t, repo, "cat", "", "cat.jpg", "etag-1")

	// a filter with no usable column must not delete everything
	require.NoError(t, repo.DeleteBy(ctx, map[string]interface{}{"bogus": "x"}))

	_, total, err := repo.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestMemePOColumnNames(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&MemePO{}))

	// the raw etag predicates depend on these exact column names
	migrator := gdb.Migrator()
	for _, col := range append([]string{"id"}, memeColumns...) {
		assert.True(t, migrator.HasColumn(&MemePO{}, col), "column %q missing", col)
	}
}

func TestMemeRepo_CountOthersByETag(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first := seedMeme(t, repo, "first", "", "a.jpg", "shared")
	seedMeme(t, repo, "second", "", "b.jpg", "shared")
	seedMeme(t, repo, "third", "", "c.jpg", "unique")

	count, err := repo.CountOthersByETag(ctx, "shared", first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "the acted-upon row does not count itself")

	count, err = repo.CountOthersByETag(ctx, "unique", first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountOthersByETag(ctx, "missing", first.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMemeRepo_ListPagination(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for i := 0; i < 51; i++ {
		seedMeme(t, repo, fmt.Sprintf("meme-%02d", i), "", fmt.Sprintf("m%02d.jpg", i), fmt.Sprintf("etag-%02d", i))
	}

	page1, total, err := repo.List(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(51), total)
	require.Len(t, page1, 50)
	assert.Equal(t, "meme-00", page1[0].Title, "rows come back in id order")

	page2, total, err := repo.List(ctx, 2, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(51), total)
	require.Len(t, page2, 1)
	assert.Equal(t, "meme-50", page2[0].Title)

	empty, _, err := repo.List(ctx, 3, 50)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
