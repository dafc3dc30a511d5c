package history

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"estante/internal/database"
	"estante/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_history_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Author{},
		&entities.Book{},
		&entities.ReadingHistory{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createFixtures(t *testing.T, db *gorm.DB) (*entities.User, *entities.Book) {
	user := &entities.User{Username: "leitora", Email: "leitora@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)

	author := &entities.Author{Name: "Autora X", Slug: "autora-x"}
	require.NoError(t, db.Create(author).Error)
	category := &entities.Category{Name: "Ficção", Slug: "ficcao"}
	require.NoError(t, db.Create(category).Error)
	book := &entities.Book{Title: "Livro", Slug: "livro", AuthorID: author.ID, CategoryID: category.ID}
	require.NoError(t, db.Create(book).Error)

	return user, book
}

func TestRepository_Upsert_CreatesThenUpdates(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)

	page, total, progress := 10, 200, 5
	entry, err := repo.Upsert(user.ID, book.ID, UpsertParams{
		CurrentPage: &page,
		TotalPages:  &total,
		Progress:    &progress,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, entry.CurrentPage)
	assert.Equal(t, 5, entry.Progress)
	assert.False(t, entry.LastReadAt.IsZero())

	// Second upsert for the same pair updates in place
	page, progress = 100, 50
	done := false
	updated, err := repo.Upsert(user.ID, book.ID, UpsertParams{
		CurrentPage: &page,
		Progress:    &progress,
		IsCompleted: &done,
	})
	require.NoError(t, err)
	assert.Equal(t, entry.ID, updated.ID, "same row, not a new one")
	assert.Equal(t, 100, updated.CurrentPage)
	assert.Equal(t, 50, updated.Progress)
	assert.Equal(t, 200, updated.TotalPages, "unsent fields keep their value")

	var count int64
	db.Model(&entities.ReadingHistory{}).Where("user_id = ? AND book_id = ?", user.ID, book.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRepository_Upsert_MissingBook(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, _ := createFixtures(t, db)

	_, err := repo.Upsert(user.ID, 999, UpsertParams{})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_GetForBook(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)

	_, err := repo.GetForBook(user.ID, book.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	progress := 30
	_, err = repo.Upsert(user.ID, book.ID, UpsertParams{Progress: &progress})
	require.NoError(t, err)

	entry, err := repo.GetForBook(user.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, entry.Progress)
}

func TestRepository_ListForUser_MostRecentFirst(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)

	second := &entities.Book{Title: "Outro", Slug: "outro", AuthorID: book.AuthorID, CategoryID: book.CategoryID}
	require.NoError(t, db.Create(second).Error)

	progress := 10
	_, err := repo.Upsert(user.ID, book.ID, UpsertParams{Progress: &progress})
	require.NoError(t, err)
	_, err = repo.Upsert(user.ID, second.ID, UpsertParams{Progress: &progress})
	require.NoError(t, err)

	list, err := repo.ListForUser(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].BookID, "most recently read first")
}
