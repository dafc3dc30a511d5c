package favorites

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
	dbPath := "./test_favorites_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Author{},
		&entities.Book{},
		&entities.Favorite{},
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

func createFixtures(t *testing.T, db *gorm.DB) (userA, userB *entities.User, book *entities.Book) {
	userA = &entities.User{Username: "ana", Email: "ana@example.com", PasswordHash: "x"}
	userB = &entities.User{Username: "bruno", Email: "bruno@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(userA).Error)
	require.NoError(t, db.Create(userB).Error)

	author := &entities.Author{Name: "Autora X", Slug: "autora-x"}
	require.NoError(t, db.Create(author).Error)
	category := &entities.Category{Name: "Ficção", Slug: "ficcao"}
	require.NoError(t, db.Create(category).Error)
	book = &entities.Book{Title: "Livro", Slug: "livro", AuthorID: author.ID, CategoryID: category.ID}
	require.NoError(t, db.Create(book).Error)

	return userA, userB, book
}

func TestRepository_Add(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	userA, _, book := createFixtures(t, db)

	favorite, err := repo.Add(userA.ID, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, favorite.BookID)
}

func TestRepository_Add_Duplicate(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	userA, _, book := createFixtures(t, db)

	_, err := repo.Add(userA.ID, book.ID)
	require.NoError(t, err)

	_, err = repo.Add(userA.ID, book.ID)
	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestRepository_Add_ExistingRowMapsToConflict(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	userA, _, book := createFixtures(t, db)

	// A pair inserted behind the repository's back, as a concurrent add
	// would, still comes back as ErrConflict via the unique index.
	require.NoError(t, db.Create(&entities.Favorite{UserID: userA.ID, BookID: book.ID}).Error)

	_, err := repo.Add(userA.ID, book.ID)
	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestRepository_Add_MissingBook(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	userA, _, _ := createFixtures(t, db)

	_, err := repo.Add(userA.ID, 999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_IsFavorite_ScopedPerUser(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	userA, userB, book := createFixtures(t, db)

	_, err := repo.Add(userA.ID, book.ID)
	require.NoError(t, err)

	forA, err := repo.IsFavorite(userA.ID, book.ID)
	require.NoError(t, err)
	assert.True(t, forA)

	forB, err := repo.IsFavorite(userB.ID, book.ID)
	require.NoError(t, err)
	assert.False(t, forB)
}

func TestRepository_Remove_SecondAttemptNotFound(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	userA, _, book := createFixtures(t, db)

	_, err := repo.Add(userA.ID, book.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Remove(userA.ID, book.ID))

	err = repo.Remove(userA.ID, book.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_ListForUser_PreloadsBook(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	userA, userB, book := createFixtures(t, db)

	_, err := repo.Add(userA.ID, book.ID)
	require.NoError(t, err)

	list, err := repo.ListForUser(userA.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Book)
	assert.Equal(t, "Livro", list[0].Book.Title)
	require.NotNil(t, list[0].Book.Author, "book relations are preloaded")

	other, err := repo.ListForUser(userB.ID)
	require.NoError(t, err)
	assert.Empty(t, other)
}
