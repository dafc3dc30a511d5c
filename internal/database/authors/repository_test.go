package authors

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
	dbPath := "./test_authors_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Category{},
		&entities.Series{},
		&entities.Book{},
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

func TestRepository_Create_GeneratesSlug(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := &entities.Author{Name: "José de Alencar"}
	require.NoError(t, repo.Create(author))
	assert.Equal(t, "jose-de-alencar", author.Slug)

	stored, err := repo.GetBySlug("jose-de-alencar")
	require.NoError(t, err)
	assert.Equal(t, author.ID, stored.ID)
}

func TestRepository_Create_DuplicateSlug(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Author{Name: "Machado de Assis"}))

	err := repo.Create(&entities.Author{Name: "Machado de Assis"})
	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestRepository_Update_Partial(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := &entities.Author{Name: "Clarice", Bio: "Romancista"}
	require.NoError(t, repo.Create(author))

	bio := "Romancista e contista"
	updated, err := repo.Update(author.ID, UpdateParams{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Romancista e contista", updated.Bio)
	assert.Equal(t, "Clarice", updated.Name)
	assert.Equal(t, "clarice", updated.Slug, "unsent slug stays")
}

func TestRepository_Update_SlugConflict(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(&entities.Author{Name: "Primeira", Slug: "primeira"}))
	second := &entities.Author{Name: "Segunda", Slug: "segunda"}
	require.NoError(t, repo.Create(second))

	taken := "primeira"
	_, err := repo.Update(second.ID, UpdateParams{Slug: &taken})
	assert.ErrorIs(t, err, database.ErrConflict)
}

func TestRepository_Delete_BlockedWhileBooksRemain(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := &entities.Author{Name: "Autora"}
	require.NoError(t, repo.Create(author))
	category := &entities.Category{Name: "Ficção", Slug: "ficcao"}
	require.NoError(t, db.Create(category).Error)
	require.NoError(t, db.Create(&entities.Book{
		Title: "Livro", Slug: "livro", AuthorID: author.ID, CategoryID: category.ID,
	}).Error)

	err := repo.Delete(author.ID)
	assert.ErrorIs(t, err, database.ErrInUse)

	_, err = repo.GetByID(author.ID)
	assert.NoError(t, err)
}

func TestRepository_Delete_RemovesOwnedSeries(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := &entities.Author{Name: "Autora"}
	require.NoError(t, repo.Create(author))
	series := &entities.Series{Name: "Saga", AuthorID: author.ID}
	require.NoError(t, db.Create(series).Error)

	require.NoError(t, repo.Delete(author.ID))

	_, err := repo.GetByID(author.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	var remaining int64
	db.Model(&entities.Series{}).Where("author_id = ?", author.ID).Count(&remaining)
	assert.Zero(t, remaining)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete(999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
