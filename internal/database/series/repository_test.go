package series

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
	dbPath := "./test_series_" + t.Name() + ".db"

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

func createAuthor(t *testing.T, db *gorm.DB, name, slug string) *entities.Author {
	author := &entities.Author{Name: name, Slug: slug}
	require.NoError(t, db.Create(author).Error)
	return author
}

func TestRepository_Create_RequiresAuthor(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, db, "Autora", "autora")

	s := &entities.Series{Name: "Saga", AuthorID: author.ID}
	require.NoError(t, repo.Create(s))
	assert.NotZero(t, s.ID)

	err := repo.Create(&entities.Series{Name: "Órfã", AuthorID: 999})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_Update_Partial(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, db, "Autora", "autora")
	s := &entities.Series{Name: "Saga", AuthorID: author.ID, Description: "Primeira fase"}
	require.NoError(t, repo.Create(s))

	name := "Saga Completa"
	updated, err := repo.Update(s.ID, UpdateParams{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Saga Completa", updated.Name)
	assert.Equal(t, "Primeira fase", updated.Description, "unsent fields stay")
	assert.Equal(t, author.ID, updated.AuthorID)
}

func TestRepository_Update_MissingAuthor(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, db, "Autora", "autora")
	s := &entities.Series{Name: "Saga", AuthorID: author.ID}
	require.NoError(t, repo.Create(s))

	missing := uint(999)
	_, err := repo.Update(s.ID, UpdateParams{AuthorID: &missing})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_Delete_DetachesBooks(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createAuthor(t, db, "Autora", "autora")
	category := &entities.Category{Name: "Ficção", Slug: "ficcao"}
	require.NoError(t, db.Create(category).Error)

	s := &entities.Series{Name: "Saga", AuthorID: author.ID}
	require.NoError(t, repo.Create(s))

	volume := 1
	book := &entities.Book{
		Title: "Volume Um", Slug: "volume-um",
		AuthorID: author.ID, CategoryID: category.ID,
		SeriesID: &s.ID, VolumeNumber: &volume,
	}
	require.NoError(t, db.Create(book).Error)

	require.NoError(t, repo.Delete(s.ID))

	_, err := repo.GetByID(s.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	// The book survives, detached
	var stored entities.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
	assert.Nil(t, stored.SeriesID)
	assert.Nil(t, stored.VolumeNumber)
}

func TestRepository_GetByAuthor(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	first := createAuthor(t, db, "Primeira", "primeira")
	second := createAuthor(t, db, "Segunda", "segunda")

	require.NoError(t, repo.Create(&entities.Series{Name: "Saga A", AuthorID: first.ID}))
	require.NoError(t, repo.Create(&entities.Series{Name: "Saga B", AuthorID: first.ID}))
	require.NoError(t, repo.Create(&entities.Series{Name: "Saga C", AuthorID: second.ID}))

	owned, err := repo.GetByAuthor(first.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	owned, err = repo.GetByAuthor(second.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, "Saga C", owned[0].Name)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete(999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
