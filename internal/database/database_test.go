package database

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estante/internal/config"
	"estante/internal/entities"
)

func setupDatabase(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := "./test_database_" + t.Name() + ".db"

	db, err := NewDatabase(context.Background(), config.Database{
		Driver: config.DriverSQLite,
		Path:   dbPath,
	})
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase_MigratesAndSeedsSettings(t *testing.T) {
	db, cleanup := setupDatabase(t)
	defer cleanup()

	require.NoError(t, db.Ping(context.Background()))

	var settings entities.SiteSettings
	require.NoError(t, db.DB.First(&settings).Error)
	assert.Equal(t, "Estante Digital", settings.SiteName)
	assert.True(t, settings.AllowRegistration)

	// Seeding only happens on an empty table
	var count int64
	db.DB.Model(&entities.SiteSettings{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNewDatabase_PostgresRequiresURL(t *testing.T) {
	_, err := NewDatabase(context.Background(), config.Database{
		Driver: config.DriverPostgres,
	})
	assert.Error(t, err)
}

func TestDatabase_CollectStats(t *testing.T) {
	db, cleanup := setupDatabase(t)
	defer cleanup()

	author := entities.Author{Name: "Autora", Slug: "autora"}
	require.NoError(t, db.DB.Create(&author).Error)
	category := entities.Category{Name: "Ficção", Slug: "ficcao"}
	require.NoError(t, db.DB.Create(&category).Error)
	require.NoError(t, db.DB.Create(&entities.Book{
		Title: "Livro", Slug: "livro",
		AuthorID: author.ID, CategoryID: category.ID,
		DownloadCount: 3,
	}).Error)
	require.NoError(t, db.DB.Create(&entities.Book{
		Title: "Outro", Slug: "outro",
		AuthorID: author.ID, CategoryID: category.ID,
		DownloadCount: 2,
	}).Error)

	user := entities.User{Username: "ana", Email: "ana@example.com", PasswordHash: "x", Role: entities.UserRoleUser}
	require.NoError(t, db.DB.Create(&user).Error)
	require.NoError(t, db.DB.Create(&entities.Comment{
		UserID: user.ID, BookID: 1, Content: "Aguardando", IsApproved: false,
	}).Error)

	stats, err := db.CollectStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Books)
	assert.Equal(t, int64(1), stats.Authors)
	assert.Equal(t, int64(1), stats.Categories)
	assert.Equal(t, int64(1), stats.Users)
	assert.Equal(t, int64(1), stats.PendingComments)
	assert.Equal(t, int64(5), stats.TotalDownloads)
}
