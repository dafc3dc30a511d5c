package comments

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
	dbPath := "./test_comments_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Author{},
		&entities.Book{},
		&entities.Comment{},
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

func bookRating(t *testing.T, db *gorm.DB, id uint) (float64, int) {
	var book entities.Book
	require.NoError(t, db.First(&book, id).Error)
	return book.Rating, book.RatingCount
}

func TestRepository_Create_StartsUnapproved(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)

	rating := 4
	comment := &entities.Comment{
		UserID:     user.ID,
		BookID:     book.ID,
		Content:    "Excelente",
		Rating:     &rating,
		IsApproved: true, // client cannot pre-approve
	}
	require.NoError(t, repo.Create(comment))

	assert.False(t, comment.IsApproved)

	// Unapproved, so the book rating is untouched
	rated, count := bookRating(t, db, book.ID)
	assert.Zero(t, rated)
	assert.Zero(t, count)
}

func TestRepository_Create_MissingBook(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, _ := createFixtures(t, db)

	err := repo.Create(&entities.Comment{UserID: user.ID, BookID: 999, Content: "Oi"})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_Approve_RecomputesRating(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)

	four := 4
	first := &entities.Comment{UserID: user.ID, BookID: book.ID, Content: "Bom", Rating: &four}
	require.NoError(t, repo.Create(first))

	_, err := repo.Approve(first.ID)
	require.NoError(t, err)

	rating, count := bookRating(t, db, book.ID)
	assert.Equal(t, 4.0, rating)
	assert.Equal(t, 1, count)

	two := 2
	second := &entities.Comment{UserID: user.ID, BookID: book.ID, Content: "Fraco", Rating: &two}
	require.NoError(t, repo.Create(second))
	_, err = repo.Approve(second.ID)
	require.NoError(t, err)

	rating, count = bookRating(t, db, book.ID)
	assert.Equal(t, 3.0, rating)
	assert.Equal(t, 2, count)
}

func TestRepository_Approve_UnratedCommentLeavesRating(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)

	comment := &entities.Comment{UserID: user.ID, BookID: book.ID, Content: "Sem nota"}
	require.NoError(t, repo.Create(comment))

	approved, err := repo.Approve(comment.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)

	rating, count := bookRating(t, db, book.ID)
	assert.Zero(t, rating)
	assert.Zero(t, count)
}

func TestRepository_Delete_ApprovedRatedRecomputes(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)

	four, two := 4, 2
	first := &entities.Comment{UserID: user.ID, BookID: book.ID, Content: "Bom", Rating: &four}
	second := &entities.Comment{UserID: user.ID, BookID: book.ID, Content: "Fraco", Rating: &two}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	_, err := repo.Approve(first.ID)
	require.NoError(t, err)
	_, err = repo.Approve(second.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(second.ID))

	rating, count := bookRating(t, db, book.ID)
	assert.Equal(t, 4.0, rating)
	assert.Equal(t, 1, count)

	// Removing the last rated comment resets the aggregate
	require.NoError(t, repo.Delete(first.ID))
	rating, count = bookRating(t, db, book.ID)
	assert.Zero(t, rating)
	assert.Zero(t, count)
}

func TestRepository_Delete_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Delete(999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_ListApprovedForBook(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)

	visible := &entities.Comment{UserID: user.ID, BookID: book.ID, Content: "Aprovado"}
	hidden := &entities.Comment{UserID: user.ID, BookID: book.ID, Content: "Pendente"}
	require.NoError(t, repo.Create(visible))
	require.NoError(t, repo.Create(hidden))
	_, err := repo.Approve(visible.ID)
	require.NoError(t, err)

	list, err := repo.ListApprovedForBook(book.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Aprovado", list[0].Content)
	require.NotNil(t, list[0].User, "commenter is preloaded")
	assert.Equal(t, "leitora", list[0].User.Username)
}

func TestRepository_ListAll_ApprovalFilter(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)

	approved := &entities.Comment{UserID: user.ID, BookID: book.ID, Content: "Aprovado"}
	pending := &entities.Comment{UserID: user.ID, BookID: book.ID, Content: "Pendente"}
	require.NoError(t, repo.Create(approved))
	require.NoError(t, repo.Create(pending))
	_, err := repo.Approve(approved.ID)
	require.NoError(t, err)

	all, err := repo.ListAll(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	wantPending := false
	list, err := repo.ListAll(&wantPending)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Pendente", list[0].Content)
}

func TestRepository_IncrementHelpfulCount(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	user, book := createFixtures(t, db)

	comment := &entities.Comment{UserID: user.ID, BookID: book.ID, Content: "Útil"}
	require.NoError(t, repo.Create(comment))

	require.NoError(t, repo.IncrementHelpfulCount(comment.ID))
	require.NoError(t, repo.IncrementHelpfulCount(comment.ID))

	var stored entities.Comment
	require.NoError(t, db.First(&stored, comment.ID).Error)
	assert.Equal(t, 2, stored.HelpfulCount)

	err := repo.IncrementHelpfulCount(999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}
