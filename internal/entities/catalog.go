package entities

import (
	"time"
)

type BookFormat string

const (
	BookFormatEpub BookFormat = "epub"
	BookFormatPDF  BookFormat = "pdf"
	BookFormatBoth BookFormat = "both"
)

type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:120" json:"slug"`
	IconName  string    `gorm:"size:50" json:"iconName,omitempty"`
	BookCount int       `gorm:"default:0" json:"bookCount"` // maintained by the books repository
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"index;size:256" json:"name"`
	Slug      string    `gorm:"uniqueIndex;size:280" json:"slug"`
	Bio       string    `gorm:"type:text" json:"bio,omitempty"`
	PhotoURL  string    `gorm:"size:2048" json:"photoUrl,omitempty"`
	BookCount int       `gorm:"default:0" json:"bookCount"` // maintained by the books repository
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Series struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"index;size:256" json:"name"`
	AuthorID    uint      `gorm:"index" json:"authorId"`
	Author      *Author   `gorm:"foreignKey:AuthorID" json:"-"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CoverURL    string    `gorm:"size:2048" json:"coverUrl,omitempty"`
	TotalBooks  int       `gorm:"default:0" json:"totalBooks"` // maintained by the books repository
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Book struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"index;size:512" json:"title"`
	Slug        string     `gorm:"uniqueIndex;size:520" json:"slug"`
	AuthorID    uint       `gorm:"index" json:"authorId"`
	CategoryID  uint       `gorm:"index" json:"categoryId"`
	Author      *Author    `gorm:"foreignKey:AuthorID" json:"-"`
	Category    *Category  `gorm:"foreignKey:CategoryID" json:"-"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	CoverURL    string     `gorm:"size:2048" json:"coverUrl,omitempty"`
	EpubURL     string     `gorm:"size:2048" json:"epubUrl,omitempty"`
	PdfURL      string     `gorm:"size:2048" json:"pdfUrl,omitempty"`
	AmazonURL   string     `gorm:"size:2048" json:"amazonUrl,omitempty"`
	Format      BookFormat `gorm:"size:10;default:'epub'" json:"format"`
	PageCount   int        `json:"pageCount,omitempty"`
	ISBN        string     `gorm:"index;size:20" json:"isbn,omitempty"`
	PublishYear int        `json:"publishYear,omitempty"`
	Publisher   string     `gorm:"size:256" json:"publisher,omitempty"`
	Language    string     `gorm:"size:10;default:'pt'" json:"language"`
	IsFeatured  bool       `gorm:"default:false" json:"isFeatured"`
	IsNew       bool       `gorm:"default:false" json:"isNew"`
	IsFree      bool       `gorm:"default:false" json:"isFree"`

	// Aggregates maintained by the repository layer, never written directly.
	DownloadCount int     `gorm:"default:0" json:"downloadCount"`
	Rating        float64 `gorm:"default:0" json:"rating"`
	RatingCount   int     `gorm:"default:0" json:"ratingCount"`

	// Series membership, both nil when the book is standalone.
	SeriesID     *uint `gorm:"index" json:"seriesId"`
	VolumeNumber *int  `json:"volumeNumber,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string {
	return "categories"
}

func (Author) TableName() string {
	return "authors"
}

func (Series) TableName() string {
	return "series"
}

func (Book) TableName() string {
	return "books"
}
