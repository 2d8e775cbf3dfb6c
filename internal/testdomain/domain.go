// Package testdomain holds the fixture model used across the package tests and the example.
package testdomain

import (
	"time"

	"github.com/rickb777/date/v2"
	"github.com/rickb777/date/v2/timespan"

	"github.com/on-the-ground/compiled_reflect/introspect"
)

const (
	SmallTextLength = 100
	LongTextLength  = 500

	MinIsbn int64 = 1
	MaxIsbn int64 = 9999999999999
)

// Book has Isbn and Name as fields and Author as a property.
type Book struct {
	Pages []*Page
	Name  string
	Isbn  int64

	author string
}

func NewBook(isbn int64, name, author string) *Book {
	return &Book{Isbn: isbn, Name: name, author: author}
}

func (b *Book) Author() string {
	return b.author
}

func (b *Book) SetAuthor(author string) {
	b.author = author
}

// FirstPage returns nil for a book without pages.
func (b *Book) FirstPage() *Page {
	if len(b.Pages) == 0 {
		return nil
	}
	return b.Pages[0]
}

type Page struct {
	Book     *Book
	Text     string
	Subjects []*Topic
	Isbn     int64
	Number   int
}

func NewPage(isbn int64, number int, text string, book *Book) *Page {
	return &Page{Isbn: isbn, Number: number, Text: text, Book: book}
}

type Topic struct {
	Name      string
	Aliases   []*Topic
	SubTopics []*Topic
	Pages     []*Page
}

func NewTopic(name string) *Topic {
	return &Topic{Name: name}
}

// Constructors lists every fixture constructor together with the date and time
// constructors the tests resolve by signature.
func Constructors() []any {
	return []any{
		NewBook,
		NewPage,
		NewTopic,
		time.UnixMilli,
		timespan.BetweenTimes,
		date.New,
	}
}

// Table returns a fresh constructor table holding Constructors.
func Table() *introspect.Table {
	return introspect.NewTable().MustRegister(Constructors()...)
}

// SampleBook builds the book, page and topic graph used by the composition tests.
func SampleBook() *Book {
	book := NewBook(1234567890123, "Such Text", "Me!")
	page := NewPage(book.Isbn, 1, "Once upon a time", book)
	page.Subjects = []*Topic{NewTopic("Test Topic")}
	book.Pages = []*Page{page}
	return book
}
