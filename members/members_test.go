package members_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/expr"
	"github.com/on-the-ground/compiled_reflect/internal/testdomain"
	"github.com/on-the-ground/compiled_reflect/members"
	"github.com/on-the-ground/compiled_reflect/registry"
	"github.com/on-the-ground/compiled_reflect/shared/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type Book = testdomain.Book

type Meta struct {
	Tag string
}

type Inline struct {
	Level int
}

type Wrapped struct {
	*Meta
	Inline
	Count int
}

type Dial struct {
	level int
}

func (d Dial) Level() int { return d.level }

func (d Dial) SetLevel(level int) { d.level = level }

type label string

func (l label) String() string { return string(l) }

func scoped(t *testing.T) (context.Context, *registry.Registry) {
	t.Helper()
	r := registry.New(registry.WithLogger(logging.NewTest()), registry.WithTable(testdomain.Table()))
	ctx, teardown := registry.WithRegistry(context.Background(), r)
	t.Cleanup(func() { teardown() })
	return ctx, r
}

func TestAccessor_BookScenario(t *testing.T) {
	ctx, _ := scoped(t)
	book := testdomain.SampleBook()

	author, err := members.Accessor[*Book, string](ctx, "Author")
	require.NoError(t, err)
	assert.Equal(t, "Me!", author(book))

	setName, err := members.Modifier[*Book, string](ctx, "Name")
	require.NoError(t, err)
	name, err := members.Accessor[*Book, string](ctx, "Name")
	require.NoError(t, err)

	setName(book, "Such Book")
	assert.Equal(t, "Such Book", name(book))
	assert.Equal(t, "Such Book", book.Name)

	_, err = members.Accessor[*Book, string](ctx, "Author5")
	assert.True(t, errors.Is(err, errs.ErrMissingMember))

	_, err = members.Accessor[*Book, int64](ctx, "Author")
	assert.True(t, errors.Is(err, errs.ErrMissingMember))
}

func TestAccessor_FieldsAndProperties(t *testing.T) {
	ctx, _ := scoped(t)
	book := testdomain.SampleBook()
	page := book.Pages[0]

	isbn, err := members.Accessor[*Book, int64](ctx, "Isbn")
	require.NoError(t, err)
	assert.Equal(t, int64(1234567890123), isbn(book))

	owner, err := members.Accessor[*testdomain.Page, *Book](ctx, "Book")
	require.NoError(t, err)
	assert.Same(t, book, owner(page))

	first, err := members.Accessor[*Book, *testdomain.Page](ctx, "FirstPage")
	require.NoError(t, err)
	assert.Same(t, page, first(book))

	topicName, err := members.Accessor[testdomain.Topic, string](ctx, "Name")
	require.NoError(t, err)
	assert.Equal(t, "Test Topic", topicName(*page.Subjects[0]))
}

func TestAccessor_EmbeddedFields(t *testing.T) {
	ctx, _ := scoped(t)
	w := &Wrapped{Meta: &Meta{Tag: "x"}, Inline: Inline{Level: 3}, Count: 7}

	tag, err := members.Accessor[*Wrapped, string](ctx, "Tag")
	require.NoError(t, err)
	level, err := members.Accessor[*Wrapped, int](ctx, "Level")
	require.NoError(t, err)
	count, err := members.Accessor[Wrapped, int](ctx, "Count")
	require.NoError(t, err)

	assert.Equal(t, "x", tag(w))
	assert.Equal(t, 3, level(w))
	assert.Equal(t, 7, count(*w))

	setTag, err := members.Modifier[*Wrapped, string](ctx, "Tag")
	require.NoError(t, err)
	setLevel, err := members.Modifier[*Wrapped, int](ctx, "Level")
	require.NoError(t, err)

	setTag(w, "y")
	setLevel(w, 9)
	assert.Equal(t, "y", w.Tag)
	assert.Equal(t, 9, w.Level)
}

func TestAccessor_InterfaceProperty(t *testing.T) {
	ctx, _ := scoped(t)

	str, err := members.Accessor[fmt.Stringer, string](ctx, "String")
	require.NoError(t, err)
	assert.Equal(t, "hello", str(label("hello")))
}

func TestModifier_Property(t *testing.T) {
	ctx, _ := scoped(t)
	book := testdomain.SampleBook()

	setAuthor, err := members.Modifier[*Book, string](ctx, "Author")
	require.NoError(t, err)
	setAuthor(book, "You")
	assert.Equal(t, "You", book.Author())
}

func TestModifier_ReadOnlyMembers(t *testing.T) {
	ctx, _ := scoped(t)

	_, err := members.Modifier[Book, string](ctx, "Name")
	assert.True(t, errors.Is(err, errs.ErrNotSupported))

	_, err = members.Modifier[*Book, *testdomain.Page](ctx, "FirstPage")
	assert.True(t, errors.Is(err, errs.ErrNotSupported))

	_, err = members.Modifier[*Book, string](ctx, "Nope")
	assert.True(t, errors.Is(err, errs.ErrMissingMember))

	_, err = members.Modifier[*Book, string](ctx, "author")
	assert.True(t, errors.Is(err, errs.ErrMissingMember))

	_, err = members.Modifier[Dial, int](ctx, "Level")
	assert.True(t, errors.Is(err, errs.ErrNotSupported))

	_, err = members.UntypedModifier(ctx, reflect.TypeOf(Dial{}), "Level", nil)
	assert.True(t, errors.Is(err, errs.ErrNotSupported))
}

func TestModifier_WrongValueType(t *testing.T) {
	ctx, r := scoped(t)

	_, err := members.Modifier[*Book, int64](ctx, "Name")
	assert.True(t, errors.Is(err, errs.ErrMissingMember))

	_, err = members.Modifier[*Book, int](ctx, "Author")
	assert.True(t, errors.Is(err, errs.ErrMissingMember))

	assert.Zero(t, r.Stats().Modifiers)
}

func TestModifier_CachesOneCanonicalEntry(t *testing.T) {
	ctx, r := scoped(t)

	var wg sync.WaitGroup
	books := make([]*Book, 64)
	for i := range books {
		books[i] = testdomain.SampleBook()
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			setName, err := members.Modifier[*Book, string](ctx, "Name")
			if assert.NoError(t, err) {
				setName(books[i], fmt.Sprintf("edition %d", i))
			}
		}(i)
	}
	wg.Wait()

	for i, b := range books {
		assert.Equal(t, fmt.Sprintf("edition %d", i), b.Name)
	}
	assert.Equal(t, 1, r.Stats().Modifiers)
	assert.Zero(t, r.Stats().Accessors)
}

func TestAccessor_CachesOneCanonicalEntry(t *testing.T) {
	ctx, r := scoped(t)
	book := testdomain.SampleBook()

	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			author, err := members.Accessor[*Book, string](ctx, "Author")
			if assert.NoError(t, err) {
				results[i] = author(book)
			}
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, "Me!", got)
	}
	assert.Equal(t, 1, r.Stats().Accessors)
}

func TestAccessor_FailuresAreNotCached(t *testing.T) {
	ctx, r := scoped(t)

	for range 3 {
		_, err := members.Accessor[*Book, string](ctx, "Author5")
		assert.True(t, errors.Is(err, errs.ErrMissingMember))
	}
	assert.Zero(t, r.Stats().Accessors)
}

func TestAccessor_RegistriesAreIsolated(t *testing.T) {
	ctx1, r1 := scoped(t)
	ctx2, r2 := scoped(t)

	_, err := members.Accessor[*Book, string](ctx1, "Name")
	require.NoError(t, err)

	assert.Equal(t, 1, r1.Stats().Accessors)
	assert.Zero(t, r2.Stats().Accessors)

	_, err = members.Accessor[*Book, string](ctx2, "Name")
	require.NoError(t, err)
	assert.Equal(t, 1, r2.Stats().Accessors)
}

func TestResolve(t *testing.T) {
	ctx, _ := scoped(t)
	bookType := reflect.TypeOf(&Book{})

	m, err := members.Resolve(ctx, bookType, "Author", nil)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), m.Type)

	_, err = members.Resolve(ctx, bookType, "Author", reflect.TypeOf(int64(0)))
	assert.True(t, errors.Is(err, errs.ErrMissingMember))

	_, err = members.Resolve(ctx, nil, "Author", nil)
	assert.True(t, errors.Is(err, errs.ErrMissingMember))
}

func TestAccessorLambda_Composes(t *testing.T) {
	ctx, _ := scoped(t)
	book := testdomain.SampleBook()

	first, err := members.AccessorLambda[*Book, *testdomain.Page](ctx, "FirstPage")
	require.NoError(t, err)
	owner, err := members.AccessorLambda[*testdomain.Page, *Book](ctx, "Book")
	require.NoError(t, err)
	author, err := members.AccessorLambda[*Book, string](ctx, "Author")
	require.NoError(t, err)

	chain, err := expr.ConcatMapping(first, owner)
	require.NoError(t, err)
	full, err := expr.ConcatMapping(chain, author)
	require.NoError(t, err)

	fn, err := full.Compile()
	require.NoError(t, err)
	assert.Equal(t, "Me!", fn(book))

	_, err = members.AccessorLambda[*Book, int](ctx, "Author")
	assert.True(t, errors.Is(err, errs.ErrMissingMember))
}

func TestUntyped_GetAndSet(t *testing.T) {
	ctx, _ := scoped(t)
	book := testdomain.SampleBook()

	got, err := members.Get(ctx, book, "Author")
	require.NoError(t, err)
	assert.Equal(t, "Me!", got)

	require.NoError(t, members.Set(ctx, book, "Name", "Such Book"))
	assert.Equal(t, "Such Book", book.Name)

	require.NoError(t, members.Set(ctx, book, "Pages", nil))
	assert.Nil(t, book.Pages)

	err = members.Set(ctx, book, "Name", 42)
	assert.True(t, errors.Is(err, errs.ErrArgumentMismatch))

	err = members.Set(ctx, *book, "Name", "copy")
	assert.True(t, errors.Is(err, errs.ErrNotSupported))

	_, err = members.Get(ctx, nil, "Name")
	assert.True(t, errors.Is(err, errs.ErrMissingMember))
}

func TestUntypedAccessor_ChecksInstances(t *testing.T) {
	ctx, _ := scoped(t)

	read, err := members.UntypedAccessor(ctx, reflect.TypeOf(&Book{}), "Name", reflect.TypeOf(""))
	require.NoError(t, err)

	_, err = read(testdomain.NewTopic("not a book"))
	assert.True(t, errors.Is(err, errs.ErrArgumentMismatch))

	_, err = read((*Book)(nil))
	assert.True(t, errors.Is(err, errs.ErrArgumentMismatch))

	_, err = read(nil)
	assert.True(t, errors.Is(err, errs.ErrArgumentMismatch))

	tag, err := members.UntypedAccessor(ctx, reflect.TypeOf(&Wrapped{}), "Tag", nil)
	require.NoError(t, err)
	_, err = tag(&Wrapped{})
	assert.True(t, errors.Is(err, errs.ErrArgumentMismatch))
}

func TestUntypedModifier_Property(t *testing.T) {
	ctx, _ := scoped(t)
	book := testdomain.SampleBook()

	write, err := members.UntypedModifier(ctx, reflect.TypeOf(book), "Author", reflect.TypeOf(""))
	require.NoError(t, err)
	require.NoError(t, write(book, "Someone"))
	assert.Equal(t, "Someone", book.Author())
}

func TestPrepare_AggregatesFailures(t *testing.T) {
	ctx, r := scoped(t)

	err := members.Prepare(ctx, reflect.TypeOf(&Book{}), "Name", "Missing", "Author", "Other")
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, errors.Is(err, errs.ErrMissingMember))
	assert.Equal(t, 2, r.Stats().Accessors)

	assert.NoError(t, members.Prepare(ctx, reflect.TypeOf(&Book{}), "Isbn", "Pages"))
}
