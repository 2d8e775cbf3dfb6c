package constructor_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rickb777/date/v2"
	"github.com/rickb777/date/v2/timespan"

	"github.com/on-the-ground/compiled_reflect/constructor"
	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/internal/testdomain"
	"github.com/on-the-ground/compiled_reflect/introspect"
	"github.com/on-the-ground/compiled_reflect/registry"
	"github.com/on-the-ground/compiled_reflect/shared/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoped(t *testing.T, table *introspect.Table) (context.Context, *registry.Registry) {
	t.Helper()
	r := registry.New(registry.WithLogger(logging.NewTest()), registry.WithTable(table))
	ctx, teardown := registry.WithRegistry(context.Background(), r)
	t.Cleanup(func() { teardown() })
	return ctx, r
}

func TestOf1_UnixMilli(t *testing.T) {
	ctx, _ := scoped(t, testdomain.Table())

	fromMillis, err := constructor.Of1[int64, time.Time](ctx)
	require.NoError(t, err)
	assert.True(t, time.UnixMilli(120398120).Equal(fromMillis(120398120)))
}

func TestOf2_BetweenTimes(t *testing.T) {
	ctx, _ := scoped(t, testdomain.Table())
	start := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	between, err := constructor.Of2[time.Time, time.Time, timespan.TimeSpan](ctx)
	require.NoError(t, err)
	assert.Equal(t, timespan.BetweenTimes(start, end), between(start, end))
}

func TestOf3_Date(t *testing.T) {
	ctx, _ := scoped(t, testdomain.Table())

	newDate, err := constructor.Of3[int, time.Month, int, date.Date](ctx)
	require.NoError(t, err)
	assert.Equal(t, date.New(2006, time.January, 2), newDate(2006, time.January, 2))
}

func TestOf4_Page(t *testing.T) {
	ctx, _ := scoped(t, testdomain.Table())
	book := testdomain.SampleBook()

	newPage, err := constructor.Of4[int64, int, string, *testdomain.Book, *testdomain.Page](ctx)
	require.NoError(t, err)

	page := newPage(book.Isbn, 2, "The end", book)
	assert.Equal(t, testdomain.NewPage(book.Isbn, 2, "The end", book), page)
}

func TestOf0_FirstRegisteredWins(t *testing.T) {
	table := introspect.NewTable().MustRegister(
		func() *testdomain.Topic { return testdomain.NewTopic("first") },
		func() *testdomain.Topic { return testdomain.NewTopic("second") },
	)
	ctx, _ := scoped(t, table)

	newTopic, err := constructor.Of0[*testdomain.Topic](ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", newTopic().Name)
}

func TestOf_MissingSignature(t *testing.T) {
	ctx, r := scoped(t, testdomain.Table())

	for range 2 {
		_, err := constructor.Of1[bool, time.Time](ctx)
		assert.True(t, errors.Is(err, errs.ErrConstructorNotFound))
	}
	_, err := constructor.Of2[string, int64, *testdomain.Book](ctx)
	assert.True(t, errors.Is(err, errs.ErrConstructorNotFound))

	_, err = constructor.Of0[*testdomain.Book](ctx)
	assert.True(t, errors.Is(err, errs.ErrConstructorNotFound))

	assert.Zero(t, r.Stats().Constructors)
}

func TestOf_UsesTheContextRegistry(t *testing.T) {
	ctx, _ := scoped(t, introspect.NewTable())

	_, err := constructor.Of1[string, *testdomain.Topic](ctx)
	assert.True(t, errors.Is(err, errs.ErrConstructorNotFound))
}

func TestOf_ConcurrentRequestsShareOneEntry(t *testing.T) {
	ctx, r := scoped(t, testdomain.Table())

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			newTopic, err := constructor.Of1[string, *testdomain.Topic](ctx)
			if assert.NoError(t, err) {
				assert.Equal(t, "Go", newTopic("Go").Name)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, r.Stats().Constructors)
}

func TestFind(t *testing.T) {
	ctx, r := scoped(t, testdomain.Table())
	stringType := reflect.TypeOf("")
	topicType := reflect.TypeOf(&testdomain.Topic{})

	newTopic, err := constructor.Find(ctx, topicType, stringType)
	require.NoError(t, err)
	assert.Equal(t, "func(string) *testdomain.Topic", newTopic.Signature())

	topic, err := newTopic.New("Go")
	require.NoError(t, err)
	assert.Equal(t, "Go", topic.(*testdomain.Topic).Name)

	_, err = newTopic.New()
	assert.True(t, errors.Is(err, errs.ErrArgumentMismatch))
	_, err = newTopic.New(42)
	assert.True(t, errors.Is(err, errs.ErrArgumentMismatch))

	_, err = constructor.Of1[string, *testdomain.Topic](ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Stats().Constructors)
}

func TestFind_RejectsTooManyParams(t *testing.T) {
	ctx, _ := scoped(t, testdomain.Table())
	intType := reflect.TypeOf(0)

	_, err := constructor.Find(ctx, intType, intType, intType, intType, intType, intType)
	assert.True(t, errors.Is(err, errs.ErrNotSupported))

	_, err = constructor.Find(ctx, nil)
	assert.True(t, errors.Is(err, errs.ErrNotSupported))
}
