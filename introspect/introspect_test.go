package introspect_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/on-the-ground/compiled_reflect/errs"
	"github.com/on-the-ground/compiled_reflect/internal/testdomain"
	"github.com/on-the-ground/compiled_reflect/introspect"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Inner struct {
	Depth int
}

type outerValue struct {
	Inner
	Label string
	Ptr   *Inner
}

type viaPointerEmbed struct {
	*Inner
}

func (o outerValue) Title() string {
	return o.Label
}

type Shape interface {
	Area() float64
}

func TestReflection_FieldOnPointer(t *testing.T) {
	r := introspect.NewReflection(nil)
	members := r.Members(reflect.TypeOf(&testdomain.Book{}), "Name")

	require.Len(t, members, 1)
	m := members[0]
	assert.Equal(t, introspect.Field, m.Kind)
	assert.Equal(t, reflect.TypeOf(""), m.Type)
	assert.True(t, m.Direct)
	assert.True(t, m.ViaPointer)
	assert.True(t, m.Writable())
}

func TestReflection_Property(t *testing.T) {
	r := introspect.NewReflection(nil)
	members := r.Members(reflect.TypeOf(&testdomain.Book{}), "Author")

	require.Len(t, members, 1)
	m := members[0]
	assert.Equal(t, introspect.Property, m.Kind)
	assert.Equal(t, reflect.TypeOf(""), m.Type)
	assert.True(t, m.HasSetter)
	assert.True(t, m.Writable())
}

func TestReflection_PropertyWithoutSetterIsReadOnly(t *testing.T) {
	r := introspect.NewReflection(nil)
	members := r.Members(reflect.TypeOf(outerValue{}), "Title")

	require.Len(t, members, 1)
	assert.Equal(t, introspect.Property, members[0].Kind)
	assert.False(t, members[0].Writable())
}

type gauge struct {
	level int
}

func (g gauge) Level() int { return g.level }

func (g gauge) SetLevel(level int) { g.level = level }

func TestReflection_ValueReceiverSetterOnValueIsReadOnly(t *testing.T) {
	r := introspect.NewReflection(nil)

	members := r.Members(reflect.TypeOf(gauge{}), "Level")
	require.Len(t, members, 1)
	assert.True(t, members[0].HasSetter)
	assert.False(t, members[0].Writable())

	members = r.Members(reflect.TypeOf(&gauge{}), "Level")
	require.Len(t, members, 1)
	assert.True(t, members[0].Writable())
}

func TestReflection_PromotedFieldOffsets(t *testing.T) {
	r := introspect.NewReflection(nil)

	members := r.Members(reflect.TypeOf(outerValue{}), "Depth")
	require.Len(t, members, 1)
	assert.True(t, members[0].Direct)
	assert.False(t, members[0].Writable())
	assert.Equal(t, []int{0, 0}, members[0].Index)

	members = r.Members(reflect.TypeOf(&viaPointerEmbed{}), "Depth")
	require.Len(t, members, 1)
	assert.False(t, members[0].Direct)
}

func TestReflection_UnknownAndUnexported(t *testing.T) {
	r := introspect.NewReflection(nil)
	bookType := reflect.TypeOf(&testdomain.Book{})

	assert.Empty(t, r.Members(bookType, "Author5"))
	assert.Empty(t, r.Members(bookType, "author"))
	assert.Empty(t, r.Members(bookType, ""))
	assert.Empty(t, r.Members(nil, "Name"))
}

func TestReflection_InterfaceProperty(t *testing.T) {
	r := introspect.NewReflection(nil)
	members := r.Members(reflect.TypeOf((*Shape)(nil)).Elem(), "Area")

	require.Len(t, members, 1)
	assert.Equal(t, reflect.TypeOf(float64(0)), members[0].Type)
}

func TestTable_RegisterAndOrder(t *testing.T) {
	first := func(n int64) *testdomain.Book { return &testdomain.Book{Isbn: n} }
	second := func(n int64) *testdomain.Book { return &testdomain.Book{Isbn: -n} }
	table := introspect.NewTable().MustRegister(first, second)

	ctors := table.Constructors(reflect.TypeOf(&testdomain.Book{}))
	require.Len(t, ctors, 2)
	assert.True(t, ctors[0].Matches([]reflect.Type{reflect.TypeOf(int64(0))}))

	book := ctors[0].Func.Call([]reflect.Value{reflect.ValueOf(int64(7))})[0].Interface().(*testdomain.Book)
	assert.Equal(t, int64(7), book.Isbn)
}

func TestTable_RejectsInvalidConstructors(t *testing.T) {
	table := introspect.NewTable()

	err := table.Register(42)
	assert.True(t, errors.Is(err, errs.ErrNotSupported))

	err = table.Register(func(xs ...int) int { return len(xs) })
	assert.True(t, errors.Is(err, errs.ErrNotSupported))

	err = table.Register(func() (int, error) { return 0, nil })
	assert.True(t, errors.Is(err, errs.ErrNotSupported))

	err = table.Register(testdomain.NewTopic, func() {})
	assert.Error(t, err)
	assert.Empty(t, table.Constructors(reflect.TypeOf(&testdomain.Topic{})))
}

func TestTable_MustRegisterPanics(t *testing.T) {
	assert.Panics(t, func() {
		introspect.NewTable().MustRegister("not a function")
	})
}
