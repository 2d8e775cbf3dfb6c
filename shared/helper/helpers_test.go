package helper_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/on-the-ground/compiled_reflect/shared/helper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAs(t *testing.T) {
	n, err := helper.As[int](3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = helper.As[int]("3")
	assert.ErrorIs(t, err, helper.ErrUnexpectedType)

	p, err := helper.As[*int](nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	_, err = helper.As[int](nil)
	assert.ErrorIs(t, err, helper.ErrUnexpectedType)

	s, err := helper.As[fmt.Stringer](nil)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestMustAs(t *testing.T) {
	assert.Equal(t, "x", helper.MustAs[string]("x"))
	assert.Panics(t, func() { helper.MustAs[string](1) })
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, reflect.TypeOf(""), helper.TypeOf[string]())
	assert.Equal(t, reflect.Interface, helper.TypeOf[error]().Kind())
}

func TestValueFor(t *testing.T) {
	errType := helper.TypeOf[error]()

	v, err := helper.ValueFor(errType, errors.New("boom"))
	require.NoError(t, err)
	assert.Equal(t, "boom", v.Interface().(error).Error())

	v, err = helper.ValueFor(errType, nil)
	require.NoError(t, err)
	assert.True(t, v.IsNil())

	_, err = helper.ValueFor(reflect.TypeOf(0), "zero")
	assert.ErrorIs(t, err, helper.ErrUnexpectedType)
}
