package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,min=3,max=5"`
	Color string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Struct(sample{Name: "abcd"}))
	})

	t.Run("too short", func(t *testing.T) {
		err := Struct(sample{Name: "s"})
		verr, ok := As(err)
		require.True(t, ok)
		assert.Equal(t, []string{"is too short (minimum is 3 characters)"}, verr["name"])
	})

	t.Run("blank", func(t *testing.T) {
		verr, ok := As(Struct(sample{}))
		require.True(t, ok)
		assert.Equal(t, []string{"can't be blank"}, verr["name"])
	})

	t.Run("too long and invalid", func(t *testing.T) {
		verr, ok := As(Struct(sample{Name: "abcdefg", Color: "red"}))
		require.True(t, ok)
		assert.Equal(t, []string{"is too long (maximum is 5 characters)"}, verr["name"])
		assert.Equal(t, []string{"is invalid"}, verr["color"])
	})
}

func TestErrors_Error(t *testing.T) {
	e := Errors{}
	e.Add("name", "is too short (minimum is 3 characters)")
	e.Add("color", "is invalid")
	assert.Equal(t, "color is invalid, name is too short (minimum is 3 characters)", e.Error())
}

func TestAs_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("create project: %w", Errors{"name": {"can't be blank"}})
	verr, ok := As(wrapped)
	require.True(t, ok)
	assert.Contains(t, verr, "name")

	_, ok = As(fmt.Errorf("boom"))
	assert.False(t, ok)
}
