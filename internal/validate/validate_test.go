package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `validate:"required"`
	Color  string `validate:"color"`
	Height string `validate:"dimension"`
	Inner  inner
}

type inner struct {
	Quality int `validate:"min=0,max=100"`
}

func TestStructAcceptsValidInput(t *testing.T) {
	t.Parallel()

	err := Struct(sample{Name: "x", Color: "#ffcc00", Height: "50%"})
	require.NoError(t, err)

	err = Struct(sample{Name: "x", Color: "transparent", Height: "120px"})
	require.NoError(t, err)
}

func TestStructReportsFieldPath(t *testing.T) {
	t.Parallel()

	err := Struct(sample{Name: "x", Inner: inner{Quality: 120}})
	require.Error(t, err)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "inner.quality", fe.Field)
	require.Equal(t, "max", fe.Tag)
}

func TestCustomTags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   sample
		tag  string
	}{
		{name: "missing name", in: sample{}, tag: "required"},
		{name: "bad color", in: sample{Name: "x", Color: "#12"}, tag: "color"},
		{name: "bad dimension", in: sample{Name: "x", Height: "half"}, tag: "dimension"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var fe *FieldError
			require.True(t, errors.As(Struct(tc.in), &fe))
			require.Equal(t, tc.tag, fe.Tag)
		})
	}
}
