package enum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type color string

var (
	red  = New(color("red"))
	blue = New(color("blue"))
)

func TestToEnum(t *testing.T) {
	c, err := ToEnum[color]("red")
	require.NoError(t, err)
	require.Equal(t, red, c)

	c, err = ToEnum[color]("blue")
	require.NoError(t, err)
	require.Equal(t, blue, c)

	_, err = ToEnum[color]("green")
	require.Error(t, err)
}
