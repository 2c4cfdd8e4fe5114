package authenticator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJWT(t *testing.T) {
	engine := NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, "abc")
	require.Nil(t, err)

	var msg string
	err = engine.Verify(token, &msg)
	require.NoError(t, err)
	require.Equal(t, "abc", msg)
}

func TestJWTExpiration(t *testing.T) {
	engine := NewTokenEngine("secret")
	token, err := engine.Generate(time.Nanosecond, "abc")
	require.Nil(t, err)

	var msg string
	err = engine.Verify(token, &msg)
	require.Error(t, err)
}

func TestJWTObject(t *testing.T) {
	type object struct {
		ID       int64
		Username string
	}

	engine := NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, object{ID: 42, Username: "user42"})
	require.NoError(t, err)

	var obj object
	err = engine.Verify(token, &obj)
	require.NoError(t, err)
	require.Equal(t, int64(42), obj.ID)
	require.Equal(t, "user42", obj.Username)
}
