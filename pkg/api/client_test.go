package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_NewGenerator_BoundedClient(t *testing.T) {
	generator := NewGenerator("https://example.com")
	require.Equal(t, defaultClientTimeout, generator.client.Timeout)
}
