package router

import (
	"net/http/httptest"
	"testing"

	"github.com/dolpin-app/backend/config"
	"github.com/dolpin-app/backend/pkg/logger"
	"github.com/dolpin-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_Router_RequestContextHTTPClient(t *testing.T) {
	r := New(nil, config.Configs{}, logger.NewLogger(logger.SILENCE))

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	ctx := r.newRequestContext(httptest.NewRecorder(), req)

	// Outbound calls of a handler must never hang forever.
	require.Equal(t, outboundTimeout, xcontext.HTTPClient(ctx).Timeout)
}
