package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"catalog-api/pkg/apierror"
)

func requireAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := apierror.As(err)
	require.True(t, ok, "expected APIError, got %T: %v", err, err)
	require.Equal(t, status, apiErr.HTTPStatus)
	require.Equal(t, message, apiErr.Message)
}
