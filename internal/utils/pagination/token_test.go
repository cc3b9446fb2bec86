package pagination_test

import (
	"testing"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken_RoundTrip(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 3, 1, 12, 34, 56, 789, time.UTC)

	token := pagination.EncodeToken(date, createdAt)
	require.NotEmpty(t, token)

	gotDate, gotCreatedAt, err := pagination.DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, date.Equal(gotDate))
	assert.True(t, createdAt.Equal(gotCreatedAt))
}

func TestDecodeToken_InvalidBase64(t *testing.T) {
	_, _, err := pagination.DecodeToken("not-base64!!!")
	assert.Error(t, err)
}

func TestDecodeToken_MissingSeparator(t *testing.T) {
	token := pagination.EncodeToken(time.Now(), time.Now())
	// Corrupt the payload while keeping valid base64
	_, _, err := pagination.DecodeToken(token[:len(token)-4])
	assert.Error(t, err)
}
