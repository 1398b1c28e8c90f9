package handlers

import (
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/aidostt/wanderstay/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLogger()
	os.Exit(m.Run())
}

func TestParsePagination_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/feed", nil)

	page, limit, err := parsePagination(r)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}

func TestParsePagination_Explicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/feed?page=3&limit=50", nil)

	page, limit, err := parsePagination(r)
	require.NoError(t, err)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)
}

func TestParsePagination_Invalid(t *testing.T) {
	for _, url := range []string{
		"/feed?page=0",
		"/feed?page=-1",
		"/feed?page=abc",
		"/feed?limit=abc",
	} {
		r := httptest.NewRequest("GET", url, nil)
		_, _, err := parsePagination(r)
		assert.Error(t, err, url)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()

	assert.Equal(t, "just now", timeAgo(now.Add(-30*time.Second)))
	assert.Equal(t, "5m ago", timeAgo(now.Add(-5*time.Minute)))
	assert.Equal(t, "3h ago", timeAgo(now.Add(-3*time.Hour)))
	assert.Equal(t, "2d ago", timeAgo(now.Add(-48*time.Hour).Add(-time.Minute)))

	old := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jan 15, 2025", timeAgo(old))
}
