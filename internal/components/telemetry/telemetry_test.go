package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	inner := NewTestAPI()
	tel := NewScopedAPI("asl_scraper", inner)

	tel.ReportBroken("client.get-nonce", "reason")
	tel.ReportWarning("client.load-stores")
	tel.ReportCount("schools", 3)

	require.Len(t, inner.Broken, 1)
	require.Equal(t, "asl_scraper: client.get-nonce", inner.Broken[0].Id)
	require.Equal(t, []any{"reason"}, inner.Broken[0].Params)
	require.Len(t, inner.Warnings, 1)
	require.Equal(t, "asl_scraper: client.load-stores", inner.Warnings[0].Id)
	require.Equal(t, int64(3), inner.Counts["asl_scraper: schools"])
	require.True(t, inner.HasBroken("get-nonce"))
	require.False(t, inner.HasBroken("load-stores"))
}

func TestOtelAPIForwards(t *testing.T) {
	inner := NewTestAPI()
	tel, err := NewOtelAPI("test", inner)
	require.NoError(t, err)

	tel.ReportBroken("a")
	tel.ReportWarning("b")
	tel.ReportCount("c", 7)

	require.Len(t, inner.Broken, 1)
	require.Len(t, inner.Warnings, 1)
	require.Equal(t, int64(7), inner.Counts["c"])
}
