package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := NewRecorder()
	scoped := NewScopedAPI("crawler", NewScopedAPI("match", rec))

	scoped.ReportBroken("store.insert-map", "boom")
	scoped.ReportWarning("conv.int", "abc")
	scoped.ReportCount("page-new-matches", 12)

	broken := rec.Reports(KindBroken)
	require.Len(t, broken, 1)
	require.Equal(t, "match: crawler: store.insert-map", broken[0].ID)
	require.Equal(t, []any{"boom"}, broken[0].Params)

	require.True(t, rec.Has(KindWarning, "conv.int"))
	require.False(t, rec.Has(KindBroken, "conv.int"))

	count, ok := rec.LastCount("page-new-matches")
	require.True(t, ok)
	require.Equal(t, int64(12), count)
}
