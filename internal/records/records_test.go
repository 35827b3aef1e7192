package records

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapIDs(t *testing.T) {
	testCases := []struct {
		ids     []int64
		encoded string
	}{
		{ids: nil, encoded: ""},
		{ids: []int64{93503}, encoded: "93503"},
		{ids: []int64{1, 22, 333}, encoded: "1_22_333"},
	}

	for _, test := range testCases {
		require.Equal(t, test.encoded, EncodeMapIDs(test.ids))
		require.Equal(t, test.ids, DecodeMapIDs(test.encoded))
	}

	require.Equal(t, []int64{4, 6}, DecodeMapIDs("4_x_6"))
}

func TestParseSide(t *testing.T) {
	require.Equal(t, SideCT, ParseSide("ct-color"))
	require.Equal(t, SideT, ParseSide("t-color"))
	require.Equal(t, SideT, ParseSide("ct-color bold"))
	require.Equal(t, SideT, ParseSide(""))
	require.Equal(t, SideT, SideCT.Opposite())
	require.Equal(t, "CT", SideCT.String())
}

func TestMapTotals(t *testing.T) {
	m := Map{
		Team1:        "astralis",
		Team2:        "liquid",
		T1FirstHalf:  9,
		T2FirstHalf:  6,
		T1SecondHalf: 6,
		T2SecondHalf: 9,
		T1Overtime:   4,
		T2Overtime:   2,
	}
	t1, t2 := m.Totals()
	require.Equal(t, int64(19), t1)
	require.Equal(t, int64(17), t2)
	require.Equal(t, "astralis", m.Team(0))
	require.Equal(t, "astralis", m.Team(4))
	require.Equal(t, "liquid", m.Team(5))
}
