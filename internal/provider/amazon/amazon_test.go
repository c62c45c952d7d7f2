package amazon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearch_TaggedSearchLink(t *testing.T) {
	p := New(Config{AssociateTag: "fitcheckai-20"})
	got, err := p.Search(context.Background(), "leather tote bag")
	require.NoError(t, err)
	require.Len(t, got, 1)

	l := got[0]
	require.Equal(t, "Amazon", l.Platform)
	require.Equal(t, "https://www.amazon.com/s?k=leather+tote+bag&tag=fitcheckai-20", l.URL)
	require.True(t, l.IsAffiliate)
	require.Nil(t, l.Price)
	require.Equal(t, "Amazon", l.Source)
}

func TestSearch_NoTagMeansNoCommission(t *testing.T) {
	p := New(Config{})
	got, err := p.Search(context.Background(), "belt")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "https://www.amazon.com/s?k=belt", got[0].URL)
	require.False(t, got[0].IsAffiliate)
}
