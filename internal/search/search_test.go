package search

import (
	"context"
	"log"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/logger"
)

func TestAnalyzePriceCap(t *testing.T) {
	for _, text := range []string{
		"hotels under $300",
		"something below 300 dollars",
		"less than $300 per night",
		"max $300",
		"up to 300",
	} {
		q := Analyze(text)

		require.True(t, q.HasPrice, "text %q", text)
		assert.True(t, q.MaxPrice.Equal(decimal.NewFromInt(300)), "text %q", text)
	}

	q := Analyze("a nice hotel with a pool")
	assert.False(t, q.HasPrice)
}

func TestAnalyzeCity(t *testing.T) {
	q := Analyze("hotels in Miami with a spa")
	assert.Equal(t, "Miami", q.City)

	q = Analyze("a room in New York")
	assert.Equal(t, "New York", q.City)

	q = Analyze("cheap rooms anywhere")
	assert.Empty(t, q.City)
}

func TestAnalyzeAmenities(t *testing.T) {
	q := Analyze("pet friendly hotel with pool and gym")

	assert.True(t, q.Amenities.Pool)
	assert.True(t, q.Amenities.Gym)
	assert.True(t, q.Amenities.PetFriendly)
	assert.False(t, q.Amenities.Spa)
}

func TestAnalyzePolicyFocus(t *testing.T) {
	assert.True(t, Analyze("what is the cancellation policy").PolicyOnly)
	assert.True(t, Analyze("can I get a refund").PolicyOnly)
	assert.False(t, Analyze("rooms with sea view").PolicyOnly)
}

func TestAnalyzeStarRating(t *testing.T) {
	assert.Equal(t, 5, Analyze("a 5 star hotel").MinStars)
	assert.Equal(t, 4, Analyze("4-star in Paris").MinStars)
}

func testIndex(t *testing.T) *Index {
	t.Helper()

	ix := NewIndex(logger.New(log.Default()), NewHashEmbedder())

	err := ix.Build(context.Background(), []*catalog.Hotel{
		{
			ID: "1", Name: "Grand Plaza Hotel", City: "New York", Country: "USA",
			StarRating: 5, PricePerNight: decimal.NewFromInt(450),
			Description: "Luxury hotel in the heart of Manhattan",
			Amenities:   "Business center, Rooftop restaurant",
			HasPool:     true, HasGym: true, HasSpa: true, HasWifi: true,
		},
		{
			ID: "2", Name: "Seaside Resort & Spa", City: "Miami", Country: "USA",
			StarRating: 4, PricePerNight: decimal.NewFromInt(320),
			Description:        "Beachfront resort with private beach access",
			Amenities:          "Private beach, Kids club",
			CancellationPolicy: "Free cancellation up to 72 hours before arrival",
			HasPool:            true, HasSpa: true, PetFriendly: true, HasWifi: true,
		},
		{
			ID: "3", Name: "Business Inn Express", City: "Chicago", Country: "USA",
			StarRating: 3, PricePerNight: decimal.NewFromInt(150),
			Description: "Affordable business hotel near airport",
			HasGym:      true, HasWifi: true,
		},
	})
	require.NoError(t, err)

	return ix
}

func TestSearchFiltersByPrice(t *testing.T) {
	ix := testIndex(t)

	results, err := ix.Search(context.Background(), "business hotel under $200", 5)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	for _, r := range results {
		assert.True(t, r.Hotel.PricePerNight.LessThanOrEqual(decimal.NewFromInt(200)))
	}
}

func TestSearchFiltersByCity(t *testing.T) {
	ix := testIndex(t)

	results, err := ix.Search(context.Background(), "beach resort in Miami", 5)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, "2", results[0].Hotel.ID)
}

func TestSearchFiltersByAmenities(t *testing.T) {
	ix := testIndex(t)

	results, err := ix.Search(context.Background(), "pet friendly hotel with pool", 5)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "2", results[0].Hotel.ID)
}

func TestSearchRanksByRelevance(t *testing.T) {
	ix := testIndex(t)

	results, err := ix.Search(context.Background(), "beachfront resort private beach", 5)
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Equal(t, "2", results[0].Hotel.ID)

	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestSearchLimit(t *testing.T) {
	ix := testIndex(t)

	results, err := ix.Search(context.Background(), "hotel", 1)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(results), 1)
}

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder()

	a, err := e.Embed(context.Background(), "beachfront resort")
	require.NoError(t, err)

	b, err := e.Embed(context.Background(), "beachfront resort")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.InDelta(t, 1.0, cosine(a, b), 1e-9)

	c, err := e.Embed(context.Background(), "airport business hotel")
	require.NoError(t, err)

	assert.Less(t, cosine(a, c), 1.0)
}
