package search

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/logger"
)

const vectorWeight = 0.4

// Query holds the structured intent extracted from a free-text request.
type Query struct {
	Text       string
	MaxPrice   decimal.Decimal
	HasPrice   bool
	City       string
	Amenities  catalog.AmenityFilter
	PolicyOnly bool
	MinStars   int
}

var (
	pricePattern = regexp.MustCompile(`(?i)(?:under|below|less than|max(?:imum)?(?: of)?|up to)\s*\$?\s*(\d+)`)
	cityPattern  = regexp.MustCompile(`(?i)\bin\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*)`)
	starPattern  = regexp.MustCompile(`(?i)(\d)[\s-]*star`)
)

// Analyze extracts a price cap, a location, amenity requirements and a
// policy focus from the raw text. Everything it does not recognize stays in
// Text for the scoring passes.
func Analyze(text string) Query {
	q := Query{Text: text}
	lower := strings.ToLower(text)

	if m := pricePattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			q.MaxPrice = decimal.NewFromInt(int64(v))
			q.HasPrice = true
		}
	}

	if m := cityPattern.FindStringSubmatch(text); m != nil {
		q.City = m[1]
	}

	if m := starPattern.FindStringSubmatch(text); m != nil {
		q.MinStars, _ = strconv.Atoi(m[1])
	}

	q.Amenities = catalog.AmenityFilter{
		Pool:        strings.Contains(lower, "pool"),
		Gym:         strings.Contains(lower, "gym") || strings.Contains(lower, "fitness"),
		Spa:         strings.Contains(lower, "spa"),
		PetFriendly: strings.Contains(lower, "pet") || strings.Contains(lower, "dog") || strings.Contains(lower, "cat"),
		Parking:     strings.Contains(lower, "parking"),
		Wifi:        strings.Contains(lower, "wifi") || strings.Contains(lower, "wi-fi"),
	}

	q.PolicyOnly = strings.Contains(lower, "cancel") || strings.Contains(lower, "refund")

	return q
}

// Result pairs a hotel with its combined relevance score.
type Result struct {
	Hotel *catalog.Hotel
	Score float64
}

type document struct {
	hotel    *catalog.Hotel
	text     string
	tokens   map[string]int
	embedded []float32
}

// Index scores hotels against free-text queries by blending keyword overlap
// with embedding similarity, after applying the hard filters Analyze found.
type Index struct {
	l        *logger.Logger
	embedder Embedder
	docs     []*document
}

func NewIndex(l *logger.Logger, embedder Embedder) *Index {
	return &Index{l: l, embedder: embedder}
}

// Build embeds every hotel's profile text. On embedding failure the hotel is
// still indexed for keyword scoring.
func (ix *Index) Build(ctx context.Context, hotels []*catalog.Hotel) error {
	ix.docs = ix.docs[:0]

	for _, h := range hotels {
		doc := &document{hotel: h, text: profileText(h)}

		doc.tokens = make(map[string]int)
		for _, t := range tokenize(doc.text) {
			doc.tokens[t]++
		}

		vec, err := ix.embedder.Embed(ctx, doc.text)
		if err != nil {
			ix.l.LogErrorf("embed hotel %v: %v", h.ID, err)
		} else {
			doc.embedded = vec
		}

		ix.docs = append(ix.docs, doc)
	}

	ix.l.LogInfo("search index built, %v hotels", len(ix.docs))

	return nil
}

func profileText(h *catalog.Hotel) string {
	return strings.Join([]string{
		h.Name, h.City, h.Country, h.Description, h.Amenities, h.RoomTypes,
		h.CancellationPolicy, h.NearbyAttractions,
	}, " ")
}

// Search runs Analyze over the text, filters on the hard constraints and
// ranks the rest by 0.6 keyword + 0.4 vector score.
func (ix *Index) Search(ctx context.Context, text string, limit int) ([]Result, error) {
	q := Analyze(text)

	var queryVec []float32
	vec, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		ix.l.LogErrorf("embed query: %v", err)
	} else {
		queryVec = vec
	}

	queryTokens := tokenize(text)

	var results []Result
	for _, doc := range ix.docs {
		if !matchesFilters(doc.hotel, q) {
			continue
		}

		keyword := keywordScore(queryTokens, doc, q)
		vector := cosine(queryVec, doc.embedded)
		score := (1-vectorWeight)*keyword + vectorWeight*vector

		if score <= 0 {
			continue
		}

		results = append(results, Result{Hotel: doc.hotel, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func matchesFilters(h *catalog.Hotel, q Query) bool {
	if q.HasPrice && h.PricePerNight.GreaterThan(q.MaxPrice) {
		return false
	}

	if q.MinStars > 0 && h.StarRating < q.MinStars {
		return false
	}

	if q.City != "" {
		city := strings.ToLower(q.City)
		if !strings.Contains(strings.ToLower(h.City), city) &&
			!strings.Contains(strings.ToLower(h.Country), city) {
			return false
		}
	}

	return q.Amenities.Matches(h)
}

func keywordScore(queryTokens []string, doc *document, q Query) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	var field string
	if q.PolicyOnly {
		field = strings.ToLower(doc.hotel.CancellationPolicy)
	}

	hits := 0
	for _, t := range queryTokens {
		if field != "" && strings.Contains(field, t) {
			hits += 2
			continue
		}

		if doc.tokens[t] > 0 {
			hits++
		}
	}

	return float64(hits) / float64(len(queryTokens))
}
