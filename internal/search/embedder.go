package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Embedder turns text into a dense vector for semantic scoring.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// OpenAIEmbedder calls the embeddings API, rate limited, with an optional
// redis cache in front keyed by a hash of the input text.
type OpenAIEmbedder struct {
	client  *openai.Client
	model   openai.EmbeddingModel
	limiter *rate.Limiter
	cache   *redis.Client
	ttl     time.Duration
}

func NewOpenAIEmbedder(client *openai.Client, model openai.EmbeddingModel, cache *redis.Client) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 10),
		cache:   cache,
		ttl:     24 * time.Hour,
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(e.model, text)

	if e.cache != nil {
		cached, err := e.cache.Get(ctx, key).Result()
		if err == nil {
			var vec []float32
			if err := json.Unmarshal([]byte(cached), &vec); err == nil {
				return vec, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("embedding cache get: %w", err)
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("embedding rate limit: %w", err)
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("create embeddings: empty response")
	}

	vec := resp.Data[0].Embedding

	if e.cache != nil {
		if raw, err := json.Marshal(vec); err == nil {
			e.cache.Set(ctx, key, raw, e.ttl)
		}
	}

	return vec, nil
}

func cacheKey(model openai.EmbeddingModel, text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("embedding:%s:%s", model, hex.EncodeToString(sum[:16]))
}

// HashEmbedder is a deterministic stand-in used when no API key is
// configured and in tests. It hashes tokens into a fixed-size bag-of-words
// vector, so related texts still land near each other.
type HashEmbedder struct {
	dims int
}

func NewHashEmbedder() *HashEmbedder {
	return &HashEmbedder{dims: 256}
}

func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dims)

	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%uint32(e.dims)]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}

	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}

	return vec, nil
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var tokens []string
	for _, f := range fields {
		if len(f) > 1 {
			tokens = append(tokens, f)
		}
	}

	return tokens
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
