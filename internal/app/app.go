package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/catalog/seed"
	"github.com/innstack/concierge/internal/chat"
	"github.com/innstack/concierge/internal/config"
	"github.com/innstack/concierge/internal/idgen/simple"
	"github.com/innstack/concierge/internal/logger"
	"github.com/innstack/concierge/internal/person"
	"github.com/innstack/concierge/internal/reservation"
	"github.com/innstack/concierge/internal/search"
	"github.com/innstack/concierge/internal/storage/memory"
	"github.com/innstack/concierge/internal/transport/web"
)

func Run(l *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	conf := config.Load()

	storage := memory.New(memory.Config{L: l})

	data := seed.NewLoader().Load()

	if err := storage.SeedCatalog(ctx, data.Hotels, data.Rooms, data.Ledgers); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	l.LogInfo("Catalog seeded: %v hotels, %v rooms", len(data.Hotels), len(data.Rooms))

	directory := person.NewDirectory()
	for _, p := range data.People {
		directory.Add(p)
	}

	cat := catalog.New(storage)
	idGen := simple.New()
	hub := web.NewHub(l)
	manager := reservation.New(l, cat, directory, storage, idGen, hub)

	seedReservations(ctx, l, manager, data.Reservations)

	openaiClient := openai.NewClient(conf.OpenAIAPIKey)

	var embedder search.Embedder
	if conf.OpenAIAPIKey != "" {
		var cache *redis.Client
		if conf.RedisAddr != "" {
			cache = redis.NewClient(&redis.Options{
				Addr:     conf.RedisAddr,
				Password: conf.RedisPassword,
			})
		}

		embedder = search.NewOpenAIEmbedder(openaiClient, openai.EmbeddingModel(conf.EmbeddingModel), cache)
	} else {
		l.LogInfo("OPENAI_API_KEY is not set, using local embeddings")

		embedder = search.NewHashEmbedder()
	}

	index := search.NewIndex(l, embedder)
	if err := index.Build(ctx, data.Hotels); err != nil {
		return fmt.Errorf("build search index: %w", err)
	}

	sessions := chat.NewStore(l, conf.SessionTimeout)
	defer sessions.Close()

	assistant := chat.New(chat.Config{
		L:         l,
		Client:    openaiClient,
		Model:     conf.ChatModel,
		Sessions:  sessions,
		Manager:   manager,
		Catalog:   cat,
		Directory: directory,
		Index:     index,
	})

	webConf := web.Conf{
		L:                 l,
		ServerLogger:      log.Default(),
		Host:              conf.Host,
		Port:              conf.Port,
		ReadHeaderTimeout: conf.ReadHeaderTimeout,
		LivenessEndpoint:  conf.LivenessEndpoint,
	}

	srv, err := web.New(ctx, webConf, web.Deps{
		Manager:   manager,
		Catalog:   cat,
		Directory: directory,
		Assistant: assistant,
		Index:     index,
		Hub:       hub,
	})
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*4) //nolint:gomnd
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}

// seedReservations books the demo stays through the normal path, so the
// ledgers, the idempotency log and the reservation list stay consistent.
// A seed that collides with a generated Reserved or Blocked stretch is
// logged and skipped.
func seedReservations(ctx context.Context, l *logger.Logger, manager *reservation.Manager, inputs []reservation.CreateInput) {
	created := 0

	for i, input := range inputs {
		seedCtx := reservation.NewContextWithIdempotencyKey(ctx, fmt.Sprintf("seed-reservation-%d", i+1))

		if _, err := manager.CreateReservation(seedCtx, input); err != nil {
			l.LogWarnf("Skipping seed reservation %v: %v", i+1, err.Error())

			continue
		}

		created++
	}

	l.LogInfo("Seeded %v of %v demo reservations", created, len(inputs))
}
