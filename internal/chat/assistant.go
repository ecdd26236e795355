package chat

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/logger"
	"github.com/innstack/concierge/internal/person"
	"github.com/innstack/concierge/internal/reservation"
	"github.com/innstack/concierge/internal/search"
)

const systemPrompt = `You are a hotel reservation assistant.

Rules you must never break:
- Book exactly what the guest asked for. If the requested room is not
  available for the requested dates, say so, then offer alternatives from
  get_alternative_rooms. NEVER reserve a different room, different dates or a
  different hotel without the guest explicitly agreeing first.
- Before calling create_reservation, restate the room, hotel, dates and
  total price, and get the guest's confirmation.
- Only answer from tool results. If you do not know something, say so
  instead of guessing. Never invent hotels, rooms, prices or availability.
- New guests need a profile first: collect first and last name (email and
  phone if offered) and call create_person.
- Dates from guests may be informal ("12-16 January 2025"). Convert them to
  YYYY-MM-DD before calling tools. Check-out must be after check-in.
- Prices are per night; the stay total is nights times the nightly price.
- Answer in the guest's language.`

// maxToolRounds caps tool-call loops per guest message.
const maxToolRounds = 8

type reservationManager interface {
	IsRoomAvailable(ctx context.Context, roomID int, checkIn, checkOut time.Time) (bool, error)
	CreateReservation(ctx context.Context, input reservation.CreateInput) (*reservation.Reservation, error)
	CancelReservation(ctx context.Context, id int) (*reservation.Reservation, error)
	AlternativeRooms(ctx context.Context, hotelIdentifier string, checkIn, checkOut time.Time, excludeRoomID int) ([]reservation.RoomOption, error)
	Reservations(ctx context.Context) ([]*reservation.Reservation, error)
}

type roomCatalog interface {
	RoomsByHotel(ctx context.Context, identifier string) ([]*catalog.Room, error)
}

type guestDirectory interface {
	Create(ctx context.Context, input person.CreateInput) (*person.Person, error)
}

type hotelIndex interface {
	Search(ctx context.Context, text string, limit int) ([]search.Result, error)
}

type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Assistant drives the conversation: it forwards guest messages to the
// model, executes the tool calls the model asks for and feeds the results
// back until the model produces a plain answer.
type Assistant struct {
	l         *logger.Logger
	client    completer
	model     string
	limiter   *rate.Limiter
	sessions  *Store
	manager   reservationManager
	catalog   roomCatalog
	directory guestDirectory
	index     hotelIndex
}

type Config struct {
	L         *logger.Logger
	Client    completer
	Model     string
	Sessions  *Store
	Manager   reservationManager
	Catalog   roomCatalog
	Directory guestDirectory
	Index     hotelIndex
}

func New(conf Config) *Assistant {
	return &Assistant{
		l:         conf.L,
		client:    conf.Client,
		model:     conf.Model,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 5),
		sessions:  conf.Sessions,
		manager:   conf.Manager,
		catalog:   conf.Catalog,
		directory: conf.Directory,
		index:     conf.Index,
	}
}

func (a *Assistant) StartSession() *Session {
	return a.sessions.Create(systemPrompt)
}

func (a *Assistant) Session(id string) (*Session, error) {
	return a.sessions.Get(id)
}

func (a *Assistant) EndSession(id string) error {
	return a.sessions.Delete(id)
}

// Respond appends the guest message to the session, runs the tool loop and
// returns the assistant's reply. The session keeps the whole exchange.
func (a *Assistant) Respond(ctx context.Context, sessionID, message string) (string, error) {
	sess, err := a.sessions.Get(sessionID)
	if err != nil {
		return "", err
	}

	// One exchange at a time per session; concurrent calls queue here so
	// the transcript never interleaves.
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.messages = append(sess.messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})

	tools := toolDefinitions()

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.complete(ctx, openai.ChatCompletionRequest{
			Model:       a.model,
			Messages:    sess.messages,
			Tools:       tools,
			Temperature: 0.2,
		})
		if err != nil {
			return "", err
		}

		choice := resp.Choices[0].Message
		sess.messages = append(sess.messages, choice)

		if len(choice.ToolCalls) == 0 {
			return choice.Content, nil
		}

		for _, call := range choice.ToolCalls {
			a.l.LogInfo("chat tool call: %v", call.Function.Name)

			sess.messages = append(sess.messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    a.dispatch(ctx, call),
				ToolCallID: call.ID,
			})
		}
	}

	return "", fmt.Errorf("tool loop exceeded %v rounds", maxToolRounds)
}

// complete calls the model with rate limiting and up to three attempts,
// backing off with jitter between failures.
func (a *Assistant) complete(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	const maxRetries = 3

	var resp openai.ChatCompletionResponse
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err = a.limiter.Wait(ctx); err != nil {
			return openai.ChatCompletionResponse{}, fmt.Errorf("chat rate limit: %w", err)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
		resp, err = a.client.CreateChatCompletion(attemptCtx, req)
		cancel()

		if err == nil && len(resp.Choices) > 0 {
			return resp, nil
		}

		if err == nil {
			err = fmt.Errorf("chat completion returned no choices")
		}

		a.l.LogErrorf("chat completion attempt %v: %v", attempt, err)

		if attempt < maxRetries {
			backoff := time.Duration(attempt)*time.Second + time.Duration(rand.Intn(1000))*time.Millisecond

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return openai.ChatCompletionResponse{}, ctx.Err()
			}
		}
	}

	return openai.ChatCompletionResponse{}, fmt.Errorf("chat completion after %v attempts: %w", maxRetries, err)
}
