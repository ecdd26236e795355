package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innstack/concierge/internal/catalog"
	"github.com/innstack/concierge/internal/logger"
	"github.com/innstack/concierge/internal/person"
	"github.com/innstack/concierge/internal/reservation"
	"github.com/innstack/concierge/internal/search"
)

type scriptedCompleter struct {
	responses []openai.ChatCompletionResponse
	requests  []openai.ChatCompletionRequest
}

func (c *scriptedCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.requests = append(c.requests, req)

	resp := c.responses[0]
	c.responses = c.responses[1:]

	return resp, nil
}

func assistantMessage(msg openai.ChatCompletionMessage) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: msg}},
	}
}

type fakeManager struct {
	available bool
	createErr error
	created   []reservation.CreateInput
}

func (m *fakeManager) IsRoomAvailable(context.Context, int, time.Time, time.Time) (bool, error) {
	return m.available, nil
}

func (m *fakeManager) CreateReservation(_ context.Context, input reservation.CreateInput) (*reservation.Reservation, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}

	m.created = append(m.created, input)

	return &reservation.Reservation{ID: 1, CheckIn: input.CheckIn, CheckOut: input.CheckOut, Nights: 3}, nil
}

func (m *fakeManager) CancelReservation(_ context.Context, id int) (*reservation.Reservation, error) {
	return &reservation.Reservation{ID: id, Cancelled: true}, nil
}

func (m *fakeManager) AlternativeRooms(context.Context, string, time.Time, time.Time, int) ([]reservation.RoomOption, error) {
	return nil, nil
}

func (m *fakeManager) Reservations(context.Context) ([]*reservation.Reservation, error) {
	return nil, nil
}

type fakeCatalog struct{}

func (fakeCatalog) RoomsByHotel(context.Context, string) ([]*catalog.Room, error) {
	return nil, nil
}

type fakeDirectory struct{}

func (fakeDirectory) Create(_ context.Context, in person.CreateInput) (*person.Person, error) {
	return &person.Person{ID: 9, FirstName: in.FirstName, LastName: in.LastName}, nil
}

type fakeIndex struct{}

func (fakeIndex) Search(context.Context, string, int) ([]search.Result, error) {
	return nil, nil
}

func testAssistant(t *testing.T, client completer, manager reservationManager) *Assistant {
	t.Helper()

	l := logger.New(log.Default())
	sessions := NewStore(l, 30*time.Minute)
	t.Cleanup(sessions.Close)

	return New(Config{
		L:         l,
		Client:    client,
		Model:     "gpt-4o",
		Sessions:  sessions,
		Manager:   manager,
		Catalog:   fakeCatalog{},
		Directory: fakeDirectory{},
		Index:     fakeIndex{},
	})
}

func TestRespondRunsToolLoop(t *testing.T) {
	client := &scriptedCompleter{
		responses: []openai.ChatCompletionResponse{
			assistantMessage(openai.ChatCompletionMessage{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{{
					ID:   "call-1",
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      "check_room_availability",
						Arguments: `{"room_id":1,"check_in":"2025-01-05","check_out":"2025-01-08"}`,
					},
				}},
			}),
			assistantMessage(openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleAssistant,
				Content: "Room 101 is available for those dates.",
			}),
		},
	}

	a := testAssistant(t, client, &fakeManager{available: true})
	sess := a.StartSession()

	reply, err := a.Respond(context.Background(), sess.ID, "Is room 1 free 5-8 January 2025?")
	require.NoError(t, err)
	assert.Equal(t, "Room 101 is available for those dates.", reply)

	// The second request must carry the tool result back to the model.
	require.Len(t, client.requests, 2)

	last := client.requests[1].Messages[len(client.requests[1].Messages)-1]
	assert.Equal(t, openai.ChatMessageRoleTool, last.Role)
	assert.Equal(t, "call-1", last.ToolCallID)

	var result struct {
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal([]byte(last.Content), &result))
	assert.True(t, result.Available)
}

// echoCompleter answers every request with a plain assistant message, so
// any number of goroutines can share it.
type echoCompleter struct{}

func (echoCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return assistantMessage(openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: fmt.Sprintf("reply to %d messages", len(req.Messages)),
	}), nil
}

func TestRespondConcurrentCallsKeepTranscriptIntact(t *testing.T) {
	a := testAssistant(t, echoCompleter{}, &fakeManager{})
	sess := a.StartSession()

	const callers = 8

	var wg sync.WaitGroup

	for i := 0; i < callers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			_, err := a.Respond(context.Background(), sess.ID, fmt.Sprintf("message %d", i))
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	// System prompt plus one user and one assistant message per caller;
	// exchanges serialize instead of interleaving.
	assert.Len(t, sess.History(), 1+2*callers)
}

func TestRespondUnknownSession(t *testing.T) {
	a := testAssistant(t, &scriptedCompleter{}, &fakeManager{})

	_, err := a.Respond(context.Background(), "missing", "hello")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDispatchCreateReservationUnavailable(t *testing.T) {
	a := testAssistant(t, &scriptedCompleter{}, &fakeManager{createErr: reservation.ErrRoomUnavailable})

	out := a.dispatch(context.Background(), openai.ToolCall{
		ID:   "call-1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      "create_reservation",
			Arguments: `{"person_id":1,"hotel_id":"1","room_id":1,"check_in":"2025-01-05","check_out":"2025-01-08"}`,
		},
	})

	// Unavailability is steering for the model, not a hard failure.
	assert.Contains(t, out, "get_alternative_rooms")
}

func TestDispatchCreateReservationParsesNaturalDates(t *testing.T) {
	manager := &fakeManager{}
	a := testAssistant(t, &scriptedCompleter{}, manager)

	a.dispatch(context.Background(), openai.ToolCall{
		Function: openai.FunctionCall{
			Name:      "create_reservation",
			Arguments: `{"person_id":1,"hotel_id":"1","room_id":1,"check_in":"12 January 2025","check_out":"16 January 2025"}`,
		},
	})

	require.Len(t, manager.created, 1)
	assert.Equal(t, date(2025, time.January, 12), manager.created[0].CheckIn)
	assert.Equal(t, date(2025, time.January, 16), manager.created[0].CheckOut)
}

func TestDispatchUnknownTool(t *testing.T) {
	a := testAssistant(t, &scriptedCompleter{}, &fakeManager{})

	out := a.dispatch(context.Background(), openai.ToolCall{
		Function: openai.FunctionCall{Name: "teleport_guest", Arguments: `{}`},
	})

	assert.Contains(t, out, "error")
}

func TestToolDefinitionsCoverEveryDispatchTarget(t *testing.T) {
	a := testAssistant(t, &scriptedCompleter{}, &fakeManager{available: true})

	for _, tool := range toolDefinitions() {
		_, err := a.call(context.Background(), tool.Function.Name, `{"query":"x","hotel":"1","check_in":"2025-01-05","check_out":"2025-01-08","room_id":1,"person_id":1,"hotel_id":"1","first_name":"A","last_name":"B","reservation_id":1}`)
		assert.NoError(t, err, "tool %q", tool.Function.Name)
	}
}
