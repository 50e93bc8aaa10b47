package chathub_test

import (
	"pingdm/backend/internal/models"
)

// mockClient is an in-memory Client capturing everything delivered to it.
type mockClient struct {
	connID string
	userID string
	Recv   chan models.ServerEvent
}

func newMockClient(connID, userID string) *mockClient {
	return &mockClient{
		connID: connID,
		userID: userID,
		Recv:   make(chan models.ServerEvent, 64),
	}
}

func (m *mockClient) GetConnID() string { return m.connID }
func (m *mockClient) GetUserID() string { return m.userID }

func (m *mockClient) Deliver(ev models.ServerEvent) bool {
	select {
	case m.Recv <- ev:
		return true
	default:
		return false
	}
}

func (m *mockClient) Run()   {}
func (m *mockClient) Close() {}

// drain empties the receive buffer and returns everything seen so far.
func (m *mockClient) drain() []models.ServerEvent {
	var out []models.ServerEvent
	for {
		select {
		case ev := <-m.Recv:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// eventsOfType drains the buffer and filters by event type.
func (m *mockClient) eventsOfType(eventType string) []models.ServerEvent {
	var out []models.ServerEvent
	for _, ev := range m.drain() {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}
