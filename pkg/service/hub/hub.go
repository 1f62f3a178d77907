package hub

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/interfaces"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/types"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/errutil"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/logging"
)

const writeTimeout = 10 * time.Second

// Sender is the write side of a live connection. *websocket.Conn satisfies
// it; tests substitute fakes.
type Sender interface {
	WriteJSON(v any) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Client is one live connection with its session. Writes are serialized per
// connection: gorilla/websocket permits a single concurrent writer.
type Client struct {
	id      types.ConnID
	sender  Sender
	session *model.Session

	mu sync.Mutex
}

// ID returns the opaque connection identifier assigned at accept time.
func (c *Client) ID() types.ConnID {
	return c.id
}

// Session returns the connection's conversation memory.
func (c *Client) Session() *model.Session {
	return c.session
}

// Send delivers one JSON payload on the connection.
func (c *Client) Send(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sender.WriteJSON(v)
}

// Ping sends a WebSocket ping control frame.
func (c *Client) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sender.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// Hub is the connection set: it tracks live connections and fans the current
// record set out to all of them after a mutation. Membership changes only on
// accept, disconnect and send failure.
type Hub struct {
	repo   interfaces.InterviewRepository
	window int

	mu      sync.RWMutex
	clients map[types.ConnID]*Client
}

// Option configures a Hub.
type Option func(*Hub)

// WithHistoryWindow sets the conversation window for new sessions.
func WithHistoryWindow(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.window = n
		}
	}
}

// New creates a hub over the given repository. The repository is read once
// per broadcast, never cached.
func New(repo interfaces.InterviewRepository, opts ...Option) *Hub {
	h := &Hub{
		repo:    repo,
		window:  model.DefaultHistoryWindow,
		clients: make(map[types.ConnID]*Client),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register accepts a connection: it assigns a connection ID, creates the
// session, and adds the client to the connection set.
func (h *Hub) Register(sender Sender) *Client {
	client := &Client{
		id:      types.NewConnID(),
		sender:  sender,
		session: model.NewSession(h.window),
	}

	h.mu.Lock()
	h.clients[client.id] = client
	h.mu.Unlock()

	return client
}

// Unregister removes a client from the connection set and closes its
// connection. The session is discarded with the client. Safe to call more
// than once.
func (h *Hub) Unregister(ctx context.Context, client *Client) {
	h.mu.Lock()
	_, exists := h.clients[client.id]
	delete(h.clients, client.id)
	h.mu.Unlock()

	if exists {
		if err := client.sender.Close(); err != nil {
			logging.From(ctx).Debug("failed to close connection", "conn_id", client.id, "error", err.Error())
		}
	}
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast fetches the current record set once and attempts delivery to
// every live connection. Delivery is independent per connection: a failed
// send prunes that connection as an implicit disconnect and the rest still
// receive. Failed deliveries are not retried.
func (h *Hub) Broadcast(ctx context.Context) {
	interviews, err := h.repo.List(ctx)
	if err != nil {
		_ = errutil.Handle(ctx, err, "failed to fetch interviews for broadcast")
		return
	}

	payload := &model.Response{
		Text:       "Updated interviews",
		Sender:     model.SenderServer,
		Action:     "broadcast",
		Interviews: interviews,
	}

	for _, client := range h.snapshot() {
		if err := client.Send(payload); err != nil {
			logging.From(ctx).Info("pruning connection after failed delivery",
				"conn_id", client.id,
				"error", err.Error(),
			)
			h.Unregister(ctx, client)
		}
	}
}

// Sweep pings every live connection and prunes those whose control write
// fails. Used by the keepalive worker.
func (h *Hub) Sweep(ctx context.Context) {
	for _, client := range h.snapshot() {
		if err := client.Ping(); err != nil {
			logging.From(ctx).Info("pruning unresponsive connection",
				"conn_id", client.id,
				"error", err.Error(),
			)
			h.Unregister(ctx, client)
		}
	}
}

// snapshot copies the client list so delivery does not hold the set lock.
func (h *Hub) snapshot() []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}
