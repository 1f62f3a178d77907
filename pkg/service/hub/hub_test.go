package hub_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/interfaces"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/repository/memory"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/service/hub"
)

// fakeSender implements hub.Sender in memory.
type fakeSender struct {
	mu       sync.Mutex
	written  []any
	failSend bool
	failPing bool
	closed   bool
}

func (s *fakeSender) WriteJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSend {
		return errors.New("connection reset")
	}
	s.written = append(s.written, v)
	return nil
}

func (s *fakeSender) WriteControl(messageType int, data []byte, deadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPing {
		return errors.New("connection reset")
	}
	return nil
}

func (s *fakeSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSender) payloads() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]any, len(s.written))
	copy(out, s.written)
	return out
}

// listFailRepo fails every List call.
type listFailRepo struct {
	interfaces.InterviewRepository
}

func (r *listFailRepo) List(ctx context.Context) ([]*model.Interview, error) {
	return nil, errors.New("storage offline")
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := hub.New(memory.New())
	ctx := context.Background()

	first := h.Register(&fakeSender{})
	second := h.Register(&fakeSender{})

	gt.Value(t, h.Len()).Equal(2)
	gt.Value(t, first.ID()).NotEqual(second.ID())
	gt.Value(t, first.Session()).NotNil()

	h.Unregister(ctx, first)
	gt.Value(t, h.Len()).Equal(1)

	// Safe to call again for a client already removed.
	h.Unregister(ctx, first)
	gt.Value(t, h.Len()).Equal(1)
}

func TestHub_UnregisterClosesConnection(t *testing.T) {
	h := hub.New(memory.New())
	sender := &fakeSender{}

	client := h.Register(sender)
	h.Unregister(context.Background(), client)

	gt.Bool(t, sender.closed).True()
}

func TestHub_SessionWindow(t *testing.T) {
	h := hub.New(memory.New(), hub.WithHistoryWindow(2))
	client := h.Register(&fakeSender{})

	sess := client.Session()
	sess.Append("user", "one")
	sess.Append("user", "two")
	sess.Append("user", "three")

	gt.Array(t, sess.Recent()).Length(2)
}

func TestHub_Broadcast(t *testing.T) {
	t.Run("delivers current records to every connection", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		_, err := repo.Create(ctx, &model.Interview{Title: "Shared State"})
		gt.NoError(t, err).Required()

		h := hub.New(repo)
		first := &fakeSender{}
		second := &fakeSender{}
		h.Register(first)
		h.Register(second)

		h.Broadcast(ctx)

		for _, sender := range []*fakeSender{first, second} {
			payloads := sender.payloads()
			gt.Array(t, payloads).Length(1)

			resp, ok := payloads[0].(*model.Response)
			gt.Bool(t, ok).True()
			gt.Value(t, resp.Text).Equal("Updated interviews")
			gt.Value(t, resp.Sender).Equal(model.SenderServer)
			gt.Value(t, resp.Action.String()).Equal("broadcast")
			gt.Array(t, resp.Interviews).Length(1)
		}
	})

	t.Run("failed delivery prunes that connection only", func(t *testing.T) {
		repo := memory.New()
		ctx := context.Background()

		h := hub.New(repo)
		healthy := &fakeSender{}
		broken := &fakeSender{failSend: true}
		h.Register(healthy)
		h.Register(broken)

		h.Broadcast(ctx)

		gt.Value(t, h.Len()).Equal(1)
		gt.Array(t, healthy.payloads()).Length(1)
		gt.Bool(t, broken.closed).True()

		// A pruned connection receives nothing afterwards.
		h.Broadcast(ctx)
		gt.Array(t, healthy.payloads()).Length(2)
		gt.Array(t, broken.payloads()).Length(0)
	})

	t.Run("store read failure delivers nothing and prunes nothing", func(t *testing.T) {
		h := hub.New(&listFailRepo{InterviewRepository: memory.New()})
		sender := &fakeSender{}
		h.Register(sender)

		h.Broadcast(context.Background())

		gt.Value(t, h.Len()).Equal(1)
		gt.Array(t, sender.payloads()).Length(0)
	})
}

func TestHub_Sweep(t *testing.T) {
	h := hub.New(memory.New())
	healthy := &fakeSender{}
	unresponsive := &fakeSender{failPing: true}
	h.Register(healthy)
	h.Register(unresponsive)

	h.Sweep(context.Background())

	gt.Value(t, h.Len()).Equal(1)
	gt.Bool(t, unresponsive.closed).True()

	// A second sweep keeps the healthy connection.
	h.Sweep(context.Background())
	gt.Value(t, h.Len()).Equal(1)
	gt.Bool(t, healthy.closed).False()
}
