package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/m-mizutani/goerr/v2"

	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/domain/model"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/errutil"
	"github.com/SharjeelAli25/HR-Interview-Scheduler/pkg/utils/logging"
)

const maxMessageSize = 1 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The original deployment serves the frontend from another origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// serveWS upgrades the request and runs the connection's receive loop.
// Messages on one connection are processed strictly in arrival order; other
// connections run their own loops concurrently.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to upgrade websocket"), http.StatusBadRequest)
		return
	}
	ws.SetReadLimit(maxMessageSize)

	ctx := r.Context()
	logger := logging.From(ctx)

	client := s.hub.Register(ws)
	logger.Info("websocket connected", "conn_id", client.ID(), "remote", r.RemoteAddr)
	defer func() {
		s.hub.Unregister(ctx, client)
		logger.Info("websocket disconnected", "conn_id", client.ID())
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read failed", "conn_id", client.ID(), "error", err.Error())
			}
			return
		}

		in := model.ParseInbound(raw)
		resp := s.uc.Chat.HandleMessage(ctx, client.Session(), in)

		// The peer disconnecting mid-dispatch makes this send fail; the
		// deferred unregister discards the session.
		if err := client.Send(resp); err != nil {
			logger.Debug("failed to send response", "conn_id", client.ID(), "error", err.Error())
			return
		}

		if resp.Broadcast {
			s.hub.Broadcast(ctx)
		}
	}
}
