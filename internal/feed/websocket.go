package feed

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/heartshare/internal/model"
)

const (
	writeWait        = 10 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = pongWait * 9 / 10
	subscriberBuffer = 32
)

var errFeedClosed = errors.New("feed closed")

// Handler streams change events to a WebSocket client as JSON messages.
// The subscription lives exactly as long as the connection.
func Handler(hub *Hub) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied to the client.
			slog.Warn("change feed upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		events, cancel := hub.Subscribe(subscriberBuffer)
		defer cancel()

		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error { return readPump(conn) })
		g.Go(func() error { return writePump(ctx, conn, events) })
		g.Go(func() error {
			<-ctx.Done()
			conn.Close()
			return nil
		})

		err = g.Wait()
		if err != nil && !errors.Is(err, errFeedClosed) && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			slog.Debug("change feed connection ended", "remote", r.RemoteAddr, "error", err)
		}
	})
}

// readPump discards client messages and keeps the read deadline fresh.
// It only returns on error, which is how a client disconnect is noticed.
func readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return err
		}
	}
}

// writePump is the only writer on conn.
func writePump(ctx context.Context, conn *websocket.Conn, events <-chan model.ChangeEvent) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
				return errFeedClosed
			}
			if err := conn.WriteJSON(ev); err != nil {
				return err
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func deadline() time.Time {
	return time.Now().Add(writeWait)
}
