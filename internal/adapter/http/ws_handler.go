package http

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/labstack/echo/v4"

	"kyc-portal-backend/internal/realtime"
	"kyc-portal-backend/internal/usecase/session"
)

type StreamHandler struct{ feed realtime.Subscriber }

func NewStreamHandler(feed realtime.Subscriber) *StreamHandler {
	return &StreamHandler{feed: feed}
}

// Stream pushes change-feed events over a websocket: the caller's own channel,
// or the firehose for admins requesting ?scope=all. Teardown is bound to the
// request context so an unmounting client releases the subscription.
func (h *StreamHandler) Stream(c echo.Context) error {
	sess := CurrentSession(c)
	if sess == nil {
		return errJSON(c, http.StatusUnauthorized, session.ErrNotAuthenticated)
	}
	channel := realtime.OwnerChannel(sess.UserID)
	if c.QueryParam("scope") == "all" {
		if !sess.IsAdmin {
			return errJSON(c, http.StatusForbidden, session.ErrAdminRequired)
		}
		channel = realtime.ChannelAll
	}

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	events, unsubscribe, err := h.feed.Subscribe(ctx, channel)
	if err != nil {
		_ = conn.Close(websocket.StatusInternalError, "subscribe_failed")
		return nil
	}
	defer unsubscribe()

	_ = wsjson.Write(ctx, conn, map[string]string{"status": "ready"})

	readErr := make(chan error, 1)
	go func() {
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				readErr <- err
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return nil
		case <-readErr:
			_ = conn.Close(websocket.StatusNormalClosure, "closed")
			return nil
		case evt, ok := <-events:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "closed")
				return nil
			}
			writeCtx, cancelWrite := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, evt)
			cancelWrite()
			if err != nil {
				_ = conn.Close(websocket.StatusNormalClosure, "write_failed")
				return nil
			}
		}
	}
}
