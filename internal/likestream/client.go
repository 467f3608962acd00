package likestream

import (
	"context"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/AlibekovAA/puppies-api/internal/common/constants"
	"github.com/AlibekovAA/puppies-api/internal/common/logger"
)

// SessionCheck reports whether the session that opened the stream is
// still live.
type SessionCheck func(ctx context.Context) bool

// Client is one subscriber connection. Inbound frames are read only to
// service control messages and detect the peer going away.
type Client struct {
	hub     *Hub
	conn    *gorillaWS.Conn
	userID  string
	send    chan []byte
	session SessionCheck
	ctx     context.Context
	log     *logger.Logger
}

func NewClient(ctx context.Context, hub *Hub, conn *gorillaWS.Conn, userID string, session SessionCheck, log *logger.Logger) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		userID:  userID,
		send:    make(chan []byte, hub.sendBufSize),
		session: session,
		ctx:     ctx,
		log:     log,
	}
}

func (c *Client) sessionAlive() bool {
	return c.session == nil || c.session(c.ctx)
}

// closeExpired ends a stream whose session was revoked or superseded.
func (c *Client) closeExpired() {
	c.log.WithFields(c.ctx, logger.Fields{
		"user_id": c.userID,
		"action":  "like_stream_session_ended",
	}).Info("like stream closed: session no longer valid")
	_ = c.conn.SetWriteDeadline(time.Now().Add(constants.LikeStreamWriteWait))
	_ = c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.ClosePolicyViolation, "session ended"))
}

func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(constants.LikeStreamMaxMsgSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(constants.LikeStreamPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(constants.LikeStreamPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if gorillaWS.IsUnexpectedCloseError(err, gorillaWS.CloseGoingAway, gorillaWS.CloseAbnormalClosure) {
				c.log.WithFields(c.ctx, logger.Fields{
					"user_id": c.userID,
					"action":  "like_stream_read_error",
				}).Warnf("like stream read error: %v", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(constants.LikeStreamPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.LikeStreamWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
				return
			}
			if !c.sessionAlive() {
				c.closeExpired()
				return
			}
			if err := c.conn.WriteMessage(gorillaWS.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			if !c.sessionAlive() {
				c.closeExpired()
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(constants.LikeStreamWriteWait))
			if err := c.conn.WriteMessage(gorillaWS.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
