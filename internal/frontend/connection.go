/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package frontend

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"
	"github.com/gorilla/websocket"
	"github.com/smallnest/chanx"
	"golang.org/x/time/rate"

	"github.com/microsoft/hostinspector/internal/inspector"
)

const (
	outboundQueueInitialCapacity = 64
	writeTimeout                 = 10 * time.Second
	closeMessageTimeout          = 100 * time.Millisecond
)

// connection adapts a WebSocket to inspector.RemoteConnection.
// Outbound messages are queued without blocking and written by a dedicated goroutine,
// so the host executor never waits for the network.
type connection struct {
	wsConn     *websocket.Conn
	limiter    *rate.Limiter
	pingPeriod time.Duration
	log        logr.Logger

	connCtx    context.Context
	cancelConn context.CancelFunc
	outbound   *chanx.UnboundedChan[[]byte]
}

var _ inspector.RemoteConnection = (*connection)(nil)

func newConnection(
	ctx context.Context,
	wsConn *websocket.Conn,
	limiter *rate.Limiter,
	pingPeriod time.Duration,
	log logr.Logger,
) *connection {
	// The request context is cancelled when the handler returns; the connection outlives it until the session ends.
	connCtx, cancelConn := context.WithCancel(context.WithoutCancel(ctx))

	return &connection{
		wsConn:     wsConn,
		limiter:    limiter,
		pingPeriod: pingPeriod,
		log:        log,
		connCtx:    connCtx,
		cancelConn: cancelConn,
		outbound:   chanx.NewUnboundedChan[[]byte](connCtx, outboundQueueInitialCapacity),
	}
}

// OnMessage queues a message for the frontend. Called on the host executor.
func (c *connection) OnMessage(message []byte) {
	select {
	case c.outbound.In <- message:
	case <-c.connCtx.Done():
	}
}

// OnDisconnect is called when the session ends, whoever ended it.
func (c *connection) OnDisconnect() {
	c.cancelConn()
}

// Runs the connection until either side ends it.
func (c *connection) serve(session *inspector.HostTargetSession) {
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		c.writeMessages()
	}()

	c.readMessages(session)

	session.Disconnect()
	c.cancelConn()
	<-writerDone

	closeMsgErr := c.wsConn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(closeMessageTimeout),
	)
	if closeMsgErr != nil && !errors.Is(closeMsgErr, websocket.ErrCloseSent) {
		c.log.V(1).Info("Failed to send close message to frontend", "Error", closeMsgErr.Error())
	}

	if closeErr := c.wsConn.Close(); closeErr != nil {
		c.log.V(1).Info("Failed to close frontend connection", "Error", closeErr.Error())
	}
}

func (c *connection) readMessages(session *inspector.HostTargetSession) {
	// Unblocks ReadMessage when the session is ended from the host side.
	stopReading := context.AfterFunc(c.connCtx, func() {
		_ = c.wsConn.SetReadDeadline(time.Now())
	})
	defer stopReading()

	if c.pingPeriod > 0 {
		if setupErr := c.wsConn.SetReadDeadline(time.Now().Add(2 * c.pingPeriod)); setupErr != nil {
			c.log.V(1).Info("Failed to set read deadline", "Error", setupErr.Error())
			return
		}
		c.wsConn.SetPongHandler(func(string) error {
			if c.connCtx.Err() != nil {
				return c.wsConn.SetReadDeadline(time.Now())
			}
			return c.wsConn.SetReadDeadline(time.Now().Add(2 * c.pingPeriod))
		})
	}

	for {
		msgType, msg, readErr := c.wsConn.ReadMessage()
		if readErr != nil {
			var closeErr *websocket.CloseError
			if c.connCtx.Err() == nil && !errors.As(readErr, &closeErr) {
				c.log.V(1).Info("Failed to read message from frontend", "Error", readErr.Error())
			}
			return
		}

		if msgType != websocket.TextMessage {
			c.log.V(1).Info("Ignoring non-text message from frontend", "MessageType", msgType)
			continue
		}

		if waitErr := c.limiter.Wait(c.connCtx); waitErr != nil {
			return
		}

		session.SendMessage(msg)
	}
}

func (c *connection) writeMessages() {
	var pingC <-chan time.Time
	if c.pingPeriod > 0 {
		pingTicker := time.NewTicker(c.pingPeriod)
		defer pingTicker.Stop()
		pingC = pingTicker.C
	}

	for {
		select {
		case <-c.connCtx.Done():
			return

		case msg, isOpen := <-c.outbound.Out:
			if !isOpen {
				return
			}
			_ = c.wsConn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if writeErr := c.wsConn.WriteMessage(websocket.TextMessage, msg); writeErr != nil {
				c.log.V(1).Info("Failed to send message to frontend", "Error", writeErr.Error())
				c.cancelConn()
				return
			}

		case <-pingC:
			_ = c.wsConn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if pingErr := c.wsConn.WriteMessage(websocket.PingMessage, nil); pingErr != nil {
				c.log.V(1).Info("Failed to send ping message to frontend", "Error", pingErr.Error())
			}
		}
	}
}
