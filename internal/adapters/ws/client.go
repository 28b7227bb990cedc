package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quickgrab-listing-feed/internal/config"
	"quickgrab-listing-feed/internal/domain/shared"

	"github.com/alitto/pond"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

// Liveness timings; tests shorten them
var (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type WsClient struct {
	id         string
	conn       *websocket.Conn
	sendChan   chan *ServerMessage
	ctx        context.Context
	cancel     context.CancelFunc
	workerPool *pond.WorkerPool
	pongWait   time.Duration
	pingPeriod time.Duration
	stopped    bool
	mu         sync.Mutex
	logger     zerolog.Logger
}

type WsClientParams struct {
	Conn   *websocket.Conn
	Logger zerolog.Logger
}

// NewClient creates a new feed socket client
func NewClient(params WsClientParams) *WsClient {
	ctx, cancel := context.WithCancel(context.Background())

	pool := pond.New(
		config.WSMaxWorkers,
		config.WSMaxCapacity,
		pond.Context(ctx),
		pond.Strategy(pond.Balanced()),
	)

	id := uuid.New().String()
	return &WsClient{
		id:         id,
		conn:       params.Conn,
		sendChan:   make(chan *ServerMessage, sendBufferSize),
		ctx:        ctx,
		cancel:     cancel,
		workerPool: pool,
		pongWait:   pongWait,
		pingPeriod: pingPeriod,
		logger:     params.Logger.With().Str("client_id", id).Logger(),
	}
}

func (client *WsClient) Start() {
	go client.messageSender()
	go client.messageReceiver()
}

// Done is closed once the client disconnects or is stopped
func (client *WsClient) Done() <-chan struct{} {
	return client.ctx.Done()
}

func (client *WsClient) Stop() {
	client.mu.Lock()
	defer client.mu.Unlock()

	if client.stopped {
		return
	}
	client.stopped = true

	client.cancel()
	client.conn.Close()
	client.workerPool.Stop()
}

// Send queues a message for the client
func (client *WsClient) Send(msg *ServerMessage) error {
	client.mu.Lock()
	stopped := client.stopped
	client.mu.Unlock()
	if stopped {
		return shared.ErrClientStopped
	}

	select {
	case client.sendChan <- msg:
		return nil
	case <-client.ctx.Done():
		return shared.ErrClientStopped
	case <-time.After(100 * time.Millisecond):
		return shared.ErrClientSendTimeout
	}
}

// messageSender is the only goroutine writing to the connection
func (client *WsClient) messageSender() {
	ticker := time.NewTicker(client.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-client.sendChan:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteJSON(msg); err != nil {
				client.logger.Error().Err(err).Msg("Failed to send message to client")
				client.cancel()
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.logger.Debug().Err(err).Msg("Failed to ping client")
				client.cancel()
				return
			}
		case <-client.ctx.Done():
			return
		}
	}
}

// messageReceiver drops the client when no frame or pong arrives within pongWait
func (client *WsClient) messageReceiver() {
	client.conn.SetReadDeadline(time.Now().Add(client.pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(client.pongWait))
	})

	for {
		_, message, err := client.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				client.logger.Error().Err(err).Msg("WebSocket read error for client")
			} else {
				client.logger.Debug().Str("error", err.Error()).Msg("WebSocket connection closed for client")
			}
			client.cancel()
			return
		}

		client.conn.SetReadDeadline(time.Now().Add(client.pongWait))

		submitted := client.workerPool.TrySubmit(func() {
			if err := client.handleMessage(message); err != nil {
				client.logger.Warn().Err(err).Msg("Failed to handle client message")
				client.Send(NewErrorMessage(err.Error()))
			}
		})
		if !submitted {
			client.logger.Warn().Msg("Worker pool saturated or stopped, dropping client message")
		}
	}
}

func (client *WsClient) handleMessage(data []byte) error {
	msg, err := ParseClientMessage(data)
	if err != nil {
		return fmt.Errorf("invalid message format: %w", err)
	}

	if err := msg.Validate(); err != nil {
		return fmt.Errorf("message validation failed: %w", err)
	}

	// ping is the only client message today
	return client.Send(NewServerMessage(MessageTypePong))
}
