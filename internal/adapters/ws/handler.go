package ws

import (
	"context"
	"net/http"
	"sync"

	"quickgrab-listing-feed/internal/config"
	"quickgrab-listing-feed/internal/ports/outbound"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const eventBufferSize = 16

// FeedSocketHandler manages WebSocket connections that receive feed updates
type FeedSocketHandler struct {
	clients   map[string]*WsClient // clientID -> Client
	clientsMu sync.RWMutex
	upgrader  websocket.Upgrader
	notifier  outbound.FeedNotifier
	logger    zerolog.Logger
}

type FeedSocketHandlerParams struct {
	Config   *config.Config
	Notifier outbound.FeedNotifier
	Logger   zerolog.Logger
}

// NewHandler creates a new feed socket handler
func NewHandler(params FeedSocketHandlerParams) *FeedSocketHandler {
	return &FeedSocketHandler{
		clients: make(map[string]*WsClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  params.Config.WebSocket.ReadBufferSize,
			WriteBufferSize: params.Config.WebSocket.WriteBufferSize,
		},
		notifier: params.Notifier,
		logger:   params.Logger.With().Str("component", "feed_socket").Logger(),
	}
}

// ServeHTTP upgrades the request and streams feed updates to the client
func (handler *FeedSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := handler.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		handler.logger.Warn().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	client := NewClient(WsClientParams{
		Conn:   conn,
		Logger: handler.logger,
	})

	eventChan := make(chan outbound.FeedEvent, eventBufferSize)
	if err := handler.notifier.Subscribe(context.Background(), client.id, eventChan); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to subscribe client to feed")
		conn.WriteJSON(NewErrorMessage("feed notifications unavailable"))
		client.Stop()
		return
	}

	handler.registerClient(client)
	client.Start()
	client.Send(NewServerMessage(MessageTypeSubscribed))

	go handler.listenForClientEvents(client, eventChan)

	go func() {
		<-client.Done()
		handler.unregisterClient(client)
	}()

	handler.logger.Info().Str("client_id", client.id).Msg("Feed socket client connected")
}

func (handler *FeedSocketHandler) registerClient(client *WsClient) {
	handler.clientsMu.Lock()
	defer handler.clientsMu.Unlock()
	handler.clients[client.id] = client
	handler.logger.Debug().Str("client_id", client.id).Int("total_clients", len(handler.clients)).Msg("Client registered")
}

func (handler *FeedSocketHandler) unregisterClient(client *WsClient) {
	if err := handler.notifier.Unsubscribe(context.Background(), client.id); err != nil {
		handler.logger.Error().Err(err).Str("client_id", client.id).Msg("Failed to unsubscribe client")
	}

	client.Stop()

	handler.clientsMu.Lock()
	delete(handler.clients, client.id)
	total := len(handler.clients)
	handler.clientsMu.Unlock()

	handler.logger.Info().Str("client_id", client.id).Int("total_clients", total).Msg("Feed socket client disconnected")
}

// listenForClientEvents forwards notifier events to the client
func (handler *FeedSocketHandler) listenForClientEvents(client *WsClient, eventChan <-chan outbound.FeedEvent) {
	for {
		select {
		case event := <-eventChan:
			if err := client.Send(NewFeedUpdatedMessage(event)); err != nil {
				handler.logger.Warn().Err(err).Str("client_id", client.id).Msg("Failed to send feed update to client")
			}
		case <-client.Done():
			return
		}
	}
}

// GetConnectedClients returns the number of connected clients
func (handler *FeedSocketHandler) GetConnectedClients() int {
	handler.clientsMu.RLock()
	defer handler.clientsMu.RUnlock()
	return len(handler.clients)
}

// Shutdown disconnects every client
func (handler *FeedSocketHandler) Shutdown() {
	handler.clientsMu.RLock()
	clients := make([]*WsClient, 0, len(handler.clients))
	for _, client := range handler.clients {
		clients = append(clients, client)
	}
	handler.clientsMu.RUnlock()

	for _, client := range clients {
		client.Stop()
	}
}
