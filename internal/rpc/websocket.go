package rpc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsMaxMessageSize = 512 * 1024
	wsReadTimeout    = 60 * time.Second
	wsWriteTimeout   = 10 * time.Second
	wsPingInterval   = 54 * time.Second
)

// WebSocketServer serves the RPC methods plus subscription streams over
// WebSocket connections.
type WebSocketServer struct {
	upgrader  websocket.Upgrader
	registry  *MethodRegistry
	publisher *Publisher

	mu          sync.RWMutex
	connections map[string]*wsConnection
}

type wsConnection struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWebSocketServer creates a WebSocket server sharing the HTTP server's
// method registry.
func NewWebSocketServer(registry *MethodRegistry, publisher *Publisher) *WebSocketServer {
	return &WebSocketServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		registry:    registry,
		publisher:   publisher,
		connections: make(map[string]*wsConnection),
	}
}

// ServeHTTP upgrades the connection and starts the read and write pumps
func (ws *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	wsConn := &wsConnection{
		id:     generateConnectionID(),
		conn:   conn,
		send:   make(chan []byte, 256),
		ctx:    ctx,
		cancel: cancel,
	}

	ws.mu.Lock()
	ws.connections[wsConn.id] = wsConn
	ws.mu.Unlock()

	go ws.readPump(wsConn, getClientIP(r))
	go ws.writePump(wsConn)
}

func (ws *WebSocketServer) readPump(wsConn *wsConnection, clientIP string) {
	defer ws.closeConnection(wsConn)

	wsConn.conn.SetReadLimit(wsMaxMessageSize)
	wsConn.conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	wsConn.conn.SetPongHandler(func(string) error {
		wsConn.conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})

	for {
		_, message, err := wsConn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			return
		}
		ws.handleMessage(wsConn, message, clientIP)
	}
}

func (ws *WebSocketServer) writePump(wsConn *wsConnection) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-wsConn.ctx.Done():
			return
		case <-ticker.C:
			wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := wsConn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case message := <-wsConn.send:
			wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := wsConn.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		}
	}
}

// handleMessage dispatches one WebSocket command. Commands carry their
// parameters at the top level next to the command field.
func (ws *WebSocketServer) handleMessage(wsConn *wsConnection, message []byte, clientIP string) {
	var cmdMap map[string]interface{}
	if err := json.Unmarshal(message, &cmdMap); err != nil {
		ws.sendError(wsConn, nil, RpcErrorInvalidParams("Invalid JSON: "+err.Error()))
		return
	}

	command, ok := cmdMap["command"].(string)
	if !ok || command == "" {
		ws.sendError(wsConn, cmdMap["id"], NewRpcError(RpcMISSING_COMMAND, "missingCommand", "Missing command field"))
		return
	}
	id := cmdMap["id"]

	// Subscription commands are connection-scoped, handled here
	switch command {
	case "subscribe":
		ws.handleSubscribe(wsConn, id, message, true)
		return
	case "unsubscribe":
		ws.handleSubscribe(wsConn, id, message, false)
		return
	}

	handler, exists := ws.registry.Get(command)
	if !exists {
		ws.sendError(wsConn, id, RpcErrorMethodNotFound(command))
		return
	}

	ctx := &RpcContext{
		Context:  wsConn.ctx,
		ClientIP: clientIP,
	}
	if handler.AdminOnly() && !isLocal(clientIP) {
		ws.sendError(wsConn, id, NewRpcError(RpcMISSING_COMMAND, "noPermission", "Admin method requires a local connection"))
		return
	}

	delete(cmdMap, "command")
	delete(cmdMap, "id")
	params, _ := json.Marshal(cmdMap)

	result, rpcErr := handler.Handle(ctx, params)
	if rpcErr != nil {
		ws.sendError(wsConn, id, rpcErr)
		return
	}
	ws.sendResult(wsConn, id, result)
}

type subscribeParams struct {
	Streams []string `json:"streams"`
}

func (ws *WebSocketServer) handleSubscribe(wsConn *wsConnection, id interface{}, message []byte, subscribe bool) {
	var p subscribeParams
	if err := json.Unmarshal(message, &p); err != nil {
		ws.sendError(wsConn, id, RpcErrorInvalidParams("Invalid parameters: "+err.Error()))
		return
	}
	if len(p.Streams) == 0 {
		ws.sendError(wsConn, id, NewRpcError(RpcSTREAM_MALFORMED, "malformedStream", "Missing streams"))
		return
	}
	for _, stream := range p.Streams {
		if !ValidStream(stream) {
			ws.sendError(wsConn, id, NewRpcError(RpcSTREAM_MALFORMED, "malformedStream", "Unknown stream: "+stream))
			return
		}
	}

	if subscribe {
		ws.publisher.Subscribe(wsConn.id, p.Streams, wsConn.send)
	} else {
		ws.publisher.Unsubscribe(wsConn.id, p.Streams)
	}
	ws.sendResult(wsConn, id, map[string]interface{}{})
}

func (ws *WebSocketServer) sendResult(wsConn *wsConnection, id interface{}, result interface{}) {
	response := map[string]interface{}{
		"type":   "response",
		"status": "success",
		"result": result,
	}
	if id != nil {
		response["id"] = id
	}
	ws.send(wsConn, response)
}

func (ws *WebSocketServer) sendError(wsConn *wsConnection, id interface{}, rpcErr *RpcError) {
	response := map[string]interface{}{
		"type":          "response",
		"status":        "error",
		"error":         rpcErr.ErrorString,
		"error_code":    rpcErr.Code,
		"error_message": rpcErr.Message,
	}
	if id != nil {
		response["id"] = id
	}
	ws.send(wsConn, response)
}

func (ws *WebSocketServer) send(wsConn *wsConnection, response map[string]interface{}) {
	data, err := json.Marshal(response)
	if err != nil {
		return
	}
	select {
	case wsConn.send <- data:
	default:
		log.Printf("WebSocket send buffer full, dropping message for %s", wsConn.id)
	}
}

func (ws *WebSocketServer) closeConnection(wsConn *wsConnection) {
	wsConn.cancel()
	wsConn.conn.Close()

	ws.mu.Lock()
	delete(ws.connections, wsConn.id)
	ws.mu.Unlock()

	ws.publisher.Remove(wsConn.id)
}

// CloseAll terminates every open connection, used during shutdown
func (ws *WebSocketServer) CloseAll() {
	ws.mu.Lock()
	conns := make([]*wsConnection, 0, len(ws.connections))
	for _, c := range ws.connections {
		conns = append(conns, c)
	}
	ws.mu.Unlock()

	for _, c := range conns {
		ws.closeConnection(c)
	}
}

func generateConnectionID() string {
	var b [8]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
