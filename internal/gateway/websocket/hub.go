// Package websocket 实现事件推送网关
// 渲染端通过 /ws 建立长连接，服务端把横幅、来电、通话台词和刷新信号
// 以 JSON 事件广播给所有在线连接
package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"phone_sim_server/internal/service/reconcile"
)

// 事件类型
const (
	EventNotification = "notification"
	EventIncomingCall = "incoming_call"
	EventCallUpdate   = "call_update"
	EventRefresh      = "refresh"
)

const sendBufferSize = 64

// Event 推送给渲染端的一条事件
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 检查连接的Origin头
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client 一个渲染端连接
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub 连接管理器，同时实现 reconcile.Notifier
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: map[*Client]struct{}{}}
}

// Connect 把 HTTP 连接升级为 WebSocket 并注册进连接表
// GET /ws
func (h *Hub) Connect(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws升级失败", zap.Error(err))
		return
	}
	client := &Client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	go h.writePump(client)
	go h.readPump(client)
	zap.L().Info("ws连接成功")
}

// readPump 渲染端不上行业务数据，只监听连接关闭
func (h *Hub) readPump(client *Client) {
	defer h.drop(client)
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(client *Client) {
	for msg := range client.send {
		if err := client.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			zap.L().Error("ws写入失败", zap.Error(err))
			return
		}
	}
}

// drop 注销连接并释放资源
func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
	}
	h.mu.Unlock()
	if ok {
		close(client.send)
		_ = client.conn.Close()
	}
}

// Broadcast 把事件推给所有在线连接
// 发送缓冲已满的慢连接丢弃本条事件，不阻塞广播
func (h *Hub) Broadcast(evt Event) {
	payload, err := json.Marshal(evt)
	if err != nil {
		zap.L().Error("事件序列化失败", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			zap.L().Warn("ws发送缓冲已满，丢弃事件", zap.String("type", evt.Type))
		}
	}
}

// Close 关闭全部连接
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = map[*Client]struct{}{}
	h.mu.Unlock()
	for client := range clients {
		close(client.send)
		_ = client.conn.Close()
	}
}

// ===== reconcile.Notifier =====

func (h *Hub) ShowNotification(contactID, displayName, preview, app string) {
	h.Broadcast(Event{Type: EventNotification, Data: gin.H{
		"contactId": contactID,
		"name":      displayName,
		"preview":   preview,
		"app":       app,
	}})
}

func (h *Hub) IncomingCall(contactID, name string) {
	h.Broadcast(Event{Type: EventIncomingCall, Data: gin.H{
		"contactId": contactID,
		"name":      name,
	}})
}

func (h *Hub) CallUpdate(kind, contactID, name, content string) {
	h.Broadcast(Event{Type: EventCallUpdate, Data: gin.H{
		"kind":      kind,
		"contactId": contactID,
		"name":      name,
		"content":   content,
	}})
}

func (h *Hub) SignalRefresh(r reconcile.Refresh) {
	h.Broadcast(Event{Type: EventRefresh, Data: r})
}
