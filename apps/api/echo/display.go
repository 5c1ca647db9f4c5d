package echoapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shusseki/core"
	"github.com/trezcool/shusseki/core/attendance"
)

const (
	wsWriteWait  = 10 * time.Second
	wsEventQueue = 64

	wsEventBoard      = "BOARD"
	wsEventBoardEmpty = "BOARD_EMPTY"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// displayHub pushes the current board to every connected display after each state change.
type displayHub struct {
	svc    *attendance.Service
	logger core.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool

	events chan attendance.Event
	done   chan struct{}
	once   sync.Once
}

func newDisplayHub(svc *attendance.Service, logger core.Logger) *displayHub {
	hub := &displayHub{
		svc:     svc,
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
		events:  make(chan attendance.Event, wsEventQueue),
		done:    make(chan struct{}),
	}
	svc.Subscribe(hub.onEvent)
	go hub.run()
	return hub
}

// onEvent never blocks the command that published the event; a full queue drops it,
// the next broadcast carries the latest board anyway.
func (hub *displayHub) onEvent(evt attendance.Event) {
	select {
	case hub.events <- evt:
	case <-hub.done:
	default:
		hub.logger.Warn("display event dropped", map[string]interface{}{"event": evt.Type})
	}
}

func (hub *displayHub) run() {
	for {
		select {
		case <-hub.done:
			return
		case <-hub.events:
			hub.broadcast(hub.boardMessage())
		}
	}
}

func (hub *displayHub) boardMessage() WSMessage {
	board, err := hub.svc.Board("")
	if err != nil {
		return WSMessage{Event: wsEventBoardEmpty}
	}
	return WSMessage{Event: wsEventBoard, Data: board}
}

func (hub *displayHub) broadcast(msg WSMessage) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for conn := range hub.clients {
		if err := send(conn, msg); err != nil {
			delete(hub.clients, conn)
			_ = conn.Close()
		}
	}
}

func send(conn *websocket.Conn, msg WSMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}

// serve upgrades the request and sends the current board right away.
func (hub *displayHub) serve(ctx echo.Context) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return errors.Wrap(err, "upgrading display connection")
	}

	hub.mu.Lock()
	if hub.closed {
		hub.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	if err = send(conn, hub.boardMessage()); err != nil {
		hub.mu.Unlock()
		_ = conn.Close()
		return nil
	}
	hub.clients[conn] = struct{}{}
	hub.mu.Unlock()

	go hub.readPump(conn)
	return nil
}

// readPump discards incoming messages; it only notices disconnections.
func (hub *displayHub) readPump(conn *websocket.Conn) {
	defer func() {
		hub.mu.Lock()
		delete(hub.clients, conn)
		hub.mu.Unlock()
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (hub *displayHub) close() {
	hub.once.Do(func() {
		close(hub.done)
		hub.mu.Lock()
		defer hub.mu.Unlock()
		hub.closed = true
		for conn := range hub.clients {
			_ = conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(time.Second),
			)
			_ = conn.Close()
			delete(hub.clients, conn)
		}
	})
}
