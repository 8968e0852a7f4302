package notifications

import (
	"context"
	"net/http"
	"sync"

	"parkly/mq"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

// HandleFeedWS streams newly created notifications for one building, the
// toast path. Documents are forwarded in arrival order, unfiltered.
func HandleFeedWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	building := ps.ByName("building")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers[building] = append(subscribers[building], conn)
	mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	mu.Lock()
	conns := subscribers[building]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[building] = newList
	mu.Unlock()

	conn.Close()
}

func broadcast(building string, val []byte) {
	mu.Lock()
	defer mu.Unlock()

	conns := subscribers[building]
	newList := conns[:0]
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, val); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}
	subscribers[building] = newList
}

// StartFeedWorker forwards notification events to the building's subscribers.
func StartFeedWorker(ctx context.Context) {
	mq.Subscribe(ctx, func(ev mq.Event) {
		if ev.Name != mq.NotificationCreated || ev.Payload == "" {
			return
		}
		broadcast(ev.Building, []byte(ev.Payload))
	})
}
