package slots

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"parkly/mq"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; tighten for production
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

// HandleStatsWS keeps a dashboard connection open and streams occupancy stats
// for one building. Snapshots are pushed in event arrival order; there is no
// reordering protection beyond what Redis pub/sub provides.
func HandleStatsWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	building := ps.ByName("building")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "WebSocket upgrade failed", http.StatusBadRequest)
		return
	}

	mu.Lock()
	subscribers[building] = append(subscribers[building], conn)
	mu.Unlock()

	// Initial snapshot so the dashboard renders without waiting for a change.
	if st, err := LoadStats(r.Context(), building); err == nil {
		if data, err := json.Marshal(map[string]any{"type": "stats", "stats": st}); err == nil {
			conn.WriteMessage(websocket.TextMessage, data)
		}
	}

	for {
		// Keeps the connection alive until the client disconnects
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

// StartStatsWorker re-aggregates and pushes stats whenever a slot or booking
// event lands for a building with live subscribers.
func StartStatsWorker(ctx context.Context) {
	mq.Subscribe(ctx, func(ev mq.Event) {
		switch ev.Name {
		case mq.SlotUpdated, mq.BookingCreated, mq.BookingReleased:
		default:
			return
		}
		if ev.Building == "" {
			return
		}

		mu.Lock()
		listeners := len(subscribers[ev.Building])
		mu.Unlock()
		if listeners == 0 {
			return
		}

		st, err := LoadStats(ctx, ev.Building)
		if err != nil {
			log.Printf("[StatsWorker] stats reload failed: %v", err)
			return
		}
		data, err := json.Marshal(map[string]any{"type": "stats", "stats": st})
		if err != nil {
			return
		}
		broadcast(ev.Building, data)
	})
}
