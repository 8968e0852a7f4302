package notifications

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

func TestFeedBroadcast(t *testing.T) {
	router := httprouter.New()
	router.GET("/ws/notifications/:building", HandleFeedWS)
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/notifications/HQ"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// give the handler a moment to register the subscriber
	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(subscribers["HQ"])
		mu.Unlock()
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	payload := []byte(`{"notifid":"n1","type":"unauthorized_parking"}`)
	broadcast("HQ", payload)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, got, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("got %s, want %s", got, payload)
	}

	// a different building must not receive anything
	broadcast("Annex", payload)
}
