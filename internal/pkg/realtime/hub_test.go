package realtime

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// newTestGateway 起一个真实的 websocket 端点，连接按 uid 查询参数归属用户
func newTestGateway(t *testing.T) (*Hub, *httptest.Server, chan *Connection) {
	t.Helper()
	hub := NewHub()
	attached := make(chan *Connection, 8)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := strconv.ParseUint(r.URL.Query().Get("uid"), 10, 64)
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conn := NewConnection(userID, ws)
		hub.Attach(conn)
		attached <- conn
	}))
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return hub, server, attached
}

func dialGateway(t *testing.T, server *httptest.Server, attached chan *Connection, userID uint64) (*websocket.Conn, *Connection) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/?uid=" + strconv.FormatUint(userID, 10)
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case conn := <-attached:
		return client, conn
	case <-time.After(time.Second):
		t.Fatal("connection not attached")
		return nil, nil
	}
}

func readFrame(t *testing.T, client *websocket.Conn) *Frame {
	t.Helper()
	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var f Frame
	if err := json.Unmarshal(payload, &f); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	return &f
}

func expectNoFrame(t *testing.T, client *websocket.Conn) {
	t.Helper()
	_ = client.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, payload, err := client.ReadMessage(); err == nil {
		t.Fatalf("unexpected frame: %s", payload)
	}
}

func TestEmitDeliversToRoom(t *testing.T) {
	hub, server, attached := newTestGateway(t)
	clientA, connA := dialGateway(t, server, attached, 1)
	clientB, connB := dialGateway(t, server, attached, 2)

	hub.Subscribe(connA.ID, ChatRoom(7))
	hub.Subscribe(connB.ID, ChatRoom(7))

	delivered := hub.Emit(ChatRoom(7), "receive_message", map[string]any{"content": "大家好"}, "")
	if delivered != 2 {
		t.Fatalf("delivered = %d, want 2", delivered)
	}

	for _, client := range []*websocket.Conn{clientA, clientB} {
		f := readFrame(t, client)
		if f.Event != "receive_message" {
			t.Errorf("event = %q, want receive_message", f.Event)
		}
		var data map[string]string
		if err := json.Unmarshal(f.Data, &data); err != nil || data["content"] != "大家好" {
			t.Errorf("data = %s, err = %v", f.Data, err)
		}
	}
}

func TestEmitSkipsExceptedConnection(t *testing.T) {
	hub, server, attached := newTestGateway(t)
	clientA, connA := dialGateway(t, server, attached, 1)
	clientB, connB := dialGateway(t, server, attached, 2)

	hub.Subscribe(connA.ID, ChatRoom(7))
	hub.Subscribe(connB.ID, ChatRoom(7))

	delivered := hub.Emit(ChatRoom(7), "typing", map[string]uint64{"user_id": 1}, connA.ID)
	if delivered != 1 {
		t.Fatalf("delivered = %d, want 1", delivered)
	}
	if f := readFrame(t, clientB); f.Event != "typing" {
		t.Errorf("event = %q, want typing", f.Event)
	}
	expectNoFrame(t, clientA)
}

func TestEmitToEmptyRoom(t *testing.T) {
	hub, _, _ := newTestGateway(t)
	if delivered := hub.Emit(ChatRoom(404), "typing", nil, ""); delivered != 0 {
		t.Fatalf("delivered = %d, want 0", delivered)
	}
}

func TestEmitToUserCoversAllConnections(t *testing.T) {
	hub, server, attached := newTestGateway(t)
	// 同一用户的两个终端
	clientA, _ := dialGateway(t, server, attached, 9)
	clientB, _ := dialGateway(t, server, attached, 9)
	clientOther, _ := dialGateway(t, server, attached, 10)

	delivered := hub.EmitToUser(9, "call_user", map[string]string{"from": "conn-x"})
	if delivered != 2 {
		t.Fatalf("delivered = %d, want 2", delivered)
	}
	for _, client := range []*websocket.Conn{clientA, clientB} {
		if f := readFrame(t, client); f.Event != "call_user" {
			t.Errorf("event = %q, want call_user", f.Event)
		}
	}
	expectNoFrame(t, clientOther)
}

func TestEmitToConnOwnerResolvesPersonalRoom(t *testing.T) {
	hub, server, attached := newTestGateway(t)
	// 同一用户的两个终端，按其中一个连接ID寻址应覆盖两端
	clientA, connA := dialGateway(t, server, attached, 9)
	clientB, _ := dialGateway(t, server, attached, 9)

	delivered := hub.EmitToConnOwner(connA.ID, "call_accepted", map[string]string{"from": "conn-x"})
	if delivered != 2 {
		t.Fatalf("delivered = %d, want 2", delivered)
	}
	for _, client := range []*websocket.Conn{clientA, clientB} {
		if f := readFrame(t, client); f.Event != "call_accepted" {
			t.Errorf("event = %q, want call_accepted", f.Event)
		}
	}

	if delivered = hub.EmitToConnOwner("no-such-conn", "call_accepted", nil); delivered != 0 {
		t.Fatalf("unknown conn delivered = %d, want 0", delivered)
	}
}

func TestIsUserOnlineTracksAttachDetach(t *testing.T) {
	hub, server, attached := newTestGateway(t)
	_, connA := dialGateway(t, server, attached, 1)
	_, connB := dialGateway(t, server, attached, 1)

	if !hub.IsUserOnline(1) {
		t.Fatal("user should be online")
	}
	hub.Detach(connA)
	if !hub.IsUserOnline(1) {
		t.Fatal("user still has one connection")
	}
	hub.Detach(connB)
	if hub.IsUserOnline(1) {
		t.Fatal("user should be offline")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub, server, attached := newTestGateway(t)
	client, conn := dialGateway(t, server, attached, 1)

	hub.Subscribe(conn.ID, ChatRoom(7))
	hub.Unsubscribe(conn.ID, ChatRoom(7))

	if delivered := hub.Emit(ChatRoom(7), "typing", nil, ""); delivered != 0 {
		t.Fatalf("delivered = %d, want 0", delivered)
	}
	expectNoFrame(t, client)
}

func TestDetachLeavesAllRooms(t *testing.T) {
	hub, server, attached := newTestGateway(t)
	_, conn := dialGateway(t, server, attached, 1)

	hub.Subscribe(conn.ID, ChatRoom(7))
	hub.Subscribe(conn.ID, ChatRoom(8))
	hub.Detach(conn)

	if delivered := hub.Emit(ChatRoom(7), "typing", nil, ""); delivered != 0 {
		t.Fatalf("room 7 delivered = %d, want 0", delivered)
	}
	if delivered := hub.EmitToUser(1, "typing", nil); delivered != 0 {
		t.Fatalf("user room delivered = %d, want 0", delivered)
	}
}

func TestCloseDisconnectsClients(t *testing.T) {
	hub, server, attached := newTestGateway(t)
	client, _ := dialGateway(t, server, attached, 1)

	hub.Close()

	_ = client.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := client.ReadMessage(); err == nil {
		t.Fatal("expected close error")
	}
	if hub.IsUserOnline(1) {
		t.Fatal("user should be offline after close")
	}
}
