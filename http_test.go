package slides

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialWS(t *testing.T, addr, path string) *websocket.Conn {
	t.Helper()
	var conn *websocket.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, _, err = websocket.DefaultDialer.Dial("ws://"+addr+path, nil)
		if err == nil {
			return conn
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("dialing %s: %v", path, err)
	return nil
}

func dialBus(t *testing.T, addr string) *websocket.Conn {
	t.Helper()
	return dialWS(t, addr, "/messagebus")
}

func TestWebSocketBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pres := &Presentation{}
	serverAddr := "127.0.0.1:45369"
	server, err := NewPresentationServer(ctx, pres, "./testdata/deck.md", serverAddr)
	require.NoError(t, err)
	server.Run()
	defer server.Close()

	conn := dialBus(t, serverAddr)
	defer conn.Close()

	err = conn.WriteJSON(WebSocketBusMessage{Type: "subscribe", Topic: "/foo/bar"})
	require.NoError(t, err)

	// Give the read loop a moment to register the subscription.
	time.Sleep(time.Millisecond * 50)
	server.centralBus.Publish("/foo/bar", json.RawMessage(`{"foo":"bar"}`))

	conn.SetReadDeadline(time.Now().Add(time.Second * 5))
	msg := &WebSocketBusMessage{}
	err = conn.ReadJSON(msg)
	require.NoError(t, err)
	assert.Equal(t, "message", msg.Type)
	assert.Equal(t, "/foo/bar", msg.Topic)
	assert.JSONEq(t, `{"foo":"bar"}`, string(msg.Payload))
}

func TestNavigationSync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pres := &Presentation{}
	serverAddr := "127.0.0.1:45370"
	server, err := NewPresentationServer(ctx, pres, "./testdata/deck.md", serverAddr)
	require.NoError(t, err)
	server.Run()
	defer server.Close()

	conn := dialBus(t, serverAddr)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(WebSocketBusMessage{Type: "subscribe", Topic: NavStateTopic}))

	// Same connection, so the subscription is registered before the
	// input is processed.
	payload, err := json.Marshal(wireEvent{Type: "keydown", Key: 34})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(WebSocketBusMessage{
		Type:    "publish",
		Topic:   NavInputTopic,
		Payload: payload,
	}))

	// The advance lands on slide 2 and announces the new fragment.
	deadline := time.Now().Add(time.Second * 5)
	for {
		conn.SetReadDeadline(deadline)
		msg := &WebSocketBusMessage{}
		require.NoError(t, conn.ReadJSON(msg))
		require.Equal(t, NavStateTopic, msg.Topic)

		var change navStateChange
		require.NoError(t, json.Unmarshal(msg.Payload, &change))
		if change.Action == "fragment" {
			assert.Equal(t, "slide-2", change.Slide)
			break
		}
	}
}

// Connecting livereload clients while a rerender broadcast is in flight
// must not corrupt the connection list.
func TestLivereloadConnectDuringRerender(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pres := &Presentation{}
	serverAddr := "127.0.0.1:45372"
	server, err := NewPresentationServer(ctx, pres, "./testdata/deck.md", serverAddr)
	require.NoError(t, err)
	server.Run()
	defer server.Close()

	// Make sure the listener is up before hammering it.
	dialWS(t, serverAddr, "/livereload").Close()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			conn, _, derr := websocket.DefaultDialer.Dial("ws://"+serverAddr+"/livereload", nil)
			if derr == nil {
				conn.Close()
			}
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, server.Rerender())
		}()
	}
	wg.Wait()
}

// An unreachable remote source renders an empty deck instead of failing
// server construction.
func TestRemoteSourceUnreachable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pres := &Presentation{}
	server, err := NewPresentationServer(ctx, pres, "http://127.0.0.1:1/deck.md", "127.0.0.1:45373")
	require.NoError(t, err)
	defer server.Close()

	assert.Empty(t, pres.Slides)
	assert.NotContains(t, string(server.indexBytes), "<section")
	assert.Contains(t, string(server.indexBytes), "js/deck.js")
}

func TestServeIndex(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pres := &Presentation{}
	server, err := NewPresentationServer(ctx, pres, "./testdata/deck.md", "127.0.0.1:45371")
	require.NoError(t, err)
	defer server.Close()

	assert.Contains(t, string(server.indexBytes), `id="slide-1"`)
	assert.Contains(t, string(server.indexBytes), "Test Deck")
	require.Len(t, pres.Slides, 3)
}
