package slides

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var (
	writeWait = 10 * time.Second
)

const (
	// NavInputTopic carries browser input events to the server-held
	// navigation machine.
	NavInputTopic = "/nav/input"
	// NavStateTopic broadcasts cursor state changes to all subscribers.
	NavStateTopic = "/nav/state"
)

// WebSocketBusMessage is the wire format of the message bus. Clients send
// "subscribe" and "publish"; the bus delivers "message".
type WebSocketBusMessage struct {
	Type    string          `json:"type"`
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// BusHandler is an in-process subscriber.
type BusHandler func(topic string, payload json.RawMessage)

// MessageBus is a small topic bus bridging websocket clients and
// in-process handlers.
type MessageBus struct {
	mu       sync.Mutex
	conns    map[*websocket.Conn]map[string]bool
	handlers map[string][]BusHandler
}

func NewMessageBus() *MessageBus {
	return &MessageBus{
		conns:    make(map[*websocket.Conn]map[string]bool),
		handlers: make(map[string][]BusHandler),
	}
}

func (b *MessageBus) HandleFunc(topic string, h BusHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

func (b *MessageBus) addConn(ws *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conns[ws] = make(map[string]bool)
}

func (b *MessageBus) removeConn(ws *websocket.Conn) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conns, ws)
}

func (b *MessageBus) subscribe(ws *websocket.Conn, topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if topics, ok := b.conns[ws]; ok {
		topics[topic] = true
	}
}

// Publish delivers a payload to every websocket subscriber of topic and
// every registered in-process handler. Websocket writes happen under the
// bus lock; gorilla connections only support one writer at a time.
// Handlers run synchronously on the publishing goroutine.
func (b *MessageBus) Publish(topic string, payload json.RawMessage) {
	msg := WebSocketBusMessage{Type: "message", Topic: topic, Payload: payload}

	b.mu.Lock()
	for ws, topics := range b.conns {
		if !topics[topic] {
			continue
		}
		ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := ws.WriteJSON(msg); err != nil {
			ws.Close()
			delete(b.conns, ws)
		}
	}
	handlers := append([]BusHandler(nil), b.handlers[topic]...)
	b.mu.Unlock()

	for _, h := range handlers {
		h(topic, payload)
	}
}

// wireEvent is the JSON shape of a navigation input on the bus. Click
// events report the client viewport alongside the coordinates.
type wireEvent struct {
	Type      string  `json:"type"`
	Key       int     `json:"key,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
	Direction string  `json:"direction,omitempty"`
	Fragment  string  `json:"fragment,omitempty"`
}

func parseWireEvent(payload json.RawMessage) (Event, wireEvent, error) {
	var we wireEvent
	if err := json.Unmarshal(payload, &we); err != nil {
		return Event{}, we, err
	}

	ev := Event{Key: we.Key, X: we.X, Y: we.Y, Fragment: we.Fragment}
	switch we.Type {
	case "load":
		ev.Type = EventLoad
	case "keydown":
		ev.Type = EventKeydown
	case "click":
		ev.Type = EventClick
	case "swipe":
		ev.Type = EventSwipe
		if we.Direction == "right" {
			ev.Direction = SwipeRight
		} else {
			ev.Direction = SwipeLeft
		}
	case "fetchComplete":
		ev.Type = EventFetchComplete
	case "hashchange":
		ev.Type = EventHashChange
	default:
		return Event{}, we, fmt.Errorf("unknown event type %q", we.Type)
	}
	return ev, we, nil
}

// navStateChange is what the server publishes on NavStateTopic.
type navStateChange struct {
	Action string `json:"action"` // role, scroll or fragment
	Slide  string `json:"slide"`
	Role   string `json:"role,omitempty"`
}

// busSurface mirrors navigation side effects onto the message bus so
// every connected client can follow the shared cursor.
type busSurface struct {
	bus           *MessageBus
	width, height float64
}

func (s *busSurface) Size() (float64, float64) {
	return s.width, s.height
}

func (s *busSurface) setSize(width, height float64) {
	if width > 0 && height > 0 {
		s.width, s.height = width, height
	}
}

func (s *busSurface) publish(change navStateChange) {
	payload, err := json.Marshal(change)
	if err != nil {
		return
	}
	s.bus.Publish(NavStateTopic, payload)
}

func (s *busSurface) SetRole(sectionID string, role Role) {
	s.publish(navStateChange{Action: "role", Slide: sectionID, Role: role.String()})
}

func (s *busSurface) ScrollTo(sectionID string) {
	s.publish(navStateChange{Action: "scroll", Slide: sectionID})
}

// busHistory holds the server-side fragment pointer and announces pushes.
type busHistory struct {
	surface  *busSurface
	fragment string
}

func (h *busHistory) PushFragment(fragment string) {
	h.fragment = fragment
	h.surface.publish(navStateChange{Action: "fragment", Slide: fragment})
}

func (h *busHistory) Fragment() string {
	return h.fragment
}

// queuedEvent pairs a navigation event with the viewport it was observed
// in, so the machine goroutine can update the surface before handling.
type queuedEvent struct {
	ev            Event
	width, height float64
}

type PresentationServer struct {
	source          string
	pres            *Presentation
	ctx             context.Context
	httpServer      *http.Server
	indexBytes      []byte
	wsUpgrader      websocket.Upgrader
	livereloadLock  sync.Mutex
	livereloadConns []*websocket.Conn

	centralBus *MessageBus
	surface    *busSurface
	history    *busHistory
	machine    *Machine
	events     chan queuedEvent

	indexLock *sync.Mutex
}

func NewPresentationServer(ctx context.Context, pres *Presentation, source, addr string) (*PresentationServer, error) {
	server := &http.Server{
		Addr: addr,
	}

	bus := NewMessageBus()
	surface := &busSurface{bus: bus, width: 1024, height: 768}

	p := &PresentationServer{
		ctx:             ctx,
		pres:            pres,
		source:          source,
		httpServer:      server,
		indexLock:       &sync.Mutex{},
		wsUpgrader:      websocket.Upgrader{},
		livereloadConns: make([]*websocket.Conn, 0, 100),
		centralBus:      bus,
		surface:         surface,
		history:         &busHistory{surface: surface},
		events:          make(chan queuedEvent, 64),
	}

	if err := p.Rerender(); err != nil {
		return nil, err
	}

	bus.HandleFunc(NavInputTopic, p.handleNavInput)

	mux := ServeAssets()
	mux.Handle("/", http.HandlerFunc(p.serveIndex))
	mux.Handle("/livereload", http.HandlerFunc(p.livereloadHandler))
	mux.Handle("/messagebus", http.HandlerFunc(p.messageBusHandler))
	server.Handler = mux

	go p.runMachine(ctx)

	return p, nil
}

func (p *PresentationServer) serveIndex(w http.ResponseWriter, r *http.Request) {
	p.indexLock.Lock()
	defer p.indexLock.Unlock()
	w.Write(p.indexBytes)
}

func (p *PresentationServer) livereloadHandler(w http.ResponseWriter, r *http.Request) {
	ws, err := p.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	p.livereloadLock.Lock()
	p.livereloadConns = append(p.livereloadConns, ws)
	p.livereloadLock.Unlock()
	ctx, cancel := context.WithCancel(p.ctx)
	go ping(ctx, cancel, ws)
}

func (p *PresentationServer) messageBusHandler(w http.ResponseWriter, r *http.Request) {
	ws, err := p.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	p.centralBus.addConn(ws)

	go func() {
		defer func() {
			p.centralBus.removeConn(ws)
			ws.Close()
		}()
		for {
			msg := &WebSocketBusMessage{}
			if err := ws.ReadJSON(msg); err != nil {
				return
			}
			switch msg.Type {
			case "subscribe":
				p.centralBus.subscribe(ws, msg.Topic)
			case "publish":
				p.centralBus.Publish(msg.Topic, msg.Payload)
			}
		}
	}()
}

func (p *PresentationServer) handleNavInput(topic string, payload json.RawMessage) {
	ev, we, err := parseWireEvent(payload)
	if err != nil {
		logrus.WithError(err).Debug("dropping malformed navigation event")
		return
	}
	select {
	case p.events <- queuedEvent{ev: ev, width: we.Width, height: we.Height}:
	default:
		logrus.Warn("navigation event queue full, dropping event")
	}
}

// runMachine drains navigation events one at a time; the machine never
// sees concurrent input.
func (p *PresentationServer) runMachine(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case qe := <-p.events:
			p.indexLock.Lock()
			m := p.machine
			p.indexLock.Unlock()
			if m == nil {
				continue
			}
			p.surface.setSize(qe.width, qe.height)
			m.Handle(qe.ev)
		}
	}
}

func ping(ctx context.Context, cancel context.CancelFunc, ws *websocket.Conn) {
	ticker := time.NewTicker(time.Second * 30)
	defer ticker.Stop()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				logrus.WithError(err).Debug("livereload ping failed")
				return
			}
		}
	}
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Rerender reloads the source document, rebuilds the deck and the
// navigation machine, and notifies livereload clients. An unreachable
// remote source renders an empty deck with a diagnostic instead of
// failing; a local read error is fatal.
func (p *PresentationServer) Rerender() (err error) {
	p.indexLock.Lock()

	src, loadErr := LoadSource(p.ctx, p.source)
	switch {
	case loadErr == nil:
		p.pres.Slides = nil
		p.indexBytes, err = RenderIndex(p.pres, src)
	case isRemote(p.source):
		logrus.WithError(loadErr).Warn("deck source unreachable, rendering empty deck")
		p.pres.Slides = nil
		buf := &bytes.Buffer{}
		err = DefaultRenderer().ExecuteTemplate(buf, "main", p.pres)
		p.indexBytes = buf.Bytes()
	default:
		err = loadErr
	}

	if err == nil {
		p.machine, err = NewMachine(p.pres.Slides, p.surface, p.history, p.pres.Nav)
	}
	p.indexLock.Unlock()
	if err != nil {
		return err
	}

	p.handleNavInput(NavInputTopic, json.RawMessage(`{"type":"load"}`))

	go func() {
		p.livereloadLock.Lock()
		defer p.livereloadLock.Unlock()
		for _, ws := range p.livereloadConns {
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.TextMessage, []byte(`Reload`)); err != nil {
				ws.Close()
			}
		}
	}()
	return nil
}

func (p *PresentationServer) Close() error {
	ctx, cancel := context.WithTimeout(p.ctx, time.Second*15)
	defer cancel()
	return p.httpServer.Shutdown(ctx)
}

func (p *PresentationServer) Run() {
	go func() {
		p.httpServer.ListenAndServe()
	}()
}
