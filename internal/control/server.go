// ABOUTME: WebSocket control endpoint for a running tone stream
// ABOUTME: Accepts tone/set and status requests, optionally advertised via mDNS
package control

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Resonate-Protocol/resonate-tone/internal/discovery"
	"github.com/Resonate-Protocol/resonate-tone/internal/version"
	"github.com/Resonate-Protocol/resonate-tone/pkg/protocol"
	"github.com/Resonate-Protocol/resonate-tone/pkg/tonegen"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultPort is the control listener port
const DefaultPort = 8928

// Tone is the stream being controlled
type Tone interface {
	SetFrequency(hz float64) float64
	SetVolume(v float64) float64
	Status() tonegen.Status
}

// Config configures the control server
type Config struct {
	// Port to listen on (default: 8928)
	Port int

	// Name of the generator for identification
	Name string

	// EnableMDNS advertises the endpoint as _resonate-tone._tcp
	EnableMDNS bool
}

// Server exposes a Tone over websocket
type Server struct {
	config   Config
	serverID string
	tone     Tone
	audio    tonegen.Config

	upgrader websocket.Upgrader
	mux      *http.ServeMux

	httpServer  *http.Server
	mdnsManager *discovery.Manager

	connsMu sync.Mutex
	conns   map[*websocket.Conn]struct{}
	wg      sync.WaitGroup
}

// NewServer creates a control server for tone. cfg is the stream's
// effective configuration, reported in status replies.
func NewServer(config Config, tone Tone, cfg tonegen.Config) (*Server, error) {
	if tone == nil {
		return nil, fmt.Errorf("tone is required")
	}
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Name == "" {
		config.Name = version.Product
	}

	s := &Server{
		config:   config,
		serverID: uuid.New().String(),
		tone:     tone,
		audio:    cfg,
		mux:      http.NewServeMux(),
		upgrader: websocket.Upgrader{
			// controllers run on the local network
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
	s.mux.HandleFunc(discovery.DefaultPath, s.handleWebSocket)
	return s, nil
}

// ID is the server's random instance identifier
func (s *Server) ID() string {
	return s.serverID
}

// Handler serves the control endpoint
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on the configured port and advertises it if enabled.
// It returns once the listener is bound.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Control server error: %v", err)
		}
	}()

	log.Printf("Control server listening on %s (ID: %s)", addr, s.serverID)

	if s.config.EnableMDNS {
		s.mdnsManager = discovery.NewManager(discovery.Config{
			ServiceName: s.config.Name,
			Port:        s.config.Port,
			ServerID:    s.serverID,
		})
		if err := s.mdnsManager.Advertise(); err != nil {
			log.Printf("Failed to start mDNS advertisement: %v", err)
		}
	}
	return nil
}

// Stop closes every controller connection and the listener
func (s *Server) Stop() {
	if s.mdnsManager != nil {
		s.mdnsManager.Stop()
	}

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Printf("Control server shutdown error: %v", err)
		}
	}
	s.wg.Wait()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	log.Printf("Controller connected from %s", r.RemoteAddr)
	s.handleConnection(conn)
}

func (s *Server) handleConnection(conn *websocket.Conn) {
	s.connsMu.Lock()
	s.conns[conn] = struct{}{}
	s.connsMu.Unlock()

	defer func() {
		s.connsMu.Lock()
		delete(s.conns, conn)
		s.connsMu.Unlock()
		conn.Close()
	}()

	hello := protocol.ServerHello{
		ServerID: s.serverID,
		Name:     s.config.Name,
		Version:  protocol.Version,
		DeviceInfo: &protocol.DeviceInfo{
			ProductName:     version.Product,
			Manufacturer:    version.Manufacturer,
			SoftwareVersion: version.Version,
		},
		Status: s.status(),
	}
	if err := conn.WriteJSON(protocol.Message{Type: protocol.TypeServerHello, Payload: hello}); err != nil {
		log.Printf("Error sending hello: %v", err)
		return
	}

	for {
		var msg protocol.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Controller read error: %v", err)
			}
			return
		}

		if err := conn.WriteJSON(s.handleMessage(msg)); err != nil {
			log.Printf("Error sending reply: %v", err)
			return
		}
	}
}

// handleMessage applies one request and builds its reply
func (s *Server) handleMessage(msg protocol.Message) protocol.Message {
	switch msg.Type {
	case protocol.TypeToneSet:
		var req protocol.ToneSet
		if err := protocol.DecodePayload(msg, &req); err != nil {
			return errorMessage(err.Error())
		}
		if req.Frequency != nil {
			s.tone.SetFrequency(*req.Frequency)
		}
		if req.Volume != nil {
			s.tone.SetVolume(*req.Volume)
		}
	case protocol.TypeStatusRequest:
	default:
		return errorMessage(fmt.Sprintf("unknown message type %q", msg.Type))
	}
	return protocol.Message{Type: protocol.TypeToneStatus, Payload: s.status()}
}

func (s *Server) status() protocol.ToneStatus {
	st := s.tone.Status()
	tr := st.Transport
	return protocol.ToneStatus{
		Frequency:    st.Frequency,
		Volume:       st.Volume,
		SampleRate:   s.audio.Audio.SampleRate,
		BlockSamples: s.audio.Audio.BlockSamples,
		Clock:        tr.Clock.String(),
		State:        tr.State.String(),
		Refills:      tr.Refills,
		Misses:       tr.Misses,
		Overruns:     tr.Overruns,
		LastRefillUs: tr.Latency.Last.Microseconds(),
		MaxRefillUs:  tr.Latency.Max.Microseconds(),
		BudgetUs:     tr.Budget.Microseconds(),
		UptimeMs:     st.Uptime.Milliseconds(),
	}
}

func errorMessage(text string) protocol.Message {
	return protocol.Message{Type: protocol.TypeError, Payload: protocol.Error{Message: text}}
}
