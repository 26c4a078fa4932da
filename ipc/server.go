package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/smallnest/swarmthing/log"
)

// Server is the inbound IPC listener: POST /message with body
// {"content": string} answered by {"status":"ok","received": ack}.
type Server struct {
	gateway *Gateway
	addr    string
	logger  log.Logger
	httpSrv *http.Server
}

// NewServer creates a listener bound to addr (e.g. "127.0.0.1:8080")
// serving the given gateway.
func NewServer(gateway *Gateway, addr string, logger log.Logger) *Server {
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	s := &Server{
		gateway: gateway,
		addr:    addr,
		logger:  logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/message", s.handleMessage)
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Addr returns the configured bind address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the server's HTTP handler, mainly for tests that
// mount it on their own listener.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks serving requests until Shutdown or a listener
// error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("IPC server starting on http://%s", s.addr)
	return s.httpSrv.ListenAndServe()
}

// Serve serves on an already-bound listener. Used by tests and by
// callers that need to know the port before serving.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("IPC server starting on http://%s", ln.Addr())
	return s.httpSrv.Serve(ln)
}

// Close immediately closes the listener and any active connections.
func (s *Server) Close() error {
	return s.httpSrv.Close()
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	// The sender's transport address attributes queued proposals.
	ack := s.gateway.Receive(req.Content, r.RemoteAddr)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(messageResponse{Status: "ok", Received: ack}); err != nil {
		s.logger.Error("failed to write response: %v", err)
	}
}
