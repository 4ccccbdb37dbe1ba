// Package server serves rendered chord sheets over HTTP and pushes live key
// changes to every viewer of a song over websockets.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"WorshipHub/core/api"
	"WorshipHub/core/cipher"
	"WorshipHub/core/theory"
	"WorshipHub/logger"
	"WorshipHub/model"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// Backend is the part of the API client the server reads through.
type Backend interface {
	LoadCipher(ctx context.Context, musicID string) (*model.Music, cipher.Cipher, error)
	GetSetlist(ctx context.Context, id string) (*model.Setlist, error)
	Refresh(ctx context.Context) ([]model.Group, error)
	InvalidateAll(ctx context.Context)
}

// SetlistSheet is every music of a setlist rendered in play order.
type SetlistSheet struct {
	SetlistID string         `json:"setlistId"`
	Name      string         `json:"name"`
	Date      string         `json:"date,omitempty"`
	Sheets    []cipher.Sheet `json:"sheets"`
}

// Server is the preview server.
type Server struct {
	backend  Backend
	hub      *Hub
	router   *mux.Router
	upgrader websocket.Upgrader
}

// New builds the router. The hub is started by Start (or by the caller when
// only Handler is used).
func New(backend Backend) *Server {
	s := &Server{
		backend: backend,
		hub:     NewHub(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/api/musics/{id}/sheet", s.handleMusicSheet).Methods(http.MethodGet)
	router.HandleFunc("/api/setlists/{id}/sheet", s.handleSetlistSheet).Methods(http.MethodGet)
	router.HandleFunc("/api/cache/invalidate", s.handleInvalidate).Methods(http.MethodPost)
	router.HandleFunc("/api/groups/refresh", s.handleRefresh).Methods(http.MethodPost)
	router.HandleFunc("/ws/musics/{id}", s.handleWebSocket).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go s.hub.Run()
	defer s.hub.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("preview server listening", logger.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down preview server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("preview server stopped")
	return nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) sheet(ctx context.Context, musicID, key string) (cipher.Sheet, error) {
	m, c, err := s.backend.LoadCipher(ctx, musicID)
	if err != nil {
		return cipher.Sheet{}, err
	}
	return cipher.NewSheet(m, c, key)
}

func (s *Server) handleMusicSheet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sheet, err := s.sheet(r.Context(), id, r.URL.Query().Get("key"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

func (s *Server) handleSetlistSheet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	setlist, err := s.backend.GetSetlist(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	entries := make([]model.SetlistMusic, len(setlist.Musics))
	copy(entries, setlist.Musics)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Position < entries[j].Position })

	out := SetlistSheet{SetlistID: setlist.ID, Name: setlist.Name, Date: setlist.Date, Sheets: make([]cipher.Sheet, 0, len(entries))}
	for _, e := range entries {
		sheet, err := s.sheet(ctx, e.MusicID, e.Tone)
		if err != nil {
			writeError(w, err)
			return
		}
		out.Sheets = append(out.Sheets, sheet)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	s.backend.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	groups, err := s.backend.Refresh(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	musicID := mux.Vars(r)["id"]
	ctx := r.Context()

	sheet, err := s.sheet(ctx, musicID, r.URL.Query().Get("key"))
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("failed to upgrade websocket", logger.String("music", musicID), logger.ErrorField(err))
		return
	}

	v := newViewer(s.hub, conn, musicID)
	if !s.hub.Register(v) {
		conn.Close()
		return
	}
	go v.WritePump()
	v.Send(sheetMessage(sheet))
	v.ReadPump(ctx, s.handleMessage)
}

func (s *Server) handleMessage(ctx context.Context, v *Viewer, msg *Message) {
	switch msg.Type {
	case MsgTypeKey:
		sheet, err := s.sheet(ctx, v.musicID, msg.Key)
		if err != nil {
			v.Send(&Message{Type: MsgTypeError, Error: err.Error()})
			return
		}
		if err := s.hub.Broadcast(v.musicID, sheetMessage(sheet)); err != nil {
			logger.Error("failed to broadcast sheet", logger.ErrorField(err))
		}
		logger.Info("key changed", logger.String("music", v.musicID), logger.String("key", sheet.Key))
	default:
		v.Send(&Message{Type: MsgTypeError, Error: "unknown message type " + string(msg.Type)})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to write response", logger.ErrorField(err))
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var apiErr *api.APIError
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, api.ErrValidation), errors.Is(err, theory.ErrInvalidKey):
		status = http.StatusBadRequest
	case errors.As(err, &apiErr):
		status = apiErr.Status
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logger.ErrorField(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
