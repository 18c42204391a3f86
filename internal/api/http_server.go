package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"roombook/internal/config"
	"roombook/internal/domain"
	"roombook/internal/ledger"
	"roombook/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the booking engine as a REST-style JSON API.
type HTTPServer struct {
	cfg         config.APIConfig
	coordinator domain.BookingCoordinator
	analytics   domain.AnalyticsAggregator
	catalog     domain.Catalog
	server      *http.Server
	log         zerolog.Logger
}

func NewHTTPServer(
	cfg config.APIConfig,
	coordinator domain.BookingCoordinator,
	analytics domain.AnalyticsAggregator,
	catalog domain.Catalog,
	logger *zerolog.Logger,
) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:         cfg,
		coordinator: coordinator,
		analytics:   analytics,
		catalog:     catalog,
		log:         logger.With().Str("component", "http").Logger(),
	}

	mux.HandleFunc("/api/v1/rooms", srv.handleRooms)
	mux.HandleFunc("/api/v1/rooms/", srv.handleRoomByID)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/export", srv.handleExport)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingCancel)
	mux.HandleFunc("/api/v1/analytics", srv.handleAnalytics)
	mux.HandleFunc("/health", srv.handleHealth)

	handler := loggingMiddleware(&srv.log, rateLimitMiddleware(cfg.RateLimit, mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.catalog.ListAll())
}

func (s *HTTPServer) handleRoomByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	roomID := strings.TrimPrefix(r.URL.Path, "/api/v1/rooms/")
	if roomID == "" || strings.Contains(roomID, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	room, ok := s.catalog.Get(roomID)
	if !ok {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

type createBookingRequest struct {
	RoomID    string `json:"roomId"`
	UserName  string `json:"userName"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type createBookingResponse struct {
	BookingID  string `json:"bookingId"`
	RoomID     string `json:"roomId"`
	UserName   string `json:"userName"`
	TotalPrice int64  `json:"totalPrice"`
	Status     string `json:"status"`
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		bookings, err := s.coordinator.GetAllBookings(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, bookings)

	case http.MethodPost:
		s.handleCreateBooking(w, r)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	var body createBookingRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if body.RoomID == "" || body.UserName == "" || body.StartTime == "" || body.EndTime == "" {
		writeError(w, http.StatusBadRequest, "missing required fields: roomId, userName, startTime, endTime")
		return
	}

	start, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startTime; expected ISO-8601 instant")
		return
	}
	end, err := time.Parse(time.RFC3339, body.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endTime; expected ISO-8601 instant")
		return
	}

	booking, err := s.coordinator.CreateBooking(r.Context(), body.RoomID, body.UserName, start, end)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createBookingResponse{
		BookingID:  booking.BookingID,
		RoomID:     booking.RoomID,
		UserName:   booking.UserName,
		TotalPrice: booking.TotalPrice,
		Status:     booking.Status,
	})
}

func (s *HTTPServer) handleBookingCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/bookings/")
	bookingID, action, found := strings.Cut(rest, "/")
	if !found || action != "cancel" || bookingID == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if err := s.coordinator.CancelBooking(r.Context(), bookingID); err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "booking cancelled successfully"})
}

func (s *HTTPServer) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, `query parameters "from" and "to" are required (format: YYYY-MM-DD)`)
		return
	}

	report, err := s.analytics.Report(r.Context(), from, to)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeServiceError maps engine errors to HTTP statuses. Unexpected
// errors become a generic 500 without leaking internals.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	var conflictErr *service.ConflictError
	var validationErr *service.ValidationError
	var policyErr *service.PolicyViolationError

	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, conflictErr.Error())
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &policyErr):
		writeError(w, http.StatusBadRequest, policyErr.Error())
	default:
		s.log.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
