package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"orbi/internal/dataset"
	"orbi/internal/domain"
	"orbi/internal/faq"
	"orbi/internal/metrics"

	"github.com/google/uuid"
)

const (
	maxBodySize    = 1 << 20 // 1MB
	requestTimeout = 30 * time.Second
)

// Web implements domain.Channel as a JSON API: the chat endpoint the
// dashboard widget talks to, plus the read-only dashboard data endpoints.
type Web struct {
	host   string
	port   int
	bus    domain.MessageBus
	logger *slog.Logger
	server *http.Server

	data         *dataset.Snapshot
	faqs         *faq.Engine
	store        domain.ConversationStore // optional, for /api/history
	historyLimit int

	metricsEndpoint string

	// Pending responses keyed by session ID.
	pendingResponses   map[string]chan domain.OutboundMessage
	pendingResponsesMu sync.Mutex
}

type WebConfig struct {
	Host            string
	Port            int
	Logger          *slog.Logger
	Data            *dataset.Snapshot
	FAQs            *faq.Engine
	Store           domain.ConversationStore
	HistoryLimit    int // default message count for /api/history
	MetricsEndpoint string
}

func NewWeb(cfg WebConfig) *Web {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	return &Web{
		host:             cfg.Host,
		port:             cfg.Port,
		logger:           cfg.Logger,
		data:             cfg.Data,
		faqs:             cfg.FAQs,
		store:            cfg.Store,
		historyLimit:     cfg.HistoryLimit,
		metricsEndpoint:  cfg.MetricsEndpoint,
		pendingResponses: make(map[string]chan domain.OutboundMessage),
	}
}

func (w *Web) Name() string { return "web" }

// SetBus attaches the bus and registers the outbound handler that routes
// responses back to the waiting request by session ID.
func (w *Web) SetBus(bus domain.MessageBus) {
	w.bus = bus
	bus.OnOutbound("web", w.deliverResponse)
}

func (w *Web) deliverResponse(msg domain.OutboundMessage) {
	w.pendingResponsesMu.Lock()
	ch, ok := w.pendingResponses[msg.ChatID]
	w.pendingResponsesMu.Unlock()
	if !ok {
		w.logger.Warn("no pending web request for session", "session", msg.ChatID)
		return
	}
	select {
	case ch <- msg:
	default:
	}
}

// Handler returns the API routing table.
func (w *Web) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", w.handleChat)
	mux.HandleFunc("GET /api/history", w.handleHistory)
	mux.HandleFunc("GET /api/sites", w.handleSites)
	mux.HandleFunc("GET /api/performance", w.handlePerformance)
	mux.HandleFunc("GET /api/faq/stats", w.handleFAQStats)
	mux.HandleFunc("GET /healthz", w.handleHealth)
	if w.metricsEndpoint != "" {
		mux.HandleFunc("GET "+w.metricsEndpoint, metrics.Collector.Handler())
	}
	return mux
}

// Start starts the web server and blocks until the context is cancelled.
func (w *Web) Start(ctx context.Context, bus domain.MessageBus) error {
	w.SetBus(bus)

	addr := fmt.Sprintf("%s:%d", w.host, w.port)
	w.server = &http.Server{
		Addr:              addr,
		Handler:           w.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	w.logger.Info("web channel listening", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := w.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return w.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (w *Web) Stop() error { return nil }

func (w *Web) Send(ctx context.Context, chatID string, content string) error {
	w.bus.SendOutbound(domain.OutboundMessage{Channel: "web", ChatID: chatID, Content: content})
	return nil
}

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	Language  string `json:"language,omitempty"`
}

type chatResponse struct {
	SessionID        string   `json:"session_id"`
	Reply            string   `json:"reply"`
	RelatedQuestions []string `json:"related_questions,omitempty"`
}

func (w *Web) handleChat(rw http.ResponseWriter, r *http.Request) {
	var req chatRequest
	body := http.MaxBytesReader(rw, r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeJSONError(rw, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeJSONError(rw, http.StatusBadRequest, "message is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	respCh := make(chan domain.OutboundMessage, 1)
	w.pendingResponsesMu.Lock()
	w.pendingResponses[sessionID] = respCh
	w.pendingResponsesMu.Unlock()
	metrics.ActiveSessions().Inc()
	defer func() {
		w.pendingResponsesMu.Lock()
		delete(w.pendingResponses, sessionID)
		w.pendingResponsesMu.Unlock()
		metrics.ActiveSessions().Dec()
	}()

	w.bus.Publish(domain.InboundMessage{
		Channel:   "web",
		ChatID:    sessionID,
		SenderID:  sessionID,
		Content:   req.Message,
		Language:  req.Language,
		Timestamp: time.Now(),
	})

	select {
	case msg := <-respCh:
		writeJSON(rw, http.StatusOK, chatResponse{
			SessionID:        sessionID,
			Reply:            msg.Content,
			RelatedQuestions: msg.RelatedQuestions,
		})
	case <-time.After(requestTimeout):
		writeJSONError(rw, http.StatusGatewayTimeout, "response timed out")
	case <-r.Context().Done():
	}
}

func (w *Web) handleHistory(rw http.ResponseWriter, r *http.Request) {
	if w.store == nil {
		writeJSONError(rw, http.StatusNotFound, "history is disabled")
		return
	}
	session := r.URL.Query().Get("session")
	if session == "" {
		writeJSONError(rw, http.StatusBadRequest, "session is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = w.historyLimit
	}

	msgs, err := w.store.GetMessages(r.Context(), "web:"+session, limit)
	if err != nil {
		w.logger.Error("cannot load history", "session", session, "err", err)
		writeJSONError(rw, http.StatusInternalServerError, "cannot load history")
		return
	}
	writeJSON(rw, http.StatusOK, map[string]any{"session_id": session, "messages": msgs})
}

func (w *Web) handleSites(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, http.StatusOK, map[string]any{"sites": w.data.Sites})
}

// handlePerformance returns the records for one month plus the aggregate
// totals the dashboard header shows.
func (w *Web) handlePerformance(rw http.ResponseWriter, r *http.Request) {
	year := w.data.Year
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSONError(rw, http.StatusBadRequest, "invalid year")
			return
		}
		year = n
	}
	month := 11
	if v := r.URL.Query().Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			writeJSONError(rw, http.StatusBadRequest, "invalid month")
			return
		}
		month = n
	}

	records := w.data.RecordsForMonth(year, month)

	var impressions, clicks, approved, totalReward int
	for _, rec := range records {
		impressions += rec.Impressions
		clicks += rec.Clicks
		approved += rec.Approved
		totalReward += rec.TotalReward
	}

	writeJSON(rw, http.StatusOK, map[string]any{
		"year":    year,
		"month":   month,
		"records": records,
		"totals": map[string]int{
			"impressions": impressions,
			"clicks":      clicks,
			"approved":    approved,
			"totalReward": totalReward,
		},
	})
}

func (w *Web) handleFAQStats(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, http.StatusOK, w.faqs.Stats())
}

func (w *Web) handleHealth(rw http.ResponseWriter, r *http.Request) {
	writeJSON(rw, http.StatusOK, map[string]any{
		"status":  "ok",
		"sites":   len(w.data.Sites),
		"records": len(w.data.Records),
		"faqs":    w.faqs.Stats().Total,
	})
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}

func writeJSONError(rw http.ResponseWriter, status int, msg string) {
	writeJSON(rw, status, map[string]string{"error": msg})
}
