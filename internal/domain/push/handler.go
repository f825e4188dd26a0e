package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// Store — часть реестра подписок, нужная HTTP-границе регистрации.
type Store interface {
	Upsert(ctx context.Context, userID uuid.UUID, endpoint string, keys Keys) (*Subscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

type Handler struct {
	log            *slog.Logger
	store          Store
	vapidPublicKey string
}

func NewHandler(log *slog.Logger, store Store, vapidPublicKey string) *Handler {
	return &Handler{
		log:            log,
		store:          store,
		vapidPublicKey: vapidPublicKey,
	}
}

type subscribeRequest struct {
	UserID   string `json:"user_id"`
	Endpoint string `json:"endpoint"`
	Keys     Keys   `json:"keys"`
}

// Subscribe обслуживает границу регистрации клиента:
// POST — браузер сохраняет свежесозданную подписку, DELETE — явная отписка.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.subscribe(w, r)
	case http.MethodDelete:
		h.unsubscribe(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user_id")
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		writeError(w, http.StatusBadRequest, "endpoint and keys are required")
		return
	}

	sub, err := h.store.Upsert(r.Context(), userID, req.Endpoint, req.Keys)
	if err != nil {
		h.log.Error("push: upsert subscription failed", "user", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"id": sub.ID.String()})
}

func (h *Handler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "endpoint is required")
		return
	}
	if err := h.store.DeleteByEndpoint(r.Context(), req.Endpoint); err != nil {
		h.log.Error("push: delete subscription failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to delete subscription")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PublicKey отдаёт application server key, нужный браузеру для
// pushManager.subscribe.
func (h *Handler) PublicKey(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"publicKey": h.vapidPublicKey})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
