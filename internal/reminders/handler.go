package reminders

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// Handler — HTTP-границы ядра: запуск рассылки внешним планировщиком
// и JSON-лента ближайших платежей.
type Handler struct {
	log *slog.Logger
	svc *Service
}

func NewHandler(log *slog.Logger, svc *Service) *Handler {
	return &Handler{log: log, svc: svc}
}

// Run — POST /internal/reminders/run. Тело не требуется: «сейчас» берётся
// из часов сервиса. Ответ повторяет контракт планового вызова:
// 200 + отчёт либо 400 + {error}.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	report, err := h.svc.Run(r.Context())
	if err != nil {
		h.log.Error("reminder run aborted", "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if report.Results == nil {
		report.Results = []Result{}
	}
	writeJSON(w, http.StatusOK, report)
}

// TestPush — POST /api/push/test с телом {"user_id": "<uuid>"}.
// Шлёт пробное уведомление по всем подпискам пользователя; мёртвые
// endpoint'ы вычищаются, как при плановой рассылке.
func (h *Handler) TestPush(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user_id"})
		return
	}

	report, err := h.svc.SendTest(r.Context(), req.UserID)
	if err != nil {
		h.log.Error("test notification failed", "user", req.UserID, "err", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if len(report.Results) == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "no subscriptions found"})
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Upcoming — GET /api/upcoming?user=<uuid>&days=30.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	userID, err := uuid.Parse(r.URL.Query().Get("user"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid user parameter"})
		return
	}
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if days, err = strconv.Atoi(v); err != nil || days <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid days parameter"})
			return
		}
	}

	payments, err := h.svc.Upcoming(r.Context(), userID, days)
	if err != nil {
		h.log.Error("upcoming payments query failed", "user", userID, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load upcoming payments"})
		return
	}
	if payments == nil {
		payments = []UpcomingPayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
