package report

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/pulsefin/pulse/internal/reminders"
)

type Handler struct {
	log *slog.Logger
	svc *reminders.Service
}

func NewHandler(log *slog.Logger, svc *reminders.Service) *Handler {
	return &Handler{log: log, svc: svc}
}

// ServeHTTP — GET /api/reports/upcoming?user=<uuid>&days=30:
// та же лента, что и JSON-дашборд, но файлом.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	userID, err := uuid.Parse(r.URL.Query().Get("user"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user parameter")
		return
	}
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if days, err = strconv.Atoi(v); err != nil || days <= 0 {
			writeError(w, http.StatusBadRequest, "invalid days parameter")
			return
		}
	}

	payments, err := h.svc.Upcoming(r.Context(), userID, days)
	if err != nil {
		h.log.Error("report: upcoming payments query failed", "user", userID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load upcoming payments")
		return
	}

	buf, err := Workbook(payments)
	if err != nil {
		h.log.Error("report: workbook build failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="proximos-pagamentos.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
