package reminders

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHandlerTestPushDeliversAndPrunes(t *testing.T) {
	userID := uuid.New()
	f := newServiceFixture(t, date(2024, time.March, 9))
	subs := f.registry.add(userID, 2)
	f.sender.failByURL[subs[1].Endpoint] = fmt.Errorf("%w (status 410)", ErrEndpointGone)

	h := NewHandler(discardLogger(), f.svc)
	body := fmt.Sprintf(`{"user_id":%q}`, userID)
	rec := httptest.NewRecorder()
	h.TestPush(rec, httptest.NewRequest(http.MethodPost, "/api/push/test", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var report Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if report.Sent != 1 || report.Pruned != 1 {
		t.Fatalf("unexpected counts: %+v", report)
	}
	if f.registry.count(userID) != 1 {
		t.Fatalf("dead subscription must be removed, %d left", f.registry.count(userID))
	}
	sent := f.sender.sent()
	if len(sent) != 1 || !strings.Contains(sent[0], "Teste de Notificação") {
		t.Fatalf("unexpected payload: %v", sent)
	}
}

func TestHandlerTestPushWithoutSubscriptions(t *testing.T) {
	f := newServiceFixture(t, date(2024, time.March, 9))
	h := NewHandler(discardLogger(), f.svc)

	body := fmt.Sprintf(`{"user_id":%q}`, uuid.New())
	rec := httptest.NewRecorder()
	h.TestPush(rec, httptest.NewRequest(http.MethodPost, "/api/push/test", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "no subscriptions found") {
		t.Fatalf("unexpected body: %s", rec.Body)
	}
}

func TestHandlerTestPushRejectsBadInput(t *testing.T) {
	f := newServiceFixture(t, date(2024, time.March, 9))
	h := NewHandler(discardLogger(), f.svc)

	for _, body := range []string{``, `{}`, `{"user_id":"not-a-uuid"}`} {
		rec := httptest.NewRecorder()
		h.TestPush(rec, httptest.NewRequest(http.MethodPost, "/api/push/test", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.TestPush(rec, httptest.NewRequest(http.MethodGet, "/api/push/test", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHandlerTestPushRequiresVAPID(t *testing.T) {
	userID := uuid.New()
	f := newServiceFixture(t, date(2024, time.March, 9))
	f.registry.add(userID, 1)
	f.sender.validateErr = ErrMissingVAPID

	h := NewHandler(discardLogger(), f.svc)
	body := fmt.Sprintf(`{"user_id":%q}`, userID)
	rec := httptest.NewRecorder()
	h.TestPush(rec, httptest.NewRequest(http.MethodPost, "/api/push/test", strings.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body)
	}
	if len(f.sender.sent()) != 0 {
		t.Fatalf("nothing should be sent: %v", f.sender.sent())
	}
}
