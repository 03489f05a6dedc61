package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nextwaveweb/salonbook/internal/auth"
	"github.com/nextwaveweb/salonbook/internal/booking"
	"github.com/nextwaveweb/salonbook/internal/business"
	"github.com/nextwaveweb/salonbook/internal/catalog"
	"github.com/nextwaveweb/salonbook/internal/chat"
	"github.com/nextwaveweb/salonbook/internal/http/handlers"
	"github.com/nextwaveweb/salonbook/internal/schedule"
)

const adminSecret = "test-secret"

type testEnv struct {
	server     *httptest.Server
	businessID string
	token      string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	businesses := business.NewInMemoryStore()
	hash, err := auth.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	biz := &business.Business{Slug: "glow", Name: "Glow Salon", PasswordHash: hash}
	if err := businesses.Create(ctx, biz); err != nil {
		t.Fatalf("seed business: %v", err)
	}

	templates := schedule.NewInMemoryTemplateStore()
	overrides := schedule.NewInMemoryOverrideStore()
	bookingStore := booking.NewInMemoryStore()
	menu := catalog.NewInMemoryStore()
	if err := menu.Upsert(ctx, biz.ID, catalog.Service{Name: "Haircut", Price: 80, DurationMinutes: 30}); err != nil {
		t.Fatalf("seed menu: %v", err)
	}

	scheduleSvc := schedule.NewService(schedule.ServiceConfig{
		Templates: templates,
		Overrides: overrides,
		Booked:    bookingStore,
	})
	bookingSvc := booking.NewService(booking.ServiceConfig{
		Store:        bookingStore,
		Availability: scheduleSvc,
		Menu:         menu,
	})
	chatSvc := chat.NewService(chat.NewRuleResponder(scheduleSvc, menu), nil, nil)

	handler := New(&Config{
		Availability:    handlers.NewAvailabilityHandler(scheduleSvc, businesses, nil),
		Bookings:        handlers.NewBookingHandler(bookingSvc, nil),
		Services:        handlers.NewServicesHandler(menu, nil),
		Chat:            handlers.NewChatHandler(chatSvc, businesses, nil),
		Auth:            handlers.NewAuthHandler(businesses, adminSecret, time.Hour, nil),
		AdminSchedule:   handlers.NewAdminScheduleHandler(scheduleSvc, nil),
		AdminOverrides:  handlers.NewAdminOverridesHandler(scheduleSvc, nil),
		AdminKnowledge:  handlers.NewAdminKnowledgeHandler(businesses, nil),
		AdminAuthSecret: adminSecret,
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	token, err := auth.IssueAdminToken(adminSecret, biz.ID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return &testEnv{server: server, businessID: biz.ID, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, admin bool) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+e.token)
	} else {
		req.Header.Set("X-Business-Id", e.businessID)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func nextDate(daysAhead int) string {
	return time.Now().UTC().AddDate(0, 0, daysAhead).Format("2006-01-02")
}

func TestHealthAndLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/healthz")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"slug": "glow", "password": "hunter2",
	}, false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var body struct {
		Token      string `json:"token"`
		BusinessID string `json:"business_id"`
	}
	decodeBody(t, resp, &body)
	if body.Token == "" || body.BusinessID != env.businessID {
		t.Fatalf("unexpected login body %+v", body)
	}

	resp = env.do(t, http.MethodPost, "/auth/login", map[string]string{
		"slug": "glow", "password": "wrong",
	}, false)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", resp.StatusCode)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/admin/schedule", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestPublicRoutesRequireBusinessHeader(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/availability")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestScheduleBookCancelFlow(t *testing.T) {
	env := newTestEnv(t)
	date := nextDate(1)
	weekday := int(time.Now().UTC().AddDate(0, 0, 1).Weekday())

	// Admin sets up tomorrow's template slots.
	resp := env.do(t, http.MethodPut, fmt.Sprintf("/admin/schedule/days/%d", weekday), map[string]any{
		"times": []string{"09:00", "09:30"},
	}, true)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set day status = %d", resp.StatusCode)
	}

	// Customer sees the open slots.
	resp = env.do(t, http.MethodGet, "/availability", nil, false)
	var week struct {
		Days []struct {
			Date  string `json:"date"`
			Times []struct {
				Time      string `json:"time"`
				Available bool   `json:"available"`
			} `json:"times"`
		} `json:"days"`
	}
	decodeBody(t, resp, &week)
	var found bool
	for _, day := range week.Days {
		if day.Date == date && len(day.Times) == 2 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 2 open slots on %s: %+v", date, week.Days)
	}

	// Book one.
	resp = env.do(t, http.MethodPost, "/book", map[string]string{
		"date": date, "time": "09:00", "name": "Dana", "phone": "0501234567", "service": "Haircut",
	}, false)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("book status = %d", resp.StatusCode)
	}

	// Double booking conflicts.
	resp = env.do(t, http.MethodPost, "/book", map[string]string{
		"date": date, "time": "09:00", "name": "Noa", "phone": "0507654321",
	}, false)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("double book status = %d, want 409", resp.StatusCode)
	}

	// Admin sees the booking.
	resp = env.do(t, http.MethodGet, "/admin/bookings?date="+date, nil, true)
	var list struct {
		Bookings []booking.Booking `json:"bookings"`
	}
	decodeBody(t, resp, &list)
	if len(list.Bookings) != 1 || list.Bookings[0].Name != "Dana" {
		t.Fatalf("unexpected bookings %+v", list.Bookings)
	}

	// Cancel frees the slot.
	resp = env.do(t, http.MethodPost, "/cancel", map[string]string{
		"date": date, "time": "09:00", "name": "Dana", "phone": "0501234567",
	}, false)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel status = %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/book", map[string]string{
		"date": date, "time": "09:00", "name": "Noa", "phone": "0507654321",
	}, false)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("rebook after cancel status = %d", resp.StatusCode)
	}
}

func TestOverrideFlow(t *testing.T) {
	env := newTestEnv(t)
	date := nextDate(2)

	// Add a one-time slot, then disable the whole date.
	resp := env.do(t, http.MethodPost, "/admin/overrides/"+date+"/add", map[string]string{"time": "11:00"}, true)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add override status = %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/admin/overrides", nil, true)
	var all struct {
		Overrides map[string]schedule.OverrideEntry `json:"overrides"`
	}
	decodeBody(t, resp, &all)
	if len(all.Overrides[date].Add) != 1 {
		t.Fatalf("expected stored add override: %+v", all.Overrides)
	}

	resp = env.do(t, http.MethodPost, "/admin/overrides/"+date+"/toggle", map[string]bool{"enabled": false}, true)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle status = %d", resp.StatusCode)
	}

	// Disabled date serves no slots.
	resp = env.do(t, http.MethodGet, "/availability", nil, false)
	var week struct {
		Days []struct {
			Date  string          `json:"date"`
			Times json.RawMessage `json:"times"`
		} `json:"days"`
	}
	decodeBody(t, resp, &week)
	for _, day := range week.Days {
		if day.Date == date && string(day.Times) != "[]" && string(day.Times) != "null" {
			t.Fatalf("disabled date still has slots: %s", day.Times)
		}
	}

	resp = env.do(t, http.MethodDelete, "/admin/overrides/"+date, nil, true)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("clear status = %d", resp.StatusCode)
	}
}

func TestServicesAndChat(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/services", nil, false)
	var menu struct {
		Services []catalog.Service `json:"services"`
	}
	decodeBody(t, resp, &menu)
	if len(menu.Services) != 1 || menu.Services[0].Name != "Haircut" {
		t.Fatalf("unexpected menu %+v", menu.Services)
	}

	resp = env.do(t, http.MethodPost, "/ask", map[string]string{"question": "how much is a haircut?"}, false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ask status = %d", resp.StatusCode)
	}
	var reply struct {
		Answer string `json:"answer"`
	}
	decodeBody(t, resp, &reply)
	if reply.Answer == "" {
		t.Fatal("empty chat answer")
	}

	resp = env.do(t, http.MethodPut, "/admin/services", catalog.Service{
		Name: "Color", Price: 250, DurationMinutes: 90,
	}, true)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put service status = %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodDelete, "/admin/services/Color", nil, true)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete service status = %d", resp.StatusCode)
	}
}

func TestKnowledgeRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPut, "/admin/knowledge", map[string]string{
		"knowledge": "Open Sunday to Thursday, street parking available.",
	}, true)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put knowledge status = %d", resp.StatusCode)
	}

	resp = env.do(t, http.MethodGet, "/admin/knowledge", nil, true)
	var body struct {
		Knowledge string `json:"knowledge"`
	}
	decodeBody(t, resp, &body)
	if body.Knowledge == "" {
		t.Fatal("knowledge not persisted")
	}
}
