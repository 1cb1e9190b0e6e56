package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/memberbase/member-registry/internal/domain"
	"github.com/memberbase/member-registry/internal/http/middleware"
	"github.com/memberbase/member-registry/internal/repository"
	"github.com/memberbase/member-registry/internal/service"
	"github.com/memberbase/member-registry/internal/session"
)

type staticVerifier struct{ result bool }

func (v staticVerifier) Verify(ctx context.Context, ssn string) (bool, error) {
	return v.result, nil
}

// failingMemberService trips the test if any service method is reached; it
// backs the assertions that malformed requests never touch storage.
type failingMemberService struct{ t *testing.T }

func (f failingMemberService) List(ctx context.Context) ([]domain.Member, error) {
	f.t.Fatalf("unexpected List call")
	return nil, nil
}

func (f failingMemberService) GetByID(ctx context.Context, id uint) (*domain.Member, error) {
	f.t.Fatalf("unexpected GetByID call")
	return nil, nil
}

func (f failingMemberService) Create(ctx context.Context, in service.CreateMemberInput) (*domain.Member, error) {
	f.t.Fatalf("unexpected Create call")
	return nil, nil
}

func (f failingMemberService) Update(ctx context.Context, id uint, in service.UpdateMemberInput) (*domain.Member, error) {
	f.t.Fatalf("unexpected Update call")
	return nil, nil
}

func (f failingMemberService) FilterByVerified(ctx context.Context, verified bool) ([]domain.Member, error) {
	f.t.Fatalf("unexpected FilterByVerified call")
	return nil, nil
}

func newMemberRouterForTest(t *testing.T, verified bool) (http.Handler, *http.Cookie) {
	t.Helper()
	repo := repository.NewMemoryMemberRepository()
	svc := service.NewMemberService(repo, staticVerifier{result: verified})
	return memberRouterWith(t, NewMemberHandler(svc))
}

func memberRouterWith(t *testing.T, h *MemberHandler) (http.Handler, *http.Cookie) {
	t.Helper()
	mgr := session.NewManager(session.NewMemoryStore(), time.Hour, false, "lax")

	rec := httptest.NewRecorder()
	if _, err := mgr.Issue(context.Background(), rec, 1); err != nil {
		t.Fatalf("issue session: %v", err)
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatalf("no session cookie issued")
	}

	r := chi.NewRouter()
	r.Route("/api/members", func(r chi.Router) {
		r.Use(middleware.SessionAuth(mgr))
		r.Get("/", h.List)
		r.Get("/filter/verified", h.FilterByVerified)
		r.Get("/{id}", h.GetByID)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
	})
	return r, cookie
}

const createMemberBody = `{
	"name": "Jane Doe",
	"email": "jane@example.com",
	"phone": "555-123-4567",
	"ssn": "123-45-6789",
	"dob": "1990-01-15",
	"address": {"street": "1 Main St", "city": "Springfield", "state": "IL", "postalCode": "62701"}
}`

func doJSON(t *testing.T, h http.Handler, method, target, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestMemberHandlerRequiresSession(t *testing.T) {
	router, _ := newMemberRouterForTest(t, true)

	for _, probe := range []struct{ method, target, body string }{
		{http.MethodGet, "/api/members/", ""},
		{http.MethodPost, "/api/members/", createMemberBody},
		{http.MethodGet, "/api/members/1", ""},
		{http.MethodPatch, "/api/members/1", `{"name":"X Y"}`},
	} {
		rr := doJSON(t, router, probe.method, probe.target, probe.body, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without session: expected 401, got %d body=%s", probe.method, probe.target, rr.Code, rr.Body.String())
		}
	}
}

func TestMemberHandlerCreateReturnsVerificationResult(t *testing.T) {
	router, cookie := newMemberRouterForTest(t, true)

	rr := doJSON(t, router, http.MethodPost, "/api/members/", createMemberBody, cookie)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var payload struct {
		Member             domain.Member `json:"member"`
		VerificationResult struct {
			Verified bool   `json:"verified"`
			Message  string `json:"message"`
		} `json:"verificationResult"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v body=%s", err, rr.Body.String())
	}
	if payload.Member.ID != 1 {
		t.Fatalf("expected first member to get id 1, got %d", payload.Member.ID)
	}
	if !payload.VerificationResult.Verified || payload.VerificationResult.Message != "SSN verification successful" {
		t.Fatalf("unexpected verification result: %+v", payload.VerificationResult)
	}
	if payload.Member.DateAdded.IsZero() {
		t.Fatalf("expected dateAdded in response")
	}
}

func TestMemberHandlerCreateUnverifiedMessage(t *testing.T) {
	router, cookie := newMemberRouterForTest(t, false)

	rr := doJSON(t, router, http.MethodPost, "/api/members/", createMemberBody, cookie)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload struct {
		VerificationResult struct {
			Verified bool   `json:"verified"`
			Message  string `json:"message"`
		} `json:"verificationResult"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.VerificationResult.Verified || payload.VerificationResult.Message != "SSN verification pending" {
		t.Fatalf("unexpected verification result: %+v", payload.VerificationResult)
	}
}

func TestMemberHandlerCreateRejectsServerAssignedFields(t *testing.T) {
	router, cookie := memberRouterWith(t, NewMemberHandler(failingMemberService{t: t}))

	body := strings.Replace(createMemberBody, `"name"`, `"id": 99, "name"`, 1)
	rr := doJSON(t, router, http.MethodPost, "/api/members/", body, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for payload with id, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMemberHandlerCreateValidationErrorDetails(t *testing.T) {
	router, cookie := newMemberRouterForTest(t, true)

	body := strings.Replace(createMemberBody, "123-45-6789", "123456789", 1)
	rr := doJSON(t, router, http.MethodPost, "/api/members/", body, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields map[string]string `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected error code: %q", payload.Error.Code)
	}
	if _, ok := payload.Error.Details.Fields["ssn"]; !ok {
		t.Fatalf("expected per-field detail for ssn, got %v", payload.Error.Details.Fields)
	}
}

func TestMemberHandlerCreateDuplicateConflict(t *testing.T) {
	router, cookie := newMemberRouterForTest(t, true)

	if rr := doJSON(t, router, http.MethodPost, "/api/members/", createMemberBody, cookie); rr.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", rr.Code)
	}
	rr := doJSON(t, router, http.MethodPost, "/api/members/", createMemberBody, cookie)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestMemberHandlerInvalidIDRejectedBeforeStorage(t *testing.T) {
	router, cookie := memberRouterWith(t, NewMemberHandler(failingMemberService{t: t}))

	for _, target := range []string{"/api/members/abc", "/api/members/0", "/api/members/-3"} {
		rr := doJSON(t, router, http.MethodGet, target, "", cookie)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("GET %s: expected 400, got %d", target, rr.Code)
		}
	}
	rr := doJSON(t, router, http.MethodPatch, "/api/members/abc", `{"name":"X Y"}`, cookie)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("PATCH with bad id: expected 400, got %d", rr.Code)
	}
}

func TestMemberHandlerGetAndPatchNotFound(t *testing.T) {
	router, cookie := newMemberRouterForTest(t, true)

	if rr := doJSON(t, router, http.MethodGet, "/api/members/12", "", cookie); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if rr := doJSON(t, router, http.MethodPatch, "/api/members/12", `{"name":"X Y"}`, cookie); rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on patch, got %d", rr.Code)
	}
}

func TestMemberHandlerPatchIgnoresServerAssignedFields(t *testing.T) {
	router, cookie := newMemberRouterForTest(t, true)

	if rr := doJSON(t, router, http.MethodPost, "/api/members/", createMemberBody, cookie); rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rr.Code)
	}

	rr := doJSON(t, router, http.MethodPatch, "/api/members/1",
		`{"id": 77, "dateAdded": "2001-01-01T00:00:00Z", "name": "Renamed Person"}`, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var updated domain.Member
	if err := json.Unmarshal(rr.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if updated.ID != 1 {
		t.Fatalf("id must not be patchable, got %d", updated.ID)
	}
	if updated.Name != "Renamed Person" {
		t.Fatalf("name not patched: %q", updated.Name)
	}
	if updated.DateAdded.Year() == 2001 {
		t.Fatalf("dateAdded must not be patchable")
	}
}

func TestMemberHandlerListAndFilter(t *testing.T) {
	router, cookie := newMemberRouterForTest(t, true)

	if rr := doJSON(t, router, http.MethodPost, "/api/members/", createMemberBody, cookie); rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rr.Code)
	}
	second := strings.NewReplacer("jane@example.com", "june@example.com", "123-45-6789", "987-65-4321").Replace(createMemberBody)
	if rr := doJSON(t, router, http.MethodPost, "/api/members/", second, cookie); rr.Code != http.StatusCreated {
		t.Fatalf("create second: expected 201, got %d", rr.Code)
	}

	rr := doJSON(t, router, http.MethodGet, "/api/members/", "", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rr.Code)
	}
	var members []domain.Member
	if err := json.Unmarshal(rr.Body.Bytes(), &members); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].ID != 2 {
		t.Fatalf("expected newest member first, got id %d", members[0].ID)
	}

	rr = doJSON(t, router, http.MethodGet, "/api/members/filter/verified?status=true", "", cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("filter: expected 200, got %d", rr.Code)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &members); err != nil {
		t.Fatalf("decode filter: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected both members verified, got %d", len(members))
	}

	// Anything but status=true selects the unverified partition.
	for _, query := range []string{"status=false", "status=TRUE", "status=banana", ""} {
		rr = doJSON(t, router, http.MethodGet, "/api/members/filter/verified?"+query, "", cookie)
		if rr.Code != http.StatusOK {
			t.Fatalf("filter %q: expected 200, got %d", query, rr.Code)
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &members); err != nil {
			t.Fatalf("decode filter %q: %v", query, err)
		}
		if len(members) != 0 {
			t.Fatalf("filter %q: expected no unverified members, got %d", query, len(members))
		}
	}
}
