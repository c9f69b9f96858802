package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

type stubPermissionService struct {
	table domain.PermissionTable
}

func (s *stubPermissionService) Authorize(_ context.Context, actor domain.Actor, action domain.Action, target *domain.User) error {
	if !domain.CanPerform(s.table, actor, action, target) {
		return domain.ErrPermissionDenied
	}
	return nil
}

func (s *stubPermissionService) Table(context.Context) ([]domain.PermissionEntry, error) {
	return s.table.Entries(), nil
}

func (s *stubPermissionService) Set(ctx context.Context, actor domain.Actor, role, action string, allowed bool) (*domain.PermissionEntry, error) {
	if err := s.Authorize(ctx, actor, domain.ActionManageSettings, nil); err != nil {
		return nil, err
	}
	r, ok := domain.ParseRole(role)
	if !ok {
		return nil, domain.ErrUnknownRole
	}
	a, err := domain.ParseAction(action)
	if err != nil {
		return nil, err
	}
	s.table.Set(r, a, allowed)
	return &domain.PermissionEntry{Role: r, Action: a, Allowed: allowed}, nil
}

func (s *stubPermissionService) Seed(context.Context, domain.PermissionTable) error { return nil }

func TestPermissionHandler_Table(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/v1/settings/permissions", "", director)
	if err := NewPermissionHandler(&stubPermissionService{table: domain.DefaultPermissionTable()}).Table(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var entries []domain.PermissionEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(entries) == 0 {
		t.Error("expected the default table")
	}
}

func TestPermissionHandler_Set(t *testing.T) {
	svc := &stubPermissionService{table: domain.DefaultPermissionTable()}
	c, rec := newContext(http.MethodPut, "/v1/settings/permissions",
		`{"role":"copywriter","action":"manage_tasks","allowed":true}`, director)

	if err := NewPermissionHandler(svc).Set(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	assertStatus(t, rec, http.StatusOK)
	if !svc.table.Allowed(domain.RoleCopywriter, domain.ActionManageTasks) {
		t.Error("entry not applied")
	}
}

func TestPermissionHandler_Set_AllowedIsRequired(t *testing.T) {
	c, _ := newContext(http.MethodPut, "/v1/settings/permissions", `{"role":"copywriter","action":"manage_tasks"}`, director)
	assertHTTPError(t, NewPermissionHandler(&stubPermissionService{}).Set(c), http.StatusUnprocessableEntity)
}
