package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
)

func TestPermissionService_Seed_OnlyWhenEmpty(t *testing.T) {
	repo := newStubPermissionRepo(domain.PermissionTable{})
	svc := NewPermissionService(repo, zerolog.Nop())

	if err := svc.Seed(context.Background(), domain.DefaultPermissionTable()); err != nil {
		t.Fatal(err)
	}
	if len(repo.entries) == 0 {
		t.Fatal("expected defaults seeded")
	}

	repo.entries["director/manage_settings"] = domain.PermissionEntry{Role: domain.RoleDirector, Action: domain.ActionManageSettings, Allowed: false}
	if err := svc.Seed(context.Background(), domain.DefaultPermissionTable()); err != nil {
		t.Fatal(err)
	}
	if repo.entries["director/manage_settings"].Allowed {
		t.Error("seeding must not overwrite an existing table")
	}
}

func TestPermissionService_Authorize_UsesPersistedTable(t *testing.T) {
	repo := newStubPermissionRepo(domain.DefaultPermissionTable())
	svc := NewPermissionService(repo, zerolog.Nop())
	ctx := context.Background()

	if err := svc.Authorize(ctx, actorOf(rina), domain.ActionManageTasks, nil); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected denial, got %v", err)
	}

	if _, err := svc.Set(ctx, actorOf(director), string(domain.RoleGraphicDesigner), "manage_tasks", true); err != nil {
		t.Fatal(err)
	}
	if err := svc.Authorize(ctx, actorOf(rina), domain.ActionManageTasks, nil); err != nil {
		t.Fatalf("edited table must take effect immediately, got %v", err)
	}
}

func TestPermissionService_Set_Rules(t *testing.T) {
	svc := newGate()
	ctx := context.Background()

	if _, err := svc.Set(ctx, actorOf(opDirector), "copywriter", "manage_tasks", true); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("operational director lacks manage_settings, got %v", err)
	}
	if _, err := svc.Set(ctx, actorOf(superAdmin), "super_admin", "manage_tasks", false); !errors.Is(err, domain.ErrUnknownRole) {
		t.Errorf("super_admin rows must be rejected, got %v", err)
	}
	if _, err := svc.Set(ctx, actorOf(superAdmin), "copywriter", "launch", true); !errors.Is(err, domain.ErrInvalidAction) {
		t.Errorf("expected ErrInvalidAction, got %v", err)
	}
	entry, err := svc.Set(ctx, actorOf(superAdmin), "operational_director", "manage_settings", true)
	if err != nil {
		t.Fatal(err)
	}
	if !entry.Allowed || entry.Role != domain.RoleOperationalDirector {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestPermissionService_CachesTable(t *testing.T) {
	repo := newStubPermissionRepo(domain.DefaultPermissionTable())
	svc := NewPermissionService(repo, zerolog.Nop())
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = svc.Authorize(ctx, actorOf(director), domain.ActionManageTasks, nil)
	}
	if repo.lists != 1 {
		t.Errorf("expected one storage read, got %d", repo.lists)
	}

	clock = clock.Add(tableTTL + time.Second)
	_ = svc.Authorize(ctx, actorOf(director), domain.ActionManageTasks, nil)
	if repo.lists != 2 {
		t.Errorf("expected reload after ttl, got %d reads", repo.lists)
	}
}

func TestPermissionService_StorageFailureDenies(t *testing.T) {
	repo := newStubPermissionRepo(domain.DefaultPermissionTable())
	repo.listErr = errors.New("mongo down")
	svc := NewPermissionService(repo, zerolog.Nop())

	if err := svc.Authorize(context.Background(), actorOf(superAdmin), domain.ActionManageTasks, nil); err == nil {
		t.Fatal("a table that cannot be loaded must not authorize")
	}
}
