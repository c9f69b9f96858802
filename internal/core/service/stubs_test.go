package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kreatask/kreatask-api/internal/core/domain"
	"github.com/kreatask/kreatask-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	byID    map[string]*domain.User
	order   []string
	listErr error
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		u := u
		if u.UpdatedAt.IsZero() {
			u.UpdatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		}
		r.byID[u.ID] = &u
		r.order = append(r.order, u.ID)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.byID[user.ID] = cloneUser(user)
	r.order = append(r.order, user.ID)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.User, 0, len(r.order))
	for _, id := range r.order {
		if u, ok := r.byID[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, user *domain.User, role domain.Role) error {
	stored, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if !stored.UpdatedAt.Equal(user.UpdatedAt) {
		return domain.ErrConflict
	}
	stored.Role = role
	stored.UpdatedAt = stored.UpdatedAt.Add(time.Second)
	return nil
}

func (r *stubUserRepo) UpdateAvatar(_ context.Context, id, url string) error {
	stored, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.AvatarURL = url
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Tasks
// ---------------------------------------------------------------------------

type stubTaskRepo struct {
	byID  map[string]*domain.Task
	order []string
	// bumpBeforeUpdate simulates a concurrent writer changing the status.
	bumpBeforeUpdate domain.TaskStatus
	findErr          error
}

func newStubTaskRepo(tasks ...domain.Task) *stubTaskRepo {
	r := &stubTaskRepo{byID: make(map[string]*domain.Task)}
	for _, t := range tasks {
		t := t
		r.byID[t.ID] = cloneTask(&t)
		r.order = append(r.order, t.ID)
	}
	return r
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	c.Assignees = append([]string(nil), t.Assignees...)
	c.Revisions = append([]domain.Revision(nil), t.Revisions...)
	c.Comments = append([]domain.Comment(nil), t.Comments...)
	if t.CompletedOn != nil {
		d := *t.CompletedOn
		c.CompletedOn = &d
	}
	if t.Score != nil {
		s := *t.Score
		c.Score = &s
	}
	return &c
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	r.byID[t.ID] = cloneTask(t)
	r.order = append(r.order, t.ID)
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) matches(t *domain.Task, f ports.TaskFilter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Assignee != "" && !t.IsAssignee(f.Assignee) {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func (r *stubTaskRepo) Find(_ context.Context, f ports.TaskFilter) ([]domain.Task, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.Task
	for _, id := range r.order {
		t, ok := r.byID[id]
		if ok && r.matches(t, f) {
			out = append(out, *cloneTask(t))
		}
	}
	return out, nil
}

func (r *stubTaskRepo) List(ctx context.Context, f ports.TaskFilter) ([]*domain.Task, int64, error) {
	all, err := r.Find(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	start := (f.Page - 1) * f.Limit
	if start > len(all) {
		start = len(all)
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	out := make([]*domain.Task, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, &all[i])
	}
	return out, int64(len(all)), nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	if _, ok := r.byID[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.byID[t.ID] = cloneTask(t)
	return nil
}

func (r *stubTaskRepo) UpdateStatus(_ context.Context, t *domain.Task, from domain.TaskStatus) error {
	stored, ok := r.byID[t.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if r.bumpBeforeUpdate != "" {
		stored.Status = r.bumpBeforeUpdate
	}
	if stored.Status != from {
		return domain.ErrConflict
	}
	r.byID[t.ID] = cloneTask(t)
	return nil
}

func (r *stubTaskRepo) AppendRevision(_ context.Context, id string, rev domain.Revision, from, to domain.TaskStatus) error {
	stored, ok := r.byID[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	if stored.Status != from {
		return domain.ErrConflict
	}
	stored.Revisions = append(stored.Revisions, rev)
	stored.Status = to
	return nil
}

func (r *stubTaskRepo) AppendComment(_ context.Context, id string, c domain.Comment) error {
	stored, ok := r.byID[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	stored.Comments = append(stored.Comments, c)
	return nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Permissions
// ---------------------------------------------------------------------------

type stubPermissionRepo struct {
	entries map[string]domain.PermissionEntry
	listErr error
	lists   int
}

func newStubPermissionRepo(table domain.PermissionTable) *stubPermissionRepo {
	r := &stubPermissionRepo{entries: make(map[string]domain.PermissionEntry)}
	for _, e := range table.Entries() {
		r.entries[string(e.Role)+"/"+string(e.Action)] = e
	}
	return r
}

func (r *stubPermissionRepo) List(_ context.Context) ([]domain.PermissionEntry, error) {
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.PermissionEntry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role+domain.Role(out[i].Action) < out[j].Role+domain.Role(out[j].Action) })
	return out, nil
}

func (r *stubPermissionRepo) Upsert(_ context.Context, e domain.PermissionEntry) error {
	r.entries[string(e.Role)+"/"+string(e.Action)] = e
	return nil
}

func (r *stubPermissionRepo) SeedIfEmpty(ctx context.Context, entries []domain.PermissionEntry) (bool, error) {
	if len(r.entries) > 0 {
		return false, nil
	}
	for _, e := range entries {
		_ = r.Upsert(ctx, e)
	}
	return true, nil
}

func newGate() *PermissionService {
	return NewPermissionService(newStubPermissionRepo(domain.DefaultPermissionTable()), zerolog.Nop())
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type stubInvalidator struct{ calls int }

func (i *stubInvalidator) Invalidate(context.Context) { i.calls++ }

type stubCache struct {
	boards        map[domain.LeaderboardMode]*domain.Leaderboard
	gen           int64
	getErr        error
	setErr        error
	invalidations int
	staleWrites   int
}

func newStubCache() *stubCache {
	return &stubCache{boards: make(map[domain.LeaderboardMode]*domain.Leaderboard)}
}

func (c *stubCache) Get(_ context.Context, mode domain.LeaderboardMode) (*domain.Leaderboard, int64, error) {
	if c.getErr != nil {
		return nil, 0, c.getErr
	}
	return c.boards[mode], c.gen, nil
}

func (c *stubCache) Set(_ context.Context, lb *domain.Leaderboard, gen int64) error {
	if c.setErr != nil {
		return c.setErr
	}
	if gen != c.gen {
		c.staleWrites++
		return nil
	}
	c.boards[lb.Mode] = lb
	return nil
}

func (c *stubCache) Invalidate(context.Context) error {
	c.invalidations++
	c.gen++
	c.boards = make(map[domain.LeaderboardMode]*domain.Leaderboard)
	return nil
}

type stubLLM struct {
	reply string
	err   error
	calls [][]ports.ChatMessage
}

func (m *stubLLM) Complete(_ context.Context, messages []ports.ChatMessage) (string, error) {
	m.calls = append(m.calls, messages)
	return m.reply, m.err
}

func (m *stubLLM) lastPrompt() string {
	if len(m.calls) == 0 {
		return ""
	}
	var b strings.Builder
	for _, msg := range m.calls[len(m.calls)-1] {
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String()
}

type stubUploader struct {
	url string
	err error
}

func (u *stubUploader) UploadAvatar(_ context.Context, userID string, _ io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	return u.url + "/" + userID, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func actorOf(u domain.User) domain.Actor {
	return domain.Actor{ID: u.ID, Name: u.Name, Role: u.Role}
}

var (
	superAdmin = domain.User{ID: "u-admin", Name: "Sari", Email: "sari@krea.id", Role: domain.RoleSuperAdmin}
	director   = domain.User{ID: "u-dir", Name: "Budi", Email: "budi@krea.id", Role: domain.RoleDirector}
	opDirector = domain.User{ID: "u-op", Name: "Dewi", Email: "dewi@krea.id", Role: domain.RoleOperationalDirector}
	rina       = domain.User{ID: "u-rina", Name: "Rina", Email: "rina@krea.id", Role: domain.RoleGraphicDesigner}
	fadil      = domain.User{ID: "u-fadil", Name: "Fadil", Email: "fadil@krea.id", Role: domain.RoleVideographer}
	newcomer   = domain.User{ID: "u-new", Name: "Tono", Email: "tono@krea.id", Role: domain.RoleUnassigned}
)

func staff() []domain.User {
	return []domain.User{superAdmin, director, opDirector, rina, fadil, newcomer}
}
