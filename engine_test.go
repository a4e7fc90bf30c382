package goVerify

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

/*
====================================
TEST HARNESS
====================================
*/

type mailRecord struct {
	to      string
	subject string
	body    string
}

type recordingNotifier struct {
	mu     sync.Mutex
	mails  []mailRecord
	fail   bool
	reason string
}

func (n *recordingNotifier) Send(_ context.Context, to, subject, body string) NotificationOutcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.mails = append(n.mails, mailRecord{to: to, subject: subject, body: body})
	if n.fail {
		return NotificationOutcome{OK: false, Reason: n.reason}
	}
	return NotificationOutcome{OK: true}
}

func (n *recordingNotifier) sent() []mailRecord {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]mailRecord, len(n.mails))
	copy(out, n.mails)
	return out
}

// memProvider is a map-backed UserProvider with per-method error injection.
type memProvider struct {
	mu      sync.Mutex
	users   map[string]*UserRecord
	byEmail map[string]string
	secrets map[string]string
	nextID  int

	createErr   error
	activateErr error
	applyErr    error
}

func newMemProvider() *memProvider {
	return &memProvider{
		users:   make(map[string]*UserRecord),
		byEmail: make(map[string]string),
		secrets: make(map[string]string),
	}
}

func (p *memProvider) addUser(email, hash string, status AccountStatus, mode TwoFactorMode) UserRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	u := &UserRecord{
		UserID:        fmt.Sprintf("u%d", p.nextID),
		Email:         email,
		PasswordHash:  hash,
		Status:        status,
		Role:          "user",
		TwoFactorMode: mode,
	}
	p.users[u.UserID] = u
	p.byEmail[email] = u.UserID
	return *u
}

func (p *memProvider) user(userID string) UserRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.users[userID]
}

func (p *memProvider) GetUserByID(_ context.Context, userID string) (UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return *u, nil
}

func (p *memProvider) GetUserByEmail(_ context.Context, email string) (UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id, ok := p.byEmail[email]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return *p.users[id], nil
}

func (p *memProvider) CreateUser(_ context.Context, input CreateUserInput) (UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return UserRecord{}, p.createErr
	}
	if _, exists := p.byEmail[input.Email]; exists {
		return UserRecord{}, ErrProviderDuplicateEmail
	}
	p.nextID++
	u := &UserRecord{
		UserID:       fmt.Sprintf("u%d", p.nextID),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Status:       input.Status,
		Role:         input.Role,
	}
	p.users[u.UserID] = u
	p.byEmail[u.Email] = u.UserID
	return *u, nil
}

func (p *memProvider) ActivateUser(_ context.Context, userID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.activateErr != nil {
		return p.activateErr
	}
	u, ok := p.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Status = AccountActive
	return nil
}

func (p *memProvider) UpdatePasswordHash(_ context.Context, userID string, newHash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = newHash
	return nil
}

func (p *memProvider) SetTwoFactorMode(_ context.Context, userID string, mode TwoFactorMode) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.TwoFactorMode = mode
	return nil
}

func (p *memProvider) GetTOTPSecret(_ context.Context, userID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.users[userID]; !ok {
		return "", ErrUserNotFound
	}
	return p.secrets[userID], nil
}

func (p *memProvider) SetTOTPSecret(_ context.Context, userID string, secretBase32 string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.users[userID]; !ok {
		return ErrUserNotFound
	}
	p.secrets[userID] = secretBase32
	return nil
}

func (p *memProvider) ApplyProfileEdit(_ context.Context, userID string, edit ProfileEdit) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.applyErr != nil {
		return p.applyErr
	}
	u, ok := p.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	if edit.Email != "" && edit.Email != u.Email {
		if _, taken := p.byEmail[edit.Email]; taken {
			return ErrProfileConflict
		}
		delete(p.byEmail, u.Email)
		p.byEmail[edit.Email] = userID
		u.Email = edit.Email
	}
	return nil
}

// testConfig shrinks argon2 so hashing does not dominate test runtime.
func testConfig() Config {
	cfg := defaultConfig()
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

type testEngine struct {
	engine   *Engine
	mock     sqlmock.Sqlmock
	provider *memProvider
	notifier *recordingNotifier
	redis    *miniredis.Miniredis
}

func newTestEngine(t *testing.T, opts ...func(*Builder)) *testEngine {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}

	provider := newMemProvider()
	notifier := &recordingNotifier{}

	b := New().
		WithConfig(testConfig()).
		WithDB(db).
		WithUserProvider(provider).
		WithNotifier(notifier)
	for _, opt := range opts {
		opt(b)
	}

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	t.Cleanup(func() {
		engine.Close()
		_ = db.Close()
	})

	return &testEngine{
		engine:   engine,
		mock:     mock,
		provider: provider,
		notifier: notifier,
	}
}

func newTestEngineWithRedis(t *testing.T) *testEngine {
	t.Helper()

	mr := miniredis.RunT(t)
	te := newTestEngine(t, func(b *Builder) {
		b.WithRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	})
	te.redis = mr
	return te
}

func (te *testEngine) hash(t *testing.T, pw string) string {
	t.Helper()
	h, err := te.engine.passwordHash.Hash(pw)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return h
}

func (te *testEngine) metric(id MetricID) uint64 {
	return te.engine.metrics.Value(id)
}

/*
====================================
SQL EXPECTATION HELPERS
====================================
*/

func expectIssue(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM verification_tokens WHERE subject_id").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO verification_tokens").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
}

func expectResolve(mock sqlmock.Sqlmock, subject, code, purpose string) {
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"subject_id", "code", "purpose", "created_at", "expires_at"}).
		AddRow(subject, code, purpose, now.Add(-time.Second), now.Add(50*time.Second))
	mock.ExpectQuery("SELECT subject_id, code, purpose").WillReturnRows(rows)
}

func expectResolveMiss(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("SELECT subject_id, code, purpose").WillReturnError(sql.ErrNoRows)
}

func expectConsumeAndSweep(mock sqlmock.Sqlmock) {
	mock.ExpectExec("DELETE FROM verification_tokens WHERE code").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM verification_tokens WHERE expires_at").
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func expectExpiredProbe(mock sqlmock.Sqlmock, expired bool) {
	rows := sqlmock.NewRows([]string{"exists"}).AddRow(expired)
	mock.ExpectQuery("SELECT EXISTS").WillReturnRows(rows)
}

/*
====================================
BUILDER
====================================
*/

func TestBuildRequiresDependencies(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	provider := newMemProvider()
	notifier := &recordingNotifier{}

	cases := []struct {
		name  string
		setup func() *Builder
	}{
		{"no db", func() *Builder {
			return New().WithUserProvider(provider).WithNotifier(notifier)
		}},
		{"no provider", func() *Builder {
			return New().WithDB(db).WithNotifier(notifier)
		}},
		{"no notifier", func() *Builder {
			return New().WithDB(db).WithUserProvider(provider)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.setup().Build(); err == nil {
				t.Fatal("expected build error")
			}
		})
	}
}

func TestBuildRejectsReuse(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	b := New().
		WithConfig(testConfig()).
		WithDB(db).
		WithUserProvider(newMemProvider()).
		WithNotifier(&recordingNotifier{})

	engine, err := b.Build()
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	defer engine.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error on second build")
	}
}

func TestBuildGeneratesResetSigningKey(t *testing.T) {
	te := newTestEngine(t)

	grant, err := te.engine.resetGrants.Issue("u1")
	if err != nil {
		t.Fatalf("issue grant: %v", err)
	}
	userID, err := te.engine.resetGrants.Parse(grant)
	if err != nil {
		t.Fatalf("parse grant: %v", err)
	}
	if userID != "u1" {
		t.Fatalf("subject = %q, want u1", userID)
	}
}

func TestNilEngineAccessorsAreSafe(t *testing.T) {
	var e *Engine
	e.Close()
	if got := e.AuditDropped(); got != 0 {
		t.Fatalf("AuditDropped = %d, want 0", got)
	}
	snap := e.MetricsSnapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatal("nil engine snapshot not empty")
	}
}
