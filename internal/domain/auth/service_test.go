package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"attendly/internal/domain/users"
)

type memoryUsers struct {
	byID map[string]users.User
	seq  int64
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]users.User{}}
}

func (m *memoryUsers) Create(_ context.Context, in users.NewUser) (users.User, error) {
	for _, u := range m.byID {
		if u.Email == in.Email {
			return users.User{}, users.ErrEmailTaken
		}
	}
	m.seq++
	u := users.User{
		ID:           fmt.Sprintf("u%d", m.seq),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
		EmployeeID:   users.FormatEmployeeID(m.seq),
		Department:   in.Department,
		CreatedAt:    time.Now(),
	}
	m.byID[u.ID] = u
	return u, nil
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (users.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (users.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (m *memoryUsers) UpdateProfile(_ context.Context, id string, p users.Profile) (users.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	u.Name, u.Email, u.Department = p.Name, p.Email, p.Department
	m.byID[id] = u
	return u, nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newMemoryUsers(), "secret", time.Hour)
	ctx := context.Background()

	session, err := svc.Register(ctx, Registration{Name: " John Doe ", Email: " John@Example.COM ", Password: "password123", Department: "Engineering"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.User.Email != "john@example.com" || session.User.Role != RoleEmployee || session.User.EmployeeID != "EMP001" {
		t.Fatalf("unexpected user %+v", session.User)
	}
	claims, err := ParseToken("secret", session.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != session.User.ID || claims.EmployeeID != "EMP001" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := svc.Login(ctx, "JOHN@example.com", "password123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := svc.Login(ctx, "john@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterRejectsAdminAndDuplicates(t *testing.T) {
	svc := NewService(newMemoryUsers(), "secret", time.Hour)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Registration{Name: "Root", Email: "root@example.com", Password: "password123", Role: RoleAdmin}); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.Register(ctx, Registration{Name: "A", Email: "a@example.com", Password: "password123", Role: RoleManager}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, Registration{Name: "B", Email: "A@example.com", Password: "password123"}); !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpdateProfileKeepsBlankFields(t *testing.T) {
	store := newMemoryUsers()
	svc := NewService(store, "secret", time.Hour)
	ctx := context.Background()

	session, err := svc.Register(ctx, Registration{Name: "Jane", Email: "jane@example.com", Password: "password123", Department: "Design"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	updated, err := svc.UpdateProfile(ctx, session.User.ID, users.Profile{Name: "Jane Smith"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Jane Smith" || updated.Email != "jane@example.com" || updated.Department != "Design" {
		t.Fatalf("unexpected profile %+v", updated)
	}
	if updated.EmployeeID != session.User.EmployeeID || updated.Role != session.User.Role {
		t.Fatalf("immutable fields changed: %+v", updated)
	}

	if _, err := svc.Me(ctx, "missing"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
