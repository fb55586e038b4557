package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"attendly/internal/domain/users"
)

// UserStore is the part of the identity store the access gate needs.
type UserStore interface {
	Create(ctx context.Context, in users.NewUser) (users.User, error)
	GetByID(ctx context.Context, id string) (users.User, error)
	GetByEmail(ctx context.Context, email string) (users.User, error)
	UpdateProfile(ctx context.Context, id string, p users.Profile) (users.User, error)
}

type Service struct {
	Store    UserStore
	Secret   string
	TokenTTL time.Duration
}

func NewService(store UserStore, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Secret: secret, TokenTTL: ttl}
}

type Registration struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Department string
}

type Session struct {
	Token string     `json:"token"`
	User  users.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, in Registration) (Session, error) {
	role := in.Role
	if role == "" {
		role = RoleEmployee
	}
	if !selfService(role) {
		return Session{}, ErrInvalidRole
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}
	user, err := s.Store.Create(ctx, users.NewUser{
		Name:         strings.TrimSpace(in.Name),
		Email:        users.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         role,
		Department:   strings.TrimSpace(in.Department),
	})
	if err != nil {
		return Session{}, err
	}
	return s.issue(user)
}

// Login reports ErrInvalidCredentials for unknown emails and wrong passwords alike.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.Store.GetByEmail(ctx, users.NormalizeEmail(email))
	if errors.Is(err, users.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.issue(user)
}

func (s *Service) Me(ctx context.Context, userID string) (users.User, error) {
	return s.Store.GetByID(ctx, userID)
}

// UpdateProfile keeps fields that are left blank.
func (s *Service) UpdateProfile(ctx context.Context, userID string, p users.Profile) (users.User, error) {
	current, err := s.Store.GetByID(ctx, userID)
	if err != nil {
		return users.User{}, err
	}
	next := users.Profile{Name: current.Name, Email: current.Email, Department: current.Department}
	if v := strings.TrimSpace(p.Name); v != "" {
		next.Name = v
	}
	if v := users.NormalizeEmail(p.Email); v != "" {
		next.Email = v
	}
	if v := strings.TrimSpace(p.Department); v != "" {
		next.Department = v
	}
	return s.Store.UpdateProfile(ctx, userID, next)
}

func (s *Service) issue(user users.User) (Session, error) {
	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, Role: user.Role, EmployeeID: user.EmployeeID}, s.TokenTTL)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: user}, nil
}

func selfService(role string) bool {
	for _, r := range SelfServiceRoles {
		if r == role {
			return true
		}
	}
	return false
}
