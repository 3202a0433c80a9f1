package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"puntualo-api/internal/models"
	"puntualo-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	users     *repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(users *repository.UserRepository, secret string) *AuthService {
	return &AuthService{users: users, jwtSecret: []byte(secret)}
}

type RegisterUserData struct {
	Handle      string
	Name        string
	Email       string
	Password    string
	Description string
	IsPrivate   bool
}

// ================== REGISTER & LOGIN ==================

// Register crea un usuario nuevo. Handle y email deben ser únicos.
func (s *AuthService) Register(ctx context.Context, data RegisterUserData) (*models.UserDoc, error) {
	handle := strings.ToLower(strings.TrimSpace(data.Handle))
	email := strings.ToLower(strings.TrimSpace(data.Email))
	if handle == "" || email == "" || data.Password == "" {
		return nil, fmt.Errorf("handle, email y password son requeridos")
	}

	if existing, err := s.users.FindByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("email ya registrado")
	}
	if existing, err := s.users.FindByHandle(ctx, handle); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("handle ya en uso")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)

	u := &models.UserDoc{
		Handle:        handle,
		Name:          data.Name,
		Email:         email,
		PasswordHash:  string(hash),
		Description:   data.Description,
		IsPrivate:     data.IsPrivate,
		AvatarBgColor: "#9CA3AF",
		Followers:     []primitive.ObjectID{},
		Following:     []primitive.ObjectID{},
		RatedItems:    []models.RatedItem{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.UserDoc, error) {
	u, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, fmt.Errorf("credenciales inválidas")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("credenciales inválidas")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": u.ID.Hex(),
		"exp": time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	sToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return sToken, u, nil
}
