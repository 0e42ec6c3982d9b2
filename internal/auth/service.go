package auth

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sharath018/realestate-backend/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service interface {
	Login(input LoginInput) (*TokenPair, *User, error)
	Refresh(refreshToken string) (string, error)
	GetUserByID(userID string) (User, error)
	ParseAccessToken(tokenStr string) (string, error)
}

type service struct {
	repo          Repository
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(r Repository, cfg *config.Config) Service {
	return &service{
		repo:          r,
		accessSecret:  cfg.JWTAccessSecret,
		refreshSecret: cfg.JWTRefreshSecret,
		accessTTL:     time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		refreshTTL:    time.Duration(cfg.JWTRefreshTTLHours) * time.Hour,
	}
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("your account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
)

// =============================
// Login
// =============================

type LoginInput struct {
	Email    string
	Password string
}

func (s *service) Login(in LoginInput) (*TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveAccount
	}

	accessToken, err := s.signToken(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, nil, err
	}
	refreshToken, err := s.signToken(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, user, nil
}

func (s *service) signToken(user *User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"role":      user.Role,
		"hierarchy": user.Hierarchy,
		"exp":       time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func parseUserID(tokenStr, secret string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}

// ParseAccessToken validates an access token and returns its user ID.
func (s *service) ParseAccessToken(tokenStr string) (string, error) {
	return parseUserID(tokenStr, s.accessSecret)
}

// =============================
// Refresh
// =============================

func (s *service) Refresh(refreshToken string) (string, error) {
	userID, err := parseUserID(refreshToken, s.refreshSecret)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}

	user, err := s.repo.FindByID(userID)
	if err != nil {
		return "", errors.New("user not found")
	}

	return s.signToken(&user, s.accessSecret, s.accessTTL)
}

func (s *service) GetUserByID(userID string) (User, error) {
	return s.repo.FindByID(userID)
}

// HashPassword bcrypt-hashes a plain password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SeedAdminUser creates the configured admin account if it does not exist yet.
func SeedAdminUser(db *gorm.DB, cfg *config.Config) error {
	if strings.TrimSpace(cfg.AdminEmail) == "" || cfg.AdminPassword == "" {
		log.Println("ℹ️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	repo := NewRepository(db)
	if _, err := repo.FindByEmail(cfg.AdminEmail); err == nil {
		log.Println("✅ Admin user already exists")
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	admin := &User{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         RoleAdmin,
		Hierarchy:    HierarchyForRole(RoleAdmin),
		Permissions:  datatypes.NewJSONType(DefaultPermissions(RoleAdmin)),
		IsActive:     true,
	}
	if err := repo.Create(admin); err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	log.Printf("✅ Seeded admin user %s", admin.Email)
	return nil
}
