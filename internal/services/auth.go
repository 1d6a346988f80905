package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/agoradev/agora-backend/internal/logger"
	"github.com/agoradev/agora-backend/internal/repos"
	"github.com/agoradev/agora-backend/internal/types"
)

// AuthService is a thin collaborator: enough register/login/token surface to
// exercise the protected routes. Session/refresh management lives elsewhere.
type AuthService interface {
	Register(ctx context.Context, email, username, password string) (*types.User, string, error)
	Login(ctx context.Context, email, password string) (*types.User, string, error)
	ParseToken(tokenString string) (uuid.UUID, bool, error)
}

type authService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	secretKey string
	tokenTTL  time.Duration
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, secretKey string, tokenTTL time.Duration) AuthService {
	return &authService{
		db:        db,
		log:       log.With("service", "AuthService"),
		userRepo:  userRepo,
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
	}
}

func (as *authService) Register(ctx context.Context, email, username, password string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return nil, "", ErrValidation
	}

	var user *types.User
	err := runInTx(ctx, as.db, func(tx *gorm.DB) error {
		emailExists, err := as.userRepo.EmailExists(ctx, tx, email)
		if err != nil {
			return err
		}
		if emailExists {
			return ErrAlreadyExists
		}
		usernameExists, err := as.userRepo.UsernameExists(ctx, tx, username)
		if err != nil {
			return err
		}
		if usernameExists {
			return ErrAlreadyExists
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user = &types.User{
			Email:    email,
			Username: username,
			Password: string(hashed),
		}
		_, err = as.userRepo.Create(ctx, tx, user)
		return err
	})
	if err != nil {
		return nil, "", err
	}

	token, err := as.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*types.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, "", ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrForbidden
	}
	token, err := as.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (as *authService) issueToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"adm": user.IsAdmin,
		"iat": now.Unix(),
		"exp": now.Add(as.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.secretKey))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (as *authService) ParseToken(tokenString string) (uuid.UUID, bool, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.secretKey), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, false, ErrForbidden
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false, ErrForbidden
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false, ErrForbidden
	}
	isAdmin, _ := claims["adm"].(bool)
	return userID, isAdmin, nil
}
