package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"smartlights/pkg/utils"
)

const (
	adminUser      = "admin"
	tokenKeyPrefix = "auth:token:"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates the single admin user against a configured bcrypt
// hash. Tokens are mirrored in redis when available so logout can revoke
// them before expiry.
type Service struct {
	passwordHash string
	tokenTTL     time.Duration
	redis        *redis.Client
}

func NewService(passwordHash string, tokenTTL time.Duration, redisClient *redis.Client) *Service {
	return &Service{
		passwordHash: passwordHash,
		tokenTTL:     tokenTTL,
		redis:        redisClient,
	}
}

func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	if username != adminUser {
		return "", ErrInvalidCredentials
	}
	if err := utils.ComparePassword(s.passwordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(adminUser, adminUser, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, tokenKeyPrefix+token, username, s.tokenTTL).Err(); err != nil {
			return "", fmt.Errorf("failed to store token: %w", err)
		}
	}
	return token, nil
}

// ValidateToken checks signature and expiry, and, when redis is configured,
// that the token has not been revoked.
func (s *Service) ValidateToken(ctx context.Context, token string) (string, error) {
	claims, err := utils.ParseJWT(token)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if s.redis != nil {
		if err := s.redis.Get(ctx, tokenKeyPrefix+token).Err(); err != nil {
			return "", ErrInvalidCredentials
		}
	}
	return claims.UserID, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if s.redis == nil {
		return nil
	}
	if err := s.redis.Del(ctx, tokenKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}
