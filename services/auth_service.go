package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"kiosk-order/models"
	"kiosk-order/repositories"
	"kiosk-order/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrSessionRevoked     = errors.New("device session has ended")
)

type DeviceStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetTenant(ctx context.Context, id string) (*models.Tenant, error)
	CreateSession(ctx context.Context, session *models.DeviceSession) error
	RevokeSession(ctx context.Context, sessionID string) error
	IsSessionActive(ctx context.Context, sessionID string) (bool, error)
}

type AuthService struct {
	devices DeviceStore
	menu    *MenuService
	carts   *CartService
	secret  string
	expiry  time.Duration
	logger  *zap.Logger
}

func NewAuthService(devices DeviceStore, menu *MenuService, carts *CartService, secret string, expiry time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		devices: devices,
		menu:    menu,
		carts:   carts,
		secret:  secret,
		expiry:  expiry,
		logger:  logger,
	}
}

// DeviceLogin signs a kiosk or QR device in with staff credentials. When a
// store is given the device is pinned to it for the lifetime of the token.
func (s *AuthService) DeviceLogin(ctx context.Context, req models.DeviceLoginRequest) (*models.DeviceAuthResponse, error) {
	user, err := s.devices.FindUserByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	tenant, err := s.devices.GetTenant(ctx, user.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "load tenant")
	}

	session := &models.DeviceSession{
		TenantID:   tenant.ID,
		TenantName: tenant.Name,
		DeviceName: req.DeviceName,
		UserID:     user.ID,
	}
	if req.StoreID != "" {
		store, err := s.menu.GetStore(ctx, tenant.ID, req.StoreID)
		if err != nil {
			return nil, err
		}
		session.StoreID = &store.ID
		session.StoreName = &store.Name
	}

	if err := s.devices.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	claims := utils.DeviceClaims{
		SessionID:  session.ID,
		TenantID:   session.TenantID,
		DeviceName: session.DeviceName,
	}
	if session.StoreID != nil {
		claims.StoreID = *session.StoreID
	}
	token, err := utils.GenerateToken(claims, s.secret, s.expiry)
	if err != nil {
		return nil, err
	}

	s.logger.Info("device logged in",
		zap.String("session_id", session.ID),
		zap.String("tenant_id", session.TenantID),
		zap.String("device_name", session.DeviceName),
	)

	return &models.DeviceAuthResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.expiry.Seconds()),
		Device:      *session,
	}, nil
}

// Authenticate validates a bearer token and checks that its session is
// still open.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*utils.DeviceClaims, error) {
	claims, err := utils.ValidateToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	active, err := s.devices.IsSessionActive(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrSessionRevoked
	}
	return claims, nil
}

// Logout ends the device session and throws its cart away.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.devices.RevokeSession(ctx, sessionID); err != nil {
		return err
	}
	s.carts.Discard(ctx, sessionID)

	s.logger.Info("device logged out", zap.String("session_id", sessionID))
	return nil
}
