package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/miboks/miboks-server/internal/auth/domain"
	"github.com/miboks/miboks-server/internal/auth/repository"
	"github.com/miboks/miboks-server/internal/platform/config"
	"github.com/miboks/miboks-server/internal/platform/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid email/phone or password")
	ErrVendorAlreadyExists = errors.New("vendor with this email or phone number already exists")
	ErrInvalidToken        = errors.New("invalid or expired token")
)

// ProfileBootstrapper creates the vendor's settings profile right after
// registration so the app shell always finds one.
type ProfileBootstrapper interface {
	CreateDefaultProfile(ctx context.Context, vendorID, businessName, email string) error
}

type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Vendor, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	VerifyToken(tokenString string) (vendorID string, err error)
}

type authServiceImpl struct {
	repo     repository.VendorRepository
	profiles ProfileBootstrapper
	cfg      config.AuthConfig
}

func NewAuthService(repo repository.VendorRepository, profiles ProfileBootstrapper, cfg config.AuthConfig) AuthService {
	return &authServiceImpl{repo: repo, profiles: profiles, cfg: cfg}
}

func (s *authServiceImpl) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Vendor, error) {
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.BusinessName = strings.TrimSpace(req.BusinessName)
	if req.PhoneNumber != nil {
		*req.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("Register: failed to hash password", err)
		return nil, fmt.Errorf("could not process registration: %w", err)
	}

	vendor := &domain.Vendor{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: string(hashedPassword),
	}

	err = s.repo.CreateVendor(ctx, vendor)
	if err != nil {
		if errors.Is(err, repository.ErrVendorConflict) {
			return nil, ErrVendorAlreadyExists
		}
		logger.Error("Register: failed to create vendor in repo", err)
		return nil, fmt.Errorf("could not save vendor: %w", err)
	}

	if s.profiles != nil {
		if err := s.profiles.CreateDefaultProfile(ctx, vendor.ID, vendor.BusinessName, vendor.Email); err != nil {
			// The vendor can still log in; the settings screen upserts later.
			logger.Warn("Register: failed to bootstrap profile", zap.String("vendor_id", vendor.ID), zap.Error(err))
		}
	}

	vendor.PasswordHash = ""
	return vendor, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Identifier = strings.TrimSpace(req.Identifier)

	vendor, err := s.repo.GetVendorByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, repository.ErrVendorNotFound) {
			return nil, ErrInvalidCredentials
		}
		logger.Error("Login: failed to get vendor by identifier", err)
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(vendor.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"vendor_id": vendor.ID,
		"email":     vendor.Email,
		"exp":       time.Now().Add(time.Duration(s.cfg.TokenTTLHours) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		logger.Error("Login: failed to sign token", err)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	vendor.PasswordHash = ""
	return &domain.LoginResponse{
		Vendor: *vendor,
		Token:  tokenString,
	}, nil
}

// VerifyToken parses the bearer token and returns the acting vendor's ID.
func (s *authServiceImpl) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	vendorID, ok := claims["vendor_id"].(string)
	if !ok || vendorID == "" {
		return "", ErrInvalidToken
	}
	return vendorID, nil
}
