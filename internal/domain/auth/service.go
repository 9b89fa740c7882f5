package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	jwtsvc "estatehub/internal/pkg/jwt"

	"gorm.io/gorm"
)

type Service struct {
	users UserRepository
	jwt   *jwtsvc.Service
}

func NewService(users UserRepository, jwt *jwtsvc.Service) *Service {
	return &Service{users: users, jwt: jwt}
}

// Login authenticates a user and issues an access token. Unverified
// accounts are rejected unless they hold the super admin role.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		log.Printf("auth: login failed user_id=%d reason=bad_password", user.ID)
		return "", nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", nil, ErrAccountInactive
	}
	if !user.CanAuthenticate() {
		return "", nil, ErrNotVerified
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", nil, err
	}

	log.Printf("auth: login ok user_id=%d role=%s", user.ID, user.Role)
	return token, user, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile changes non-status fields only. Verification state is
// owned by the verification workflow and never touched here.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if v := strings.TrimSpace(req.Name); v != "" {
		fields["name"] = v
	}
	if v := strings.TrimSpace(req.Phone); v != "" {
		fields["phone"] = v
	}
	if v := strings.TrimSpace(req.Position); v != "" {
		fields["position"] = v
	}
	if v := strings.TrimSpace(req.AvatarURL); v != "" {
		fields["avatar_url"] = v
	}
	if len(fields) == 0 {
		return user, nil
	}

	if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, userID)
}

// Deactivate flips the active flag off. One-way from the user's side;
// there is no self-service reactivation.
func (s *Service) Deactivate(ctx context.Context, userID int64) error {
	if _, err := s.GetByID(ctx, userID); err != nil {
		return err
	}
	if err := s.users.UpdateFields(ctx, userID, map[string]any{"is_active": false}); err != nil {
		return err
	}
	log.Printf("auth: account deactivated user_id=%d", userID)
	return nil
}
