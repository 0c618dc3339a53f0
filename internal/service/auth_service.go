package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobportal/internal/auth"
	"jobportal/internal/errors"
	"jobportal/internal/logging"
	"jobportal/internal/media"
	"jobportal/internal/metrics"
	"jobportal/internal/model"
	"jobportal/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// Auth operation labels used for metrics.
const (
	opRegister      = "register"
	opLogin         = "login"
	opLogout        = "logout"
	opUpdateProfile = "update_profile"
)

// RegisterInput carries a sign-up request.
type RegisterInput struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	// File is an optional profile photo.
	File *media.File
}

// ProfileUpdate carries the fields a user may change. Empty strings leave
// the stored value untouched. Skills is comma-delimited.
type ProfileUpdate struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Bio         string
	Skills      string
	Password    string
}

// LoginResult is a signed session plus the client view of the user.
type LoginResult struct {
	Session auth.Session
	User    *model.SafeUser
}

// AuthService handles authentication and profile operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.SafeUser, error)
	Login(ctx context.Context, email, password, role string) (*LoginResult, error)
	Logout(ctx context.Context, token string)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.SafeUser, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdate, file *media.File) (*model.SafeUser, error)
}

type authService struct {
	users      repository.UserRepository
	hasher     auth.PasswordHasher
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	deps       Deps
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, hasher auth.PasswordHasher, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, deps Deps) AuthService {
	return &authService{
		users:      users,
		hasher:     hasher,
		jwtService: jwtService,
		tokenStore: tokenStore,
		deps:       deps.withDefaults(),
		now:        time.Now,
	}
}

func (s *authService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// Register creates a new user with a hashed password. It does not log the
// user in.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.SafeUser, error) {
	if blank(in.Fullname, in.Email, in.PhoneNumber, in.Password, in.Role) {
		s.deps.Metrics.RecordAuth(opRegister, metrics.OutcomeFailure)
		return nil, errors.ErrMissingFields
	}
	role := model.Role(strings.TrimSpace(in.Role))
	if !role.Valid() {
		s.deps.Metrics.RecordAuth(opRegister, metrics.OutcomeFailure)
		return nil, errors.Validation("Invalid role. Choose %s or %s.", model.RoleSeeker, model.RoleRecruiter)
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		s.deps.Metrics.RecordAuth(opRegister, metrics.OutcomeFailure)
		return nil, errors.ErrPasswordTooLong
	}

	// Check before uploading so a doomed registration costs no upload.
	existing, err := s.users.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		s.deps.Metrics.RecordAuth(opRegister, metrics.OutcomeFailure)
		return nil, errors.ErrUserExists
	}
	if err != nil && err != repository.ErrNotFound {
		s.deps.Metrics.RecordAuth(opRegister, metrics.OutcomeError)
		return nil, errors.Internal(err, "check user existence")
	}

	photo := s.deps.storeOptional(ctx, in.File, media.FolderProfilePhotos)

	hashed, err := s.hashPassword(in.Password)
	if err != nil {
		s.deps.Metrics.RecordAuth(opRegister, outcomeOf(err))
		return nil, err
	}

	user := &model.User{
		Fullname:    in.Fullname,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    hashed,
		Role:        role,
		Profile:     model.Profile{ProfilePhoto: photo},
	}
	if err := s.users.Create(ctx, user); err != nil {
		if err == repository.ErrDuplicate {
			s.deps.Metrics.RecordAuth(opRegister, metrics.OutcomeFailure)
			return nil, errors.ErrUserExists
		}
		s.deps.Metrics.RecordAuth(opRegister, metrics.OutcomeError)
		return nil, errors.Internal(err, "create user")
	}

	s.deps.Metrics.RecordAuth(opRegister, metrics.OutcomeSuccess)
	s.deps.Logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user.Safe(), nil
}

// Login verifies credentials and issues a session token. An unknown email
// and a wrong password produce the same error.
func (s *authService) Login(ctx context.Context, email, password, role string) (*LoginResult, error) {
	if blank(email, password, role) {
		s.deps.Metrics.RecordAuth(opLogin, metrics.OutcomeFailure)
		return nil, errors.ErrMissingFields
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			s.deps.Metrics.RecordAuth(opLogin, metrics.OutcomeFailure)
			return nil, errors.ErrInvalidCredentials
		}
		s.deps.Metrics.RecordAuth(opLogin, metrics.OutcomeError)
		return nil, errors.Internal(err, "find user")
	}

	ok, err := s.hasher.Verify(password, user.Password)
	if err != nil {
		s.deps.Metrics.RecordAuth(opLogin, metrics.OutcomeError)
		return nil, errors.Internal(err, "verify password")
	}
	if !ok {
		s.deps.Metrics.RecordAuth(opLogin, metrics.OutcomeFailure)
		return nil, errors.ErrInvalidCredentials
	}

	if string(user.Role) != strings.TrimSpace(role) {
		s.deps.Metrics.RecordAuth(opLogin, metrics.OutcomeFailure)
		return nil, errors.ErrRoleMismatch
	}

	session, err := s.jwtService.Issue(user.ID, string(user.Role))
	if err != nil {
		s.deps.Metrics.RecordAuth(opLogin, metrics.OutcomeError)
		return nil, errors.Internal(err, "issue session token")
	}

	s.deps.Metrics.RecordAuth(opLogin, metrics.OutcomeSuccess)
	s.deps.Logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &LoginResult{Session: session, User: user.Safe()}, nil
}

// Logout revokes the session carried by token, if any. It never fails.
func (s *authService) Logout(ctx context.Context, token string) {
	s.deps.Metrics.RecordAuth(opLogout, metrics.OutcomeSuccess)
	if token == "" {
		return
	}

	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return
	}
	if err := s.tokenStore.RevokeSession(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		logging.LogError(s.deps.Logger, "revoke session", err, "user_id", claims.UserID)
	}
}

// GetProfile returns the client view of a user, read through the cache.
func (s *authService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.SafeUser, error) {
	if userID == uuid.Nil {
		return nil, errors.ErrUnauthenticated
	}

	var cached model.SafeUser
	if s.deps.Cache.GetJSON(ctx, s.cacheKey(userID), &cached) {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.Internal(err, "find user")
	}

	safe := user.Safe()
	s.deps.Cache.SetJSON(ctx, s.cacheKey(userID), safe, profileCacheTTL)
	return safe, nil
}

// UpdateProfile applies the non-empty fields of in. A failed resume upload
// is logged and skipped; the remaining fields are still written.
func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdate, file *media.File) (*model.SafeUser, error) {
	if userID == uuid.Nil {
		s.deps.Metrics.RecordAuth(opUpdateProfile, metrics.OutcomeFailure)
		return nil, errors.ErrUnauthenticated
	}
	if len(in.Password) > auth.MaxPasswordBytes {
		s.deps.Metrics.RecordAuth(opUpdateProfile, metrics.OutcomeFailure)
		return nil, errors.ErrPasswordTooLong
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if err == repository.ErrNotFound {
			s.deps.Metrics.RecordAuth(opUpdateProfile, metrics.OutcomeFailure)
			return nil, errors.ErrUserNotFound
		}
		s.deps.Metrics.RecordAuth(opUpdateProfile, metrics.OutcomeError)
		return nil, errors.Internal(err, "find user")
	}

	patch := model.UserPatch{
		Fullname:    nonEmpty(in.Fullname),
		Email:       nonEmpty(in.Email),
		PhoneNumber: nonEmpty(in.PhoneNumber),
		Bio:         nonEmpty(in.Bio),
		Skills:      model.ParseList(in.Skills),
	}
	if strings.TrimSpace(in.Password) != "" {
		hashed, err := s.hashPassword(in.Password)
		if err != nil {
			s.deps.Metrics.RecordAuth(opUpdateProfile, outcomeOf(err))
			return nil, err
		}
		patch.Password = &hashed
	}
	if url := s.deps.storeOptional(ctx, file, media.FolderResumes); url != "" {
		patch.Resume = strPtr(url)
		patch.ResumeOriginalName = strPtr(file.Filename)
	}

	user, err := s.users.Update(ctx, userID, patch)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			s.deps.Metrics.RecordAuth(opUpdateProfile, metrics.OutcomeFailure)
			return nil, errors.ErrUserNotFound
		case repository.ErrDuplicate:
			s.deps.Metrics.RecordAuth(opUpdateProfile, metrics.OutcomeFailure)
			return nil, errors.ErrUserExists
		default:
			s.deps.Metrics.RecordAuth(opUpdateProfile, metrics.OutcomeError)
			return nil, errors.Internal(err, "update user")
		}
	}

	_ = s.deps.Cache.Delete(ctx, s.cacheKey(userID))
	s.deps.Metrics.RecordAuth(opUpdateProfile, metrics.OutcomeSuccess)
	return user.Safe(), nil
}

// hashPassword maps hasher input errors to validation errors; anything else
// is internal.
func (s *authService) hashPassword(password string) (string, error) {
	hashed, err := s.hasher.Hash(password)
	switch err {
	case nil:
		return hashed, nil
	case auth.ErrPasswordTooLong:
		return "", errors.ErrPasswordTooLong
	case auth.ErrEmptyPassword:
		return "", errors.ErrMissingFields
	default:
		return "", errors.Internal(err, "hash password")
	}
}

func outcomeOf(err error) string {
	if errors.CodeOf(err) == errors.CodeInternal {
		return metrics.OutcomeError
	}
	return metrics.OutcomeFailure
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func nonEmpty(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
