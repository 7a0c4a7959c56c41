package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/internal/apperrors"
	"github.com/dia-app/dia/backend/internal/models"
	"github.com/dia-app/dia/backend/internal/session"
	"github.com/dia-app/dia/backend/internal/types"
)

type AuthService struct {
	db          *gorm.DB
	jwtSecret   []byte
	tokenTTL    time.Duration
	revocations session.RevocationStore
	now         func() time.Time
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, revocations session.RevocationStore) *AuthService {
	if revocations == nil {
		revocations = session.NewMemoryRevocations()
	}
	return &AuthService{
		db:          db,
		jwtSecret:   []byte(jwtSecret),
		tokenTTL:    tokenTTL,
		revocations: revocations,
		now:         time.Now,
	}
}

// SignupPatient creates a patient account with its clinical profile and
// returns an access token.
func (s *AuthService) SignupPatient(ctx context.Context, req types.SignupPatientRequest) (*types.AuthResponse, error) {
	user, err := s.newUser(req.FullName, req.Email, req.Password, req.DateOfBirth, models.RolePatient)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.DiabetesType) == "" || strings.TrimSpace(req.Treatment) == "" {
		return nil, apperrors.NewValidationError("diabetesType and treatment are required")
	}

	user.PatientProfile = &models.PatientProfile{
		DiabetesType:        strings.TrimSpace(req.DiabetesType),
		DiagnosisDate:       trimmed(req.DiagnosisDate),
		Treatment:           strings.TrimSpace(req.Treatment),
		GlucoseChecksPerDay: trimmed(req.GlucoseChecks),
		BolusInsulin:        trimmed(req.BolusInsulin),
		BasalInsulin:        trimmed(req.BasalInsulin),
	}
	user.PatientProfile.UsesInsulin = user.PatientProfile.BolusInsulin != nil || user.PatientProfile.BasalInsulin != nil

	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// SignupDoctor creates a doctor account with its professional profile.
func (s *AuthService) SignupDoctor(ctx context.Context, req types.SignupDoctorRequest) (*types.AuthResponse, error) {
	user, err := s.newUser(req.FullName, req.Email, req.Password, req.DateOfBirth, models.RoleDoctor)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Specialty) == "" || strings.TrimSpace(req.CRM) == "" || strings.TrimSpace(req.Institution) == "" {
		return nil, apperrors.NewValidationError("specialty, crm and institution are required")
	}

	user.DoctorProfile = &models.DoctorProfile{
		Specialty:   strings.TrimSpace(req.Specialty),
		CRM:         strings.TrimSpace(req.CRM),
		Institution: strings.TrimSpace(req.Institution),
	}

	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Login checks the credentials. Unknown email and wrong password produce the
// same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*types.AuthResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}
	return s.issue(&user)
}

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, sess session.Session) error {
	if sess.TokenID == "" {
		return apperrors.NewUnauthorizedError("token has no id")
	}
	if err := s.revocations.Revoke(ctx, sess.TokenID, sess.ExpiresAt); err != nil {
		return apperrors.Wrap(err, apperrors.TypeInternal, apperrors.CodeInternal, "Failed to revoke session")
	}
	return nil
}

// GenerateToken signs an access token for user.
func (s *AuthService) GenerateToken(user *models.User) (string, *types.TokenClaims, error) {
	now := s.now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		Email: user.Email,
		Role:  user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ValidateToken verifies signature, expiry and revocation.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, apperrors.Wrap(err, apperrors.TypeUnauthorized, apperrors.CodeUnauthorized, "Invalid or expired token")
	}

	if _, err := claims.UserID(); err != nil {
		return nil, apperrors.NewUnauthorizedError("Invalid token subject")
	}
	if !claims.Role.Valid() {
		return nil, apperrors.NewUnauthorizedError("Invalid token role")
	}

	if claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.TypeInternal, apperrors.CodeInternal, "Failed to check session")
		}
		if revoked {
			return nil, apperrors.NewUnauthorizedError("Session has ended")
		}
	}
	return claims, nil
}

// GetUser loads a user with its profile.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Preload("PatientProfile").
		Preload("DoctorProfile").
		First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("user")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &user, nil
}

func (s *AuthService) newUser(fullName, email, password string, dateOfBirth *string, role models.Role) (*models.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = normalizeEmail(email)
	if fullName == "" || email == "" {
		return nil, apperrors.NewValidationError("fullName and email are required")
	}
	if len(password) < 6 {
		return nil, apperrors.NewValidationError("password must have at least 6 characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		DateOfBirth:  trimmed(dateOfBirth),
	}, nil
}

// createUser inserts the user and its profile in one transaction.
func (s *AuthService) createUser(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return apperrors.NewDatabaseError(err)
		}
		if count > 0 {
			return apperrors.NewConflictError(apperrors.CodeEmailTaken, "Email already registered")
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.NewConflictError(apperrors.CodeEmailTaken, "Email already registered")
			}
			return apperrors.NewDatabaseError(err)
		}
		return nil
	})
}

func (s *AuthService) issue(user *models.User) (*types.AuthResponse, error) {
	token, claims, err := s.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &types.AuthResponse{
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		User: types.UserSummary{
			ID:       user.ID,
			FullName: user.FullName,
			Email:    user.Email,
			Role:     user.Role,
		},
	}, nil
}

func invalidCredentials() error {
	return &apperrors.AppError{
		Type:    apperrors.TypeUnauthorized,
		Code:    apperrors.CodeInvalidCredentials,
		Message: "Invalid credentials",
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
