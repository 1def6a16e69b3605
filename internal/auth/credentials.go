package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mediatube/backend/internal/models"
	"github.com/mediatube/backend/internal/repositories"
)

var (
	// ErrInvalidCredentials indicates the supplied email/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenInvalid indicates a token failed signature or claim validation.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired indicates a token's validity window has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrSessionRevoked indicates the refresh token no longer matches the stored one.
	ErrSessionRevoked = errors.New("session revoked")
	// ErrAccountExists indicates the username or email is already taken.
	ErrAccountExists = errors.New("account already exists")
	// ErrMissingField indicates a required registration field was not provided.
	ErrMissingField = errors.New("missing required field")
)

// UserStore captures the persistence operations the credential manager needs.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, token string) error
	UpdatePassword(ctx context.Context, userID, hash string) error
}

// Keys holds the signing material and validity windows for issued tokens.
// Access and refresh tokens are signed with independent secrets so the
// compromise of one does not let an attacker mint the other.
type Keys struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Claims is the payload carried by both access and refresh tokens.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Manager owns password hashing and the signed-token lifecycle. Plaintext
// passwords exist only inside Register, Login and ChangePassword; every
// other component sees the bcrypt hash.
type Manager struct {
	users   UserStore
	keys    Keys
	cost    int
	NowFunc func() time.Time
}

// NewManager constructs a credential manager bound to the provided user store.
func NewManager(users UserStore, keys Keys) *Manager {
	if users == nil {
		panic("auth: user store must not be nil")
	}
	if len(keys.AccessSecret) == 0 || len(keys.RefreshSecret) == 0 {
		panic("auth: signing secrets must not be empty")
	}
	if keys.AccessTTL <= 0 {
		keys.AccessTTL = 15 * time.Minute
	}
	if keys.RefreshTTL <= 0 {
		keys.RefreshTTL = 240 * time.Hour
	}
	return &Manager{
		users: users,
		keys:  keys,
		cost:  bcrypt.DefaultCost,
	}
}

// HashPassword derives a salted bcrypt hash from the plaintext.
func (m *Manager) HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), m.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether the plaintext matches the stored hash. The
// comparison is delegated to bcrypt; hashes are never reconstructed here.
func (m *Manager) VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// RegisterInput carries the fields accepted at account creation.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Password   string
	Avatar     string
	CoverImage string
	Bio        string
}

// Register creates an account. The password is hashed exactly once, here;
// the stored record never holds plaintext.
func (m *Manager) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	for field, value := range map[string]string{
		"username": in.Username,
		"email":    in.Email,
		"password": in.Password,
		"avatar":   in.Avatar,
	} {
		if value == "" {
			return models.User{}, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	if _, err := m.users.FindByEmail(ctx, in.Email); err == nil {
		return models.User{}, ErrAccountExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, fmt.Errorf("check existing account: %w", err)
	}

	hash, err := m.HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}

	now := m.now()
	user := models.User{
		ID:         uuid.NewString(),
		Username:   in.Username,
		Email:      in.Email,
		FullName:   in.FullName,
		Password:   hash,
		Bio:        in.Bio,
		Avatar:     in.Avatar,
		CoverImage: in.CoverImage,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := m.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return models.User{}, ErrAccountExists
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login verifies the email/password pair and issues a fresh token pair.
func (m *Manager) Login(ctx context.Context, email, password string) (models.User, models.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return models.User{}, models.TokenPair{}, ErrInvalidCredentials
	}

	user, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.User{}, models.TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, models.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if !m.VerifyPassword(password, user.Password) {
		return models.User{}, models.TokenPair{}, ErrInvalidCredentials
	}

	tokens, err := m.Issue(ctx, user)
	if err != nil {
		return models.User{}, models.TokenPair{}, err
	}

	return user, tokens, nil
}

// Issue signs a new access/refresh token pair for the user and persists the
// refresh token on the user record so it can be revoked server-side.
func (m *Manager) Issue(ctx context.Context, user models.User) (models.TokenPair, error) {
	now := m.now()

	accessExpiry := now.Add(m.keys.AccessTTL)
	access, err := m.sign(user, m.keys.AccessSecret, now, accessExpiry)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshExpiry := now.Add(m.keys.RefreshTTL)
	refresh, err := m.sign(user, m.keys.RefreshSecret, now, refreshExpiry)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := m.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return models.TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
	}

	return models.TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The token
// must verify against the refresh secret and match the one stored on the
// user record; anything else is treated as a revoked session.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	claims, err := m.parse(refreshToken, m.keys.RefreshSecret)
	if err != nil {
		return models.TokenPair{}, err
	}

	user, err := m.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.TokenPair{}, ErrSessionRevoked
		}
		return models.TokenPair{}, fmt.Errorf("lookup user: %w", err)
	}

	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return models.TokenPair{}, ErrSessionRevoked
	}

	return m.Issue(ctx, user)
}

// Revoke clears the stored refresh token, ending the user's session.
func (m *Manager) Revoke(ctx context.Context, userID string) error {
	if err := m.users.UpdateRefreshToken(ctx, userID, ""); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("clear refresh token: %w", err)
	}
	return nil
}

// ChangePassword verifies the current password and stores a hash of the new
// one. This and Register are the only paths that hash, so a stored hash is
// never rehashed.
func (m *Manager) ChangePassword(ctx context.Context, userID, current, next string) error {
	if next == "" {
		return fmt.Errorf("%w: password", ErrMissingField)
	}

	user, err := m.users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	if !m.VerifyPassword(current, user.Password) {
		return ErrInvalidCredentials
	}

	hash, err := m.HashPassword(next)
	if err != nil {
		return err
	}

	if err := m.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("store password: %w", err)
	}

	return nil
}

// ParseAccess validates an access token and returns its claims.
func (m *Manager) ParseAccess(token string) (Claims, error) {
	return m.parse(token, m.keys.AccessSecret)
}

func (m *Manager) sign(user models.User, secret []byte, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *Manager) parse(token string, secret []byte) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}

func (m *Manager) now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc().UTC()
	}
	return time.Now().UTC()
}
