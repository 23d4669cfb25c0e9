package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/magic-inventory/server/internal/models"
)

const (
	accessTokenExpiry  = 24 * time.Hour
	refreshTokenExpiry = 7 * 24 * time.Hour
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidToken       = errors.New("invalid token")
)

// TokenClaims are the JWT claims carried by both access and refresh
// tokens.
type TokenClaims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful login hands back.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type AuthService struct {
	db            *gorm.DB
	secret        []byte
	refreshSecret []byte
	pictures      *PictureStorage
}

func NewAuthService(db *gorm.DB, secret, refreshSecret string, pictures *PictureStorage) *AuthService {
	return &AuthService{
		db:            db,
		secret:        []byte(secret),
		refreshSecret: []byte(refreshSecret),
		pictures:      pictures,
	}
}

// Register creates a new user with a bcrypt password hash.
func (s *AuthService) Register(ctx context.Context, username, password string) (uint, error) {
	var existing models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return 0, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Authenticate checks the credentials and issues an access/refresh token
// pair. The same "invalid credentials" comes back whether the user is
// unknown or the password is wrong.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, *TokenPair, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	access, err := s.sign(user, s.secret, accessTokenExpiry)
	if err != nil {
		return nil, nil, err
	}
	refresh, err := s.sign(user, s.refreshSecret, refreshTokenExpiry)
	if err != nil {
		return nil, nil, err
	}

	return &user, &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyToken validates an access token and returns its claims.
func (s *AuthService) VerifyToken(tokenString string) (*TokenClaims, error) {
	return s.verify(tokenString, s.secret)
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.verify(refreshToken, s.refreshSecret)
	if err != nil {
		return "", err
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		return "", ErrInvalidToken
	}

	return s.sign(user, s.secret, accessTokenExpiry)
}

// Profile returns the user's public view with their photo inlined.
func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	photo, err := s.pictures.LoadBase64(user.PhotoPath)
	if err != nil {
		photo = ""
	}

	return &models.UserProfile{
		ID:        user.ID,
		Username:  user.Username,
		Photo:     photo,
		CreatedAt: user.CreatedAt,
	}, nil
}

// SetPhoto stores a new profile photo and returns it base64 encoded.
func (s *AuthService) SetPhoto(ctx context.Context, userID uint, data []byte) (string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return "", ErrNotFound
	}

	filename, err := s.pictures.Save(data)
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("photo_path", filename).Error; err != nil {
		return "", err
	}

	if err := s.pictures.Delete(user.PhotoPath); err != nil {
		log.Printf("Warning: failed to delete old photo for user %d: %v", userID, err)
	}
	return s.pictures.LoadBase64(filename)
}

// RemovePhoto clears the user's profile photo.
func (s *AuthService) RemovePhoto(ctx context.Context, userID uint) error {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return ErrNotFound
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("photo_path", "").Error; err != nil {
		return err
	}
	return s.pictures.Delete(user.PhotoPath)
}

func (s *AuthService) sign(user models.User, secret []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) verify(tokenString string, secret []byte) (*TokenClaims, error) {
	var claims TokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
