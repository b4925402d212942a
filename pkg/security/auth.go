package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"os"
	"sync"
	"time"

	"sklad/internal/repository"
	"sklad/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

// secretKey loads JWT_SECRET on first use so that importing the package never
// requires the variable to be set. Signing or verifying without it is fatal.
func secretKey() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")

		if secret == "" {
			if err := godotenv.Load(); err != nil {
				log.Printf("Warning: could not load .env: %v", err)
			}
			secret = os.Getenv("JWT_SECRET")
		}

		if secret == "" {
			log.Fatal("JWT_SECRET environment variable is not set")
		}

		jwtSecret = []byte(secret)
	})
	return jwtSecret
}

// HashPassword computes the fixed one-way digest used by the credential
// check. The store only ever sees this digest, never a plaintext password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyCredentials compares a caller-computed password digest against the
// stored one for the given username.
func VerifyCredentials(username, passwordHash string, repo *repository.Repository) (bool, error) {
	var stored string

	query := repo.GoquDBWrapper.Select("password_hash").From("users").Where(goqu.Ex{"username": username})

	found, err := query.Executor().ScanVal(&stored)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(passwordHash)) == 1, nil
}

// AuthenticateUser digests the plaintext, verifies it and loads the user row
// for session stamping.
func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	ok, err := VerifyCredentials(username, HashPassword(password), repo)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	query := repo.GoquDBWrapper.
		Select("username", "password_hash", "display_name", "role").
		From("users").
		Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(username, displayName, role string) (string, error) {
	claims := jwt.MapClaims{
		"username":    username,
		"displayName": displayName,
		"role":        role,
		"exp":         time.Now().Add(time.Hour * 12).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}
