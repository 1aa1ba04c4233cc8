package crypto

import (
	"errors"
	"time"

	"github.com/HermesDE/caseclickerWS/domain"
	"github.com/golang-jwt/jwt/v5"
)

// jwtCustomClaims mirrors the session token the website issues. Fields must be
// exported for JSON serialization.
type jwtCustomClaims struct {
	Id      string `json:"id"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// Identity is the decoded connection identity. The service trusts these fields
// verbatim; a token that fails verification never reaches game logic.
type Identity struct {
	UserId string
	Name   string
	Image  string
}

type JWTManager struct {
	secretKey []byte
	maxAge    time.Duration
}

func NewJWTManager(secretKey string, maxAge time.Duration) *JWTManager {
	return &JWTManager{
		secretKey: []byte(secretKey),
		maxAge:    maxAge,
	}
}

func (m *JWTManager) Generate(id, name, picture string, now time.Time) (string, error) {
	claims := jwtCustomClaims{
		Id:      id,
		Name:    name,
		Picture: picture,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

func (m *JWTManager) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtCustomClaims{}, func(token *jwt.Token) (any, error) {
		// Validate the signing method is what we expect (HMAC)
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidSigningAlg
		}
		return m.secretKey, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSigningAlg):
			return Identity{}, domain.ErrInvalidSigningAlg
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, domain.ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, domain.ErrInvalidTokenSignature
		default:
			return Identity{}, domain.ErrCorruptedToken
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		return Identity{}, domain.ErrCorruptedToken
	}

	if claims.Id == "" {
		return Identity{}, domain.ErrMissingIdentity
	}

	return Identity{UserId: claims.Id, Name: claims.Name, Image: claims.Picture}, nil
}
