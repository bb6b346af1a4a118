package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"furniture-store/models"
)

// Claims represents the JWT claims
type Claims struct {
	UserID string      `json:"id"`
	Role   models.Role `json:"role"`
	jwt.StandardClaims
}

// TokenIssuer signs and parses bearer tokens with one secret and expiry.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// GenerateJWT generates a JWT token for a user
func (t *TokenIssuer) GenerateJWT(userID primitive.ObjectID, role models.Role) (string, error) {
	now := t.now()
	claims := &Claims{
		UserID: userID.Hex(),
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.expiry).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ParseJWT validates the signature and expiry and returns the claims.
func (t *TokenIssuer) ParseJWT(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if _, err := primitive.ObjectIDFromHex(claims.UserID); err != nil {
		return nil, errors.New("invalid subject")
	}
	return claims, nil
}
