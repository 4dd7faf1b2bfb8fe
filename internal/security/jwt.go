package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired or not valid yet")
)

// Используется SigningMethodHS256 с общим секретом.
type JWTSigner struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTSigner(secret string, ttl time.Duration) *JWTSigner {
	return &JWTSigner{secret: []byte(secret), ttl: ttl}
}

func (s *JWTSigner) TTL() time.Duration {
	return s.ttl
}

type UserClaims struct {
	jwt.StandardClaims
	Username string `json:"username"`
}

// Sign выпускает токен с sub=userID и exp=now+ttl.
func (s *JWTSigner) Sign(userID int64, username string, now time.Time) (string, error) {
	claims := UserClaims{
		StandardClaims: jwt.StandardClaims{
			Subject:   fmt.Sprint(userID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
		Username: username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}

func (s *JWTSigner) ParseAndValidate(tokenStr string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt != 0 && time.Now().After(time.Unix(claims.ExpiresAt, 0)) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// SubjectAsUserID парсит sub в int64.
func SubjectAsUserID(claims *UserClaims) (int64, error) {
	if claims == nil || claims.Subject == "" {
		return 0, ErrInvalidToken
	}
	var id int64
	if _, err := fmt.Sscan(claims.Subject, &id); err != nil {
		return 0, ErrInvalidToken
	}

	return id, nil
}
