package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrProxyURLMismatch = errors.New("proxy token issued for another url")

// ProxyClaims подпись ссылки на прокси картинок
type ProxyClaims struct {
	URL string `json:"url"`
	jwt.RegisteredClaims
}

func GenerateProxyToken(rawURL string, secretKey []byte, ttl time.Duration) (string, error) {
	claims := ProxyClaims{
		URL: rawURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// VerifyProxyToken токен должен быть подписан нашим ключом и выдан ровно на этот адрес
func VerifyProxyToken(tokenStr, rawURL string, secretKey []byte) error {
	claims := &ProxyClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected token signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return fmt.Errorf("invalid proxy token: %w", err)
	}
	if claims.URL != rawURL {
		return ErrProxyURLMismatch
	}
	return nil
}
