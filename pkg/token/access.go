package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"prize_wheel/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

func GenerateAccessToken(info *model.User, secretKey []byte, ttl time.Duration) (string, error) {
	plan := info.Plan
	if plan == "" {
		plan = model.PlanFree
	}
	claims := model.UserClaims{
		Plan: plan,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        strconv.Itoa(info.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretKey)
}

func VerifyToken(tokenStr string, secretKey []byte) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, errors.New("unexpected token signing method")
		}

		return secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*model.UserClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// UserFromClaims пользователь из проверенных claims
func UserFromClaims(claims *model.UserClaims) (model.User, error) {
	id, err := strconv.Atoi(claims.ID)
	if err != nil {
		return model.User{}, fmt.Errorf("invalid user id %q: %w", claims.ID, err)
	}
	plan := claims.Plan
	if plan != model.PlanPremium {
		plan = model.PlanFree
	}
	return model.User{ID: id, Plan: plan}, nil
}
