package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// Plan тарифный план пользователя
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

func (p Plan) IsPremium() bool {
	return p == PlanPremium
}

// User пользователь из access токена
type User struct {
	ID   int
	Plan Plan
}

type UserClaims struct {
	Plan Plan `json:"plan"`
	jwt.RegisteredClaims
}

// PlanLimits что разрешено на тарифе
type PlanLimits struct {
	MaxSegments  int  `yaml:"max_segments"`
	Images       bool `yaml:"images"`
	Design       bool `yaml:"design"`
	Stats        bool `yaml:"stats"`
	HistoryLimit int  `yaml:"history_limit"`
}
