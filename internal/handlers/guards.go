package handlers

import (
	"github.com/gin-gonic/gin"

	"proconnect_backend/internal/identity"
	"proconnect_backend/internal/middleware"
	"proconnect_backend/internal/models"
	"proconnect_backend/internal/repositories"
)

// Guards - middleware доступа, общие для всех хэндлеров
type Guards struct {
	Auth         gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	RateLimit    gin.HandlerFunc
	roleRepo     repositories.RoleRepository
}

// NewGuards - rateLimit может быть nil, тогда лимита нет
func NewGuards(verifier identity.Verifier, roleRepo repositories.RoleRepository, rateLimit gin.HandlerFunc) *Guards {
	if rateLimit == nil {
		rateLimit = func(c *gin.Context) { c.Next() }
	}
	return &Guards{
		Auth:         middleware.Auth(verifier),
		OptionalAuth: middleware.OptionalAuth(verifier),
		RateLimit:    rateLimit,
		roleRepo:     roleRepo,
	}
}

// Require - хотя бы одна из ролей, проверка по БД
func (g *Guards) Require(roles ...models.Role) gin.HandlerFunc {
	return middleware.RequireRoles(g.roleRepo, roles...)
}
