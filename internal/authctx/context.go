// Package authctx reads the authenticated principal from a Fiber context.
package authctx

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenKey = "user"
	userKey  = "principal"
	roleKey  = "role"
)

var ErrNoPrincipal = errors.New("no authenticated user in context")

// RawToken returns the compact session token accepted by the JWT guard.
func RawToken(c *fiber.Ctx) string {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok || token == nil {
		return ""
	}
	return token.Raw
}

// TokenEmail returns the email claim of the session token.
func TokenEmail(c *fiber.Ctx) string {
	claims, err := claims(c)
	if err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

func claims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals(tokenKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// SetPrincipal stores the loaded user and the role the request acts with.
func SetPrincipal(c *fiber.Ctx, user *models.User, role models.Role) {
	c.Locals(userKey, user)
	c.Locals(roleKey, role)
}

func User(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userKey).(*models.User)
	if !ok || user == nil {
		return nil, ErrNoPrincipal
	}
	return user, nil
}

// Email is the acting user's e-mail. It never comes from the request body.
func Email(c *fiber.Ctx) string {
	if user, err := User(c); err == nil {
		return user.Email
	}
	return TokenEmail(c)
}

func Role(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(roleKey).(models.Role)
	return role
}
