package middleware

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/authctx"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/dto"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DevRoleHeader carries the development-only role override.
const DevRoleHeader = "X-Dev-Role"

func JWTProtected(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(secret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// SessionParser applies the session token rules (HS256 only, exp required,
// uuid subject).
type SessionParser interface {
	ParseSession(token string) (*services.SessionClaims, error)
}

// LoadPrincipal resolves the token subject to a user row and the role the
// request acts with. Must run after JWTProtected.
func LoadPrincipal(sessions SessionParser, users UserLookup, policy services.RolePolicy, devOverride bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := sessions.ParseSession(authctx.RawToken(c))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid or expired token",
			})
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		user, err := users.GetByID(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error: true, Message: "Unknown user",
				})
			}
			return err
		}
		if !user.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Account disabled",
			})
		}

		base := *user
		if policy.IsAdminEmail(user.Email) {
			base.Role = models.RoleAdmin
		}
		authctx.SetPrincipal(c, user, services.ResolveRole(&base, c.Get(DevRoleHeader), devOverride))
		return c.Next()
	}
}

// Session bundles token validation and principal loading.
func Session(secret string, sessions SessionParser, users UserLookup, policy services.RolePolicy, devOverride bool) []fiber.Handler {
	return []fiber.Handler{JWTProtected(secret), LoadPrincipal(sessions, users, policy, devOverride)}
}
