// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	LocalUserID      = "user_id"
	LocalDisplayName = "display_name"
	LocalTimezone    = "timezone"

	// HeaderTimezone carries the browser's IANA zone for tokens without a tz claim.
	HeaderTimezone = "X-Timezone"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is what a valid token says about the caller.
type Identity struct {
	UserID      uuid.UUID
	DisplayName string
	Timezone    string
}

// ParseToken validates an HMAC-signed token and reads the user_id, name and
// tz claims.
func ParseToken(secret, tokenStr string) (*Identity, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	name, _ := claims["name"].(string)
	tz, _ := claims["tz"].(string)
	return &Identity{UserID: userID, DisplayName: name, Timezone: tz}, nil
}

// TokenFromRequest reads the bearer header, then the "token" query param
// browsers use for websocket handshakes.
func TokenFromRequest(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ctx.Query("token")
}

func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := TokenFromRequest(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}

		identity, err := ParseToken(secret, tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals(LocalUserID, identity.UserID.String())
		ctx.Locals(LocalDisplayName, identity.DisplayName)
		ctx.Locals(LocalTimezone, identity.Timezone)
		return ctx.Next()
	}
}

// CurrentUser returns the caller set by the jwt middleware. The timezone is
// passed through unvalidated.
func CurrentUser(ctx *fiber.Ctx) (Identity, error) {
	userIdStr, ok := ctx.Locals(LocalUserID).(string)
	if !ok {
		return Identity{}, fiber.ErrUnauthorized
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return Identity{}, fiber.ErrUnauthorized
	}
	name, _ := ctx.Locals(LocalDisplayName).(string)
	tz, _ := ctx.Locals(LocalTimezone).(string)
	if tz == "" {
		tz = ctx.Get(HeaderTimezone)
	}
	return Identity{UserID: userId, DisplayName: name, Timezone: tz}, nil
}
