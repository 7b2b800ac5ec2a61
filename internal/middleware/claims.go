package middleware

import (
	"errors"

	"github.com/biolinkbr/backend/internal/resolver"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GetUserID extracts the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, err := tokenClaims(c)
	if err != nil {
		return uuid.Nil, err
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// GetSessionInfo rebuilds the session view the credential store carries
// about the caller: identity id plus sign-up metadata.
func GetSessionInfo(c *fiber.Ctx) (resolver.SessionInfo, error) {
	claims, err := tokenClaims(c)
	if err != nil {
		return resolver.SessionInfo{}, err
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return resolver.SessionInfo{}, errors.New("missing sub claim")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return resolver.SessionInfo{}, err
	}

	info := resolver.SessionInfo{UserID: id}
	if email, ok := claims["email"].(string); ok {
		info.Email = email
	}
	if username, ok := claims["username"].(string); ok {
		info.Username = username
	}
	if name, ok := claims["name"].(string); ok {
		info.Name = name
	}
	return info, nil
}

func tokenClaims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}
