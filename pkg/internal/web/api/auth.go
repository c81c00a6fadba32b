package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

type adminClaims struct {
	jwt.RegisteredClaims
}

func authMiddleware(c *fiber.Ctx) error {
	tk := strings.TrimSpace(strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer"))
	if tk == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}

	var claims adminClaims
	token, err := jwt.ParseWithClaims(tk, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Method)
		}
		return []byte(viper.GetString("secret")), nil
	})
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}
	if !token.Valid {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	c.Locals("principal", claims.Subject)
	return c.Next()
}
