package auth

import (
	"strings"

	"github.com/Niranjan-3901/RITDC-Server/app/database"
	"github.com/Niranjan-3901/RITDC-Server/app/models"
	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes registers the token-issuing endpoints.
func SetupAuthRoutes(app *fiber.App, users *database.UserStore, jwtSecret string) {
	authGroup := app.Group("/auth")

	authGroup.Post("/login", func(c *fiber.Ctx) error {
		return LoginAPI(c, users, jwtSecret)
	})
	authGroup.Post("/logout", LogoutAPI)
}

// Middleware validates the bearer token and injects the verified user
// context. Requests without a valid token never reach a handler.
func Middleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies("jwt_token")
		if tokenString == "" {
			header := c.Get("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				tokenString = strings.TrimPrefix(header, "Bearer ")
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "No token found",
			})
		}

		claims, err := ValidateJWT(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid token",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_email", claims.Email)
		c.Locals("user_role", claims.Role)
		c.Locals("user", &models.User{
			ID:        claims.UserID,
			Email:     claims.Email,
			FirstName: claims.FirstName,
			LastName:  claims.LastName,
			Role:      claims.Role,
			IsActive:  true,
		})

		return c.Next()
	}
}

// RoleMiddleware restricts a route to the given roles.
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("user_role").(string)
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "Insufficient permissions",
		})
	}
}
