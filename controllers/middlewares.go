package controllers

import (
	"log"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"outfitengine/models"
)

// UserMiddleware resolves the JWT's sub claim into a UserAccount and stores
// it on the request context.
func UserMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		db := c.Get("__db").(*gorm.DB)
		userRaw := c.Get("user")
		if userRaw == nil {
			return echo.ErrUnauthorized
		}
		token := userRaw.(*jwt.Token)
		claims := token.Claims.(jwt.MapClaims)
		userID := claims["sub"]
		if userID == nil || userID == "" {
			log.Println("missing sub claim on token")
			return echo.ErrUnauthorized
		}

		var currentUser models.UserAccount
		if err := db.First(&currentUser, userID).Error; err != nil {
			return echo.ErrUnauthorized
		}
		if currentUser.Banned {
			return echo.NewHTTPError(423)
		}
		c.Set("currentUser", currentUser)
		return next(c)
	}
}
