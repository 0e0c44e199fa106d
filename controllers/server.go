package controllers

import (
	"net/http"

	"github.com/go-playground/validator"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"outfitengine/config"
	"outfitengine/engine"
)

// CustomValidator wires go-playground/validator's struct tags into echo's
// request binding.
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// SetupServer wires the outward HTTP demo layer: generate/replace/explain/
// record_feedback behind JWT auth.
func SetupServer(db *gorm.DB, eng *engine.Engine, feedback engine.FeedbackStore) *echo.Echo {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__db", db)
			return next(c)
		}
	})
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	cfg := config.Load()

	outfitGroup := e.Group("/outfits", echojwt.JWT([]byte(cfg.JWTSecret)))
	outfitGroup.Use(UserMiddleware)

	controller := EngineController{Engine: eng, Feedback: feedback}
	controller.Routes(outfitGroup)

	return e
}
