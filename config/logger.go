package config

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds a production logger when APP_ENV is production and a
// development logger otherwise.
func NewLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
