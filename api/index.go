package api

import (
	"context"
	"net/http"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"kiosk-order/app"
	"kiosk-order/config"
	"kiosk-order/models"
)

var (
	instance *app.App
	initErr  error
	once     sync.Once
)

func initApp() {
	once.Do(func() {
		logger, err := config.NewLogger()
		if err != nil {
			initErr = err
			return
		}
		instance, initErr = app.New(context.Background(), logger)
		if initErr != nil {
			logger.Error("failed to initialize application", zap.Error(initErr))
		}
	})
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = writeJSON(w, models.ErrorResponse{Success: false, Message: "Service unavailable"})
		return
	}
	instance.Router.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}
