package predictor

import (
	"context"
	"errors"
	"fmt"

	"solar-forecaster/models"
)

// Predictor интерфейс сервиса предсказания солнечной генерации
type Predictor interface {
	Endpoint() string
	Predict(ctx context.Context, features models.FeatureVector) (float64, error)
}

// ErrMissingPrediction ответ 2xx без поля predicted_solar_generation_mw
var ErrMissingPrediction = errors.New("malformed response: missing predicted_solar_generation_mw")

// APIError ответ сервиса со статусом вне диапазона 2xx
type APIError struct {
	StatusCode int
	StatusText string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, e.StatusText)
}
