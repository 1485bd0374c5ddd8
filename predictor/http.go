package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"solar-forecaster/models"
)

type HTTPPredictor struct {
	endpoint string
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker[*http.Response]
}

// Option настройка HTTPPredictor
type Option func(*HTTPPredictor)

// WithHTTPClient подменяет HTTP клиент (используется в тестах)
func WithHTTPClient(client *http.Client) Option {
	return func(p *HTTPPredictor) {
		p.client = client
	}
}

// WithTimeout ограничивает время запроса. Ноль означает отсутствие таймаута.
func WithTimeout(timeout time.Duration) Option {
	return func(p *HTTPPredictor) {
		p.client.Timeout = timeout
	}
}

// WithBreaker включает circuit breaker, который размыкается после threshold
// подряд идущих сетевых ошибок или ответов 5xx. Ноль (по умолчанию) отключает breaker.
func WithBreaker(threshold uint32) Option {
	return func(p *HTTPPredictor) {
		if threshold == 0 {
			p.breaker = nil
			return
		}
		p.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
			Name:        "predict-api",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		})
	}
}

// NewHTTPPredictor клиент сервиса предсказаний по адресу endpoint.
// Без WithBreaker каждый вызов Predict отправляет ровно один запрос.
func NewHTTPPredictor(endpoint string, opts ...Option) *HTTPPredictor {
	p := &HTTPPredictor{
		endpoint: endpoint,
		client:   &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HTTPPredictor) Endpoint() string {
	return p.endpoint
}

// BreakerState состояние circuit breaker ("disabled", если он выключен)
func (p *HTTPPredictor) BreakerState() string {
	if p.breaker == nil {
		return "disabled"
	}
	return p.breaker.State().String()
}

// Predict отправляет признаки одним POST запросом и возвращает прогноз в МВт.
// Повторных попыток нет.
func (p *HTTPPredictor) Predict(ctx context.Context, features models.FeatureVector) (float64, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.do(req)
	if err != nil {
		return 0, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, newAPIError(resp)
	}

	// Парсим ответ
	var result models.PredictionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, err
	}
	if result.PredictedSolarGenerationMW == nil {
		return 0, ErrMissingPrediction
	}

	return *result.PredictedSolarGenerationMW, nil
}

func (p *HTTPPredictor) do(req *http.Request) (*http.Response, error) {
	if p.breaker == nil {
		return p.client.Do(req)
	}

	resp, err := p.breaker.Execute(func() (*http.Response, error) {
		r, doErr := p.client.Do(req)
		if doErr != nil {
			return nil, doErr
		}
		// 5xx считаем отказом сервиса
		if r.StatusCode >= 500 {
			return r, newAPIError(r)
		}
		return r, nil
	})

	var apiErr *APIError
	if errors.As(err, &apiErr) && resp != nil {
		// статус разбирает вызывающий код
		return resp, nil
	}
	if err != nil && resp != nil {
		resp.Body.Close()
	}
	return resp, err
}

// transportError снимает обертку *url.Error, чтобы пользователь видел
// исходное сообщение сетевой ошибки.
func transportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("prediction service unavailable: %w", err)
	}
	return err
}

func newAPIError(resp *http.Response) *APIError {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, StatusText: text}
}
