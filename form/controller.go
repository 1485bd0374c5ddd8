package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"solar-forecaster/models"
	"solar-forecaster/predictor"
)

var (
	// ErrUnknownFeature ключ не входит в схему формы
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrSubmitInProgress предыдущий запрос еще не завершился
	ErrSubmitInProgress = errors.New("prediction already in progress")
	// ErrInvalidInput числовое поле содержит не число
	ErrInvalidInput = errors.New("invalid input")
)

// Controller хранит состояние формы и выполняет запрос предсказания.
// Одновременно выполняется не более одного запроса.
type Controller struct {
	mu        sync.Mutex
	features  models.FeatureVector
	state     models.RequestState
	predictor predictor.Predictor
	logger    *slog.Logger
}

func NewController(p predictor.Predictor, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		features:  DefaultFeatures(),
		state:     models.Idle(),
		predictor: p,
		logger:    logger,
	}
}

// Reset возвращает форму к значениям по умолчанию.
// Во время выполнения запроса сбрасываются только признаки.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.features = DefaultFeatures()
	if c.state.Status != models.StatusSubmitting {
		c.state = models.Idle()
	}
}

func (c *Controller) Features() models.FeatureVector {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.features
}

func (c *Controller) State() models.RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Edit изменяет значение одного признака. Числовое значение, которое не
// удалось разобрать, сохраняется как NaN и отклоняется при отправке.
func (c *Controller) Edit(key, raw string) error {
	f, ok := Lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFeature, key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.set(f, raw)
	return nil
}

// EditAll применяет несколько правок атомарно. Пока выполняется запрос,
// возвращает ErrSubmitInProgress и ничего не меняет. Неизвестный ключ
// отклоняет все правки.
func (c *Controller) EditAll(values map[string]string) error {
	for key := range values {
		if _, ok := Lookup(key); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownFeature, key)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Status == models.StatusSubmitting {
		return ErrSubmitInProgress
	}

	for _, f := range Schema {
		if raw, ok := values[f.Key]; ok {
			c.set(f, raw)
		}
	}
	return nil
}

// set записывает сырое значение поля; вызывается под c.mu
func (c *Controller) set(f models.Field, raw string) {
	if f.Type == models.FieldText {
		c.features.SetText(f.Key, raw)
		return
	}
	c.features.SetNumber(f.Key, parseNumber(raw))
}

// Invalid ключи числовых полей, которые сейчас не являются числом
func (c *Controller) Invalid() []string {
	keys, err := invalidKeys(c.Features())
	if err != nil {
		c.logger.Error("ошибка валидации признаков", "error", err)
		return nil
	}
	return keys
}

// Submit отправляет текущие признаки в сервис предсказаний и возвращает
// итоговое состояние (Succeeded или Failed). Если запрос уже выполняется,
// возвращает ErrSubmitInProgress и ничего не меняет.
func (c *Controller) Submit(ctx context.Context) (state models.RequestState, err error) {
	c.mu.Lock()
	if c.state.Status == models.StatusSubmitting {
		c.mu.Unlock()
		return models.Submitting(), ErrSubmitInProgress
	}
	c.state = models.Submitting()
	features := c.features
	c.mu.Unlock()

	// состояние не должно остаться Submitting даже при панике
	state = models.Failed("prediction aborted")
	defer func() {
		c.mu.Lock()
		c.state = state
		c.mu.Unlock()
	}()

	if verr := validateFeatures(features); verr != nil {
		c.logger.Warn("некорректные признаки", "error", verr)
		state = models.Failed(verr.Error())
		return state, nil
	}

	value, perr := c.predictor.Predict(ctx, features)
	if perr != nil {
		c.logger.Warn("не удалось получить прогноз",
			"endpoint", c.predictor.Endpoint(),
			"timestamp", features.Timestamp,
			"error", perr,
		)
		state = models.Failed(perr.Error())
		return state, nil
	}

	c.logger.Info("прогноз получен", "timestamp", features.Timestamp, "mw", value)
	state = models.Succeeded(value)
	return state, nil
}

func parseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
