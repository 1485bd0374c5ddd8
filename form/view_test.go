package form

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"solar-forecaster/models"
)

func TestFormatPrediction(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{42.567, "42.57"},
		{0, "0.00"},
		{12.3, "12.30"},
		{1234.5, "1234.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrediction(tt.value))
	}
}

func TestRender(t *testing.T) {
	t.Run("idle", func(t *testing.T) {
		view := Render(DefaultFeatures(), models.Idle(), nil)

		assert.Len(t, view.Fields, len(Schema))
		assert.Equal(t, "Get Prediction", view.ButtonLabel)
		assert.False(t, view.ButtonDisabled)
		assert.Empty(t, view.Error)
		assert.Empty(t, view.Result)

		ts := view.Fields[0]
		assert.Equal(t, FieldView{Key: "timestamp", Label: "timestamp", Type: "text", Value: "2023-07-15T13:00:00"}, ts)

		temp := view.Fields[1]
		assert.Equal(t, "number", temp.Type)
		assert.Equal(t, "25.5", temp.Value)
		assert.Equal(t, "any", temp.Step)
	})

	t.Run("submitting", func(t *testing.T) {
		view := Render(DefaultFeatures(), models.Submitting(), nil)

		assert.Equal(t, "Predicting...", view.ButtonLabel)
		assert.True(t, view.ButtonDisabled)
	})

	t.Run("failed", func(t *testing.T) {
		view := Render(DefaultFeatures(), models.Failed("network down"), nil)

		assert.Equal(t, "Error: network down", view.Error)
		assert.Empty(t, view.Result)
		assert.Empty(t, view.Unit)
	})

	t.Run("succeeded", func(t *testing.T) {
		view := Render(DefaultFeatures(), models.Succeeded(42.567), nil)

		assert.Equal(t, "42.57", view.Result)
		assert.Equal(t, "MW", view.Unit)
		assert.Empty(t, view.Error)
	})

	t.Run("invalid field", func(t *testing.T) {
		f := DefaultFeatures()
		f.WeatherCode = math.NaN()

		view := Render(f, models.Idle(), []string{"weather_code"})

		assert.True(t, view.Fields[3].Invalid)
		assert.Empty(t, view.Fields[3].Value)
	})
}
