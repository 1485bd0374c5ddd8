package form

import (
	"math"
	"slices"
	"strconv"

	"solar-forecaster/models"
)

const (
	ButtonIdle       = "Get Prediction"
	ButtonSubmitting = "Predicting..."
	Unit             = "MW"
)

// FieldView поле формы, готовое к выводу
type FieldView struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Step    string `json:"step,omitempty"`
	Invalid bool   `json:"invalid,omitempty"`
}

// View снимок формы для отображения. Error и Result взаимоисключающие
// и оба пусты, пока запрос не завершился.
type View struct {
	Fields         []FieldView `json:"fields"`
	ButtonLabel    string      `json:"button_label"`
	ButtonDisabled bool        `json:"button_disabled"`
	Error          string      `json:"error,omitempty"`
	Result         string      `json:"result,omitempty"`
	Unit           string      `json:"unit,omitempty"`
}

// FormatPrediction прогноз с двумя знаками после запятой
func FormatPrediction(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// View строит снимок формы: признаки и состояние берутся под одной блокировкой
func (c *Controller) View() View {
	c.mu.Lock()
	features := c.features
	state := c.state
	c.mu.Unlock()

	invalid, err := invalidKeys(features)
	if err != nil {
		c.logger.Error("ошибка валидации признаков", "error", err)
	}
	return Render(features, state, invalid)
}

// Render строит View по признакам и состоянию запроса
func Render(features models.FeatureVector, state models.RequestState, invalid []string) View {
	view := View{
		Fields:      make([]FieldView, 0, len(Schema)),
		ButtonLabel: ButtonIdle,
	}

	for _, f := range Schema {
		fv := FieldView{Key: f.Key, Label: f.Label, Type: string(f.Type)}
		if f.Type == models.FieldText {
			fv.Value, _ = features.Text(f.Key)
		} else {
			n, _ := features.Number(f.Key)
			fv.Value = formatInput(n)
			fv.Step = NumberStep
			fv.Invalid = slices.Contains(invalid, f.Key)
		}
		view.Fields = append(view.Fields, fv)
	}

	switch state.Status {
	case models.StatusSubmitting:
		view.ButtonLabel = ButtonSubmitting
		view.ButtonDisabled = true
	case models.StatusFailed:
		view.Error = "Error: " + state.Message
	case models.StatusSucceeded:
		if state.Value != nil {
			view.Result = FormatPrediction(*state.Value)
			view.Unit = Unit
		}
	}

	return view
}

func formatInput(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
