package models

// FeatureVector погодные признаки, которые принимает модель.
// Порядок полей совпадает с порядком ключей в JSON запросе.
type FeatureVector struct {
	Timestamp      string  `json:"timestamp"`
	Temperature2m  float64 `json:"temperature_2m" validate:"finite"`  // °C
	Precipitation  float64 `json:"precipitation" validate:"finite"`   // мм
	WeatherCode    float64 `json:"weather_code" validate:"finite"`    // код WMO
	CloudcoverLow  float64 `json:"cloudcover_low" validate:"finite"`  // %
	CloudcoverMid  float64 `json:"cloudcover_mid" validate:"finite"`  // %
	CloudcoverHigh float64 `json:"cloudcover_high" validate:"finite"` // %
	WindSpeed10m   float64 `json:"wind_speed_10m" validate:"finite"`  // км/ч
}

// Text возвращает значение текстового признака
func (f *FeatureVector) Text(key string) (string, bool) {
	if key == "timestamp" {
		return f.Timestamp, true
	}
	return "", false
}

// SetText записывает значение текстового признака
func (f *FeatureVector) SetText(key, value string) bool {
	if key == "timestamp" {
		f.Timestamp = value
		return true
	}
	return false
}

// Number возвращает значение числового признака
func (f *FeatureVector) Number(key string) (float64, bool) {
	if p := f.number(key); p != nil {
		return *p, true
	}
	return 0, false
}

// SetNumber записывает значение числового признака, остальные поля не меняются
func (f *FeatureVector) SetNumber(key string, value float64) bool {
	p := f.number(key)
	if p == nil {
		return false
	}
	*p = value
	return true
}

func (f *FeatureVector) number(key string) *float64 {
	switch key {
	case "temperature_2m":
		return &f.Temperature2m
	case "precipitation":
		return &f.Precipitation
	case "weather_code":
		return &f.WeatherCode
	case "cloudcover_low":
		return &f.CloudcoverLow
	case "cloudcover_mid":
		return &f.CloudcoverMid
	case "cloudcover_high":
		return &f.CloudcoverHigh
	case "wind_speed_10m":
		return &f.WindSpeed10m
	}
	return nil
}

// FieldType тип поля ввода формы
type FieldType string

const (
	FieldText   FieldType = "text"
	FieldNumber FieldType = "number"
)

// Field описание одного поля формы
type Field struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Type  FieldType `json:"type"`
}

// PredictionResponse ответ сервиса предсказаний.
// Указатель позволяет отличить отсутствующее поле от нуля.
type PredictionResponse struct {
	PredictedSolarGenerationMW *float64 `json:"predicted_solar_generation_mw"`
}

// RequestStatus стадия запроса предсказания
type RequestStatus string

const (
	StatusIdle       RequestStatus = "idle"
	StatusSubmitting RequestStatus = "submitting"
	StatusSucceeded  RequestStatus = "succeeded"
	StatusFailed     RequestStatus = "failed"
)

// RequestState текущее состояние запроса. Value заполнен только для
// StatusSucceeded, Message только для StatusFailed.
type RequestState struct {
	Status  RequestStatus `json:"status"`
	Value   *float64      `json:"value,omitempty"`
	Message string        `json:"message,omitempty"`
}

func Idle() RequestState {
	return RequestState{Status: StatusIdle}
}

func Submitting() RequestState {
	return RequestState{Status: StatusSubmitting}
}

func Succeeded(value float64) RequestState {
	return RequestState{Status: StatusSucceeded, Value: &value}
}

func Failed(message string) RequestState {
	return RequestState{Status: StatusFailed, Message: message}
}

// ErrorResponse структура для ошибок
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
