package form

import (
	"strings"

	"solar-forecaster/models"
)

// Schema поля формы в фиксированном порядке. Ключи совпадают с тем,
// что ожидает сервис предсказаний.
var Schema = []models.Field{
	field("timestamp", models.FieldText),
	field("temperature_2m", models.FieldNumber),
	field("precipitation", models.FieldNumber),
	field("weather_code", models.FieldNumber),
	field("cloudcover_low", models.FieldNumber),
	field("cloudcover_mid", models.FieldNumber),
	field("cloudcover_high", models.FieldNumber),
	field("wind_speed_10m", models.FieldNumber),
}

// NumberStep шаг числовых полей: любые дробные значения
const NumberStep = "any"

func field(key string, typ models.FieldType) models.Field {
	return models.Field{Key: key, Label: Label(key), Type: typ}
}

// Label подпись поля: ключ с пробелами вместо подчеркиваний
func Label(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// Lookup ищет поле схемы по ключу
func Lookup(key string) (models.Field, bool) {
	for _, f := range Schema {
		if f.Key == key {
			return f, true
		}
	}
	return models.Field{}, false
}

// DefaultFeatures значения, которые показываются при загрузке формы
func DefaultFeatures() models.FeatureVector {
	return models.FeatureVector{
		Timestamp:      "2023-07-15T13:00:00",
		Temperature2m:  25.5,
		Precipitation:  0.0,
		WeatherCode:    3.0,
		CloudcoverLow:  10,
		CloudcoverMid:  5,
		CloudcoverHigh: 0,
		WindSpeed10m:   12.0,
	}
}
