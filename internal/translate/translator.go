// Package translate resolves presentation labels for data functions,
// measurement fields and installation locations.
package translate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Translator resolves a translation key to a display label.
//
//go:generate mockgen -destination=mocks/mock_translator.go -package=mocks github.com/itk-os2display/aarhus-data-bundle/internal/translate Translator
type Translator interface {
	// Translate returns the label for key, or the key itself when no
	// translation exists.
	Translate(key string) string
}

// Catalog is a flat key/label map loaded once at startup.
type Catalog struct {
	entries map[string]string
}

// NewCatalog creates a catalog from the given entries, layered over the
// built-in defaults.
func NewCatalog(entries map[string]string) *Catalog {
	merged := defaultEntries()
	for k, v := range entries {
		merged[k] = v
	}
	return &Catalog{entries: merged}
}

// Default returns a catalog with only the built-in labels.
func Default() *Catalog {
	return &Catalog{entries: defaultEntries()}
}

// LoadCatalog reads a YAML file with a flat string-to-string mapping and
// layers it over the built-in defaults.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation catalog: %w", err)
	}

	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse translation catalog: %w", err)
	}

	return NewCatalog(entries), nil
}

// Translate returns the label for key, falling back to the key itself so a
// missing translation degrades to something visible rather than an error.
func (c *Catalog) Translate(key string) string {
	if label, ok := c.entries[key]; ok {
		return label
	}
	return key
}

func defaultEntries() map[string]string {
	return map[string]string{
		"field.temperature":     "Temperatur",
		"unit.temperature":      "°C",
		"field.daylight":        "Dagslys",
		"unit.daylight":         "Lux",
		"field.sound":           "Lydniveau",
		"unit.sound":            "dB",
		"field.humidity":        "Luftfugtighed",
		"unit.humidity":         "%",
		"field.water_temperature": "Vandtemperatur",
		"unit.water_temperature":  "°C",
		"field.wind_speed":        "Vindhastighed",
		"unit.wind_speed":         "m/s",
		"field.rain":              "Nedbør",
		"unit.rain":               "mm",
		"field.pressure":          "Lufttryk",
		"unit.pressure":           "hPa",
		"field.solar_current":     "Aktuel produktion",
		"unit.solar_current":      "kW",
		"field.solar_today":       "Produktion i dag",
		"unit.solar_today":        "kWh",

		"location.dokk1":      "Dokk1",
		"location.waterfront": "Havnefronten",
		"location.harbor":     "Aarhus Havn",

		"data_function.odaa-dokk1":             "Dokk1 - målinger",
		"data_function.odaa-dokk1-temperature": "Dokk1 - temperatur",
		"data_function.odaa-dokk1-humidity":    "Dokk1 - luftfugtighed",
		"data_function.odaa-waterfront":        "Havnefronten - målinger",
		"data_function.harbor-weather":         "Havnen - vejrstation",
		"data_function.solar-production":       "Solceller - produktion",
		"data_function.custom":                 "Brugerdefineret kilde",

		"data_function_group.odaa":   "Open Data Aarhus",
		"data_function_group.harbor": "Havnen",
		"data_function_group.energy": "Energi",
		"data_function_group.custom": "Brugerdefineret",
	}
}
