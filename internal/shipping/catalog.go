// Package shipping holds the delivery-area reference data. The dataset is
// bundled with the binary and read-only at runtime.
package shipping

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed areas.json
var areasJSON []byte

type Area struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	NameEn       string  `json:"name_en"`
	CityCode     string  `json:"city_code"`
	AreaCode     string  `json:"area_code,omitempty"`
	DeliveryFee  float64 `json:"delivery_fee"`
	DeliveryTime string  `json:"delivery_time"`
	IsAvailable  bool    `json:"is_available"`
}

type Catalog struct {
	areas []Area
	byID  map[string]Area
}

func LoadCatalog() (*Catalog, error) {
	var areas []Area
	if err := json.Unmarshal(areasJSON, &areas); err != nil {
		return nil, fmt.Errorf("parse areas dataset: %w", err)
	}
	byID := make(map[string]Area, len(areas))
	for _, a := range areas {
		byID[a.ID] = a
	}
	return &Catalog{areas: areas, byID: byID}, nil
}

// Area returns the area by id; ok is false for unknown ids.
func (c *Catalog) Area(id string) (Area, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// Areas returns every area in dataset order.
func (c *Catalog) Areas() []Area {
	out := make([]Area, len(c.areas))
	copy(out, c.areas)
	return out
}

// Available returns only the areas currently open for delivery.
func (c *Catalog) Available() []Area {
	var out []Area
	for _, a := range c.areas {
		if a.IsAvailable {
			out = append(out, a)
		}
	}
	return out
}
