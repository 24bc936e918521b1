// Package locations serves the fixed list of Canadian provinces, territories
// and their cities used to build search locations.
package locations

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/maple-planner/internal/domain"
)

//go:embed provinces.yaml
var provincesYAML []byte

// Province is a province or territory with its searchable cities.
type Province struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Cities []string `yaml:"cities"`
}

// Directory answers location lookups. It is read-only after construction.
type Directory struct {
	provinces []Province
	byID      map[string]int
}

// Load parses the embedded province list.
func Load() (*Directory, error) {
	return parse(provincesYAML)
}

func parse(b []byte) (*Directory, error) {
	var ps []Province
	if err := yaml.Unmarshal(b, &ps); err != nil {
		return nil, fmt.Errorf("locations.Load: %w", err)
	}
	d := &Directory{provinces: ps, byID: make(map[string]int, len(ps))}
	for i, p := range ps {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("locations.Load: entry %d is missing id or name", i)
		}
		if _, dup := d.byID[p.ID]; dup {
			return nil, fmt.Errorf("locations.Load: duplicate id %q", p.ID)
		}
		d.byID[p.ID] = i
	}
	return d, nil
}

// Provinces returns every province in display order.
func (d *Directory) Provinces() []Province {
	out := make([]Province, len(d.provinces))
	for i, p := range d.provinces {
		p.Cities = slices.Clone(p.Cities)
		out[i] = p
	}
	return out
}

// Cities returns the cities of the province with the given id.
func (d *Directory) Cities(provinceID string) ([]string, error) {
	i, ok := d.byID[strings.ToLower(strings.TrimSpace(provinceID))]
	if !ok {
		return nil, fmt.Errorf("locations.Directory.Cities: %w", domain.ErrNotFound)
	}
	return slices.Clone(d.provinces[i].Cities), nil
}

// ProvinceByCity finds the province a city belongs to, ignoring case.
func (d *Directory) ProvinceByCity(city string) (Province, error) {
	city = strings.TrimSpace(city)
	for _, p := range d.provinces {
		for _, c := range p.Cities {
			if strings.EqualFold(c, city) {
				p.Cities = slices.Clone(p.Cities)
				return p, nil
			}
		}
	}
	return Province{}, fmt.Errorf("locations.Directory.ProvinceByCity: %w", domain.ErrNotFound)
}
