package catalog

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/IldarReact/LifeSim-sub003/internal/sim"
)

//go:embed data/*.json
var dataFS embed.FS

// BusinessType is a purchasable business template.
type BusinessType struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	IsService    bool   `json:"is_service"`
	InitialCost  int64  `json:"initial_cost"`
	BasePrice    int64  `json:"base_price"`
	MinEmployees int    `json:"min_employees"`
	MaxEmployees int    `json:"max_employees"`
	MaxStock     int64  `json:"max_stock"`
	PurchaseCost int64  `json:"purchase_cost"`
}

// EducationCourse raises intelligence for a price that tracks inflation.
type EducationCourse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	BasePrice        int64   `json:"base_price"`
	IntelligenceGain float64 `json:"intelligence_gain"`
	DurationTurns    int     `json:"duration_turns"`
}

// Catalog bundles the static game content shipped with the binary.
type Catalog struct {
	Countries  []sim.CountryEconomy `json:"countries"`
	Businesses []BusinessType       `json:"businesses"`
	Education  []EducationCourse    `json:"education"`
}

// Load parses and validates the embedded catalogs. Called once at startup;
// a broken catalog is a build defect, not a runtime condition.
func Load() (Catalog, error) {
	var c Catalog
	if err := loadJSON("data/countries.json", &c.Countries); err != nil {
		return Catalog{}, err
	}
	if err := loadJSON("data/businesses.json", &c.Businesses); err != nil {
		return Catalog{}, err
	}
	if err := loadJSON("data/education.json", &c.Education); err != nil {
		return Catalog{}, err
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func loadJSON(path string, out any) error {
	raw, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c Catalog) validate() error {
	if len(c.Countries) == 0 {
		return fmt.Errorf("catalog: no countries")
	}
	seen := map[string]bool{}
	for _, country := range c.Countries {
		if country.ID == "" || country.Name == "" {
			return fmt.Errorf("catalog: country missing id or name: %+v", country)
		}
		if seen[country.ID] {
			return fmt.Errorf("catalog: duplicate country id %q", country.ID)
		}
		seen[country.ID] = true
		if country.Inflation < 0 || country.KeyRate < 0 {
			return fmt.Errorf("catalog: country %q has negative rates", country.ID)
		}
	}
	for _, b := range c.Businesses {
		if b.ID == "" || b.Name == "" {
			return fmt.Errorf("catalog: business missing id or name: %+v", b)
		}
		if b.InitialCost < 0 || b.BasePrice < 0 || b.PurchaseCost < 0 || b.MaxStock < 0 {
			return fmt.Errorf("catalog: business %q has negative amounts", b.ID)
		}
		if b.MinEmployees < 1 || b.MaxEmployees < b.MinEmployees {
			return fmt.Errorf("catalog: business %q has invalid staffing band", b.ID)
		}
	}
	for _, e := range c.Education {
		if e.ID == "" || e.Name == "" {
			return fmt.Errorf("catalog: course missing id or name: %+v", e)
		}
		if e.BasePrice < 0 || e.IntelligenceGain < 0 {
			return fmt.Errorf("catalog: course %q has negative values", e.ID)
		}
	}
	return nil
}

// CountryByID looks up a seed economy.
func (c Catalog) CountryByID(id string) (sim.CountryEconomy, bool) {
	for _, country := range c.Countries {
		if country.ID == id {
			return country, true
		}
	}
	return sim.CountryEconomy{}, false
}

// BusinessByID looks up a business template.
func (c Catalog) BusinessByID(id string) (BusinessType, bool) {
	for _, b := range c.Businesses {
		if b.ID == id {
			return b, true
		}
	}
	return BusinessType{}, false
}

// CourseByID looks up an education course.
func (c Catalog) CourseByID(id string) (EducationCourse, bool) {
	for _, e := range c.Education {
		if e.ID == id {
			return e, true
		}
	}
	return EducationCourse{}, false
}

// NewBusiness instantiates a template as a player-owned business.
func (c Catalog) NewBusiness(template BusinessType, id, name string, turn int) sim.Business {
	if name == "" {
		name = template.Name
	}
	return sim.Business{
		ID:                   id,
		Name:                 name,
		Type:                 template.Type,
		State:                sim.BusinessActive,
		Price:                template.BasePrice,
		IsService:            template.IsService,
		InitialCost:          template.InitialCost,
		CurrentValue:         template.InitialCost,
		MinEmployees:         template.MinEmployees,
		MaxEmployees:         template.MaxEmployees,
		Reputation:           50,
		CustomerSatisfaction: 50,
		Inventory: sim.Inventory{
			CurrentStock: template.MaxStock,
			MaxStock:     template.MaxStock,
			PurchaseCost: template.PurchaseCost,
		},
		FoundedTurn: turn,
	}
}
