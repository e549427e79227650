package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QuoteDefaults holds company-wide values every quote starts from.
type QuoteDefaults struct {
	Employee  Employee          `yaml:"employee"`
	Terms     Terms             `yaml:"terms"`
	Variables map[string]string `yaml:"variables"`
}

// Employee is the default sales contact printed on quotes.
type Employee struct {
	Name  string `yaml:"name"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
}

// Terms are the commercial terms printed on quotes.
type Terms struct {
	LeadTime      string `yaml:"lead_time"`
	DeliveryTerms string `yaml:"delivery_terms"`
	FOBTerms      string `yaml:"fob_terms"`
	QuoteValidity string `yaml:"quote_validity"`
}

// LoadDefaults reads the defaults file at path. An empty path yields the
// built-in defaults.
func LoadDefaults(path string) (*QuoteDefaults, error) {
	var d QuoteDefaults
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read quote defaults: %w", err)
		}
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse quote defaults: %w", err)
		}
	}
	ApplyDefaults(&d)
	return &d, nil
}

// ApplyDefaults fills zero values in d.
func ApplyDefaults(d *QuoteDefaults) {
	if d.Terms.LeadTime == "" {
		d.Terms.LeadTime = "In Stock"
	}
	if d.Terms.DeliveryTerms == "" {
		d.Terms.DeliveryTerms = "NET 30 W.A.C."
	}
	if d.Terms.FOBTerms == "" {
		d.Terms.FOBTerms = "FOB, Houston, TX"
	}
	if d.Terms.QuoteValidity == "" {
		d.Terms.QuoteValidity = "30 days"
	}
	if d.Variables == nil {
		d.Variables = map[string]string{}
	}
}
