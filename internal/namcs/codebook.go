package namcs

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Codebook carries per-year decoding knowledge that lives outside the
// record layouts: the implied-decimal divisor of the visit weight and the
// unit of the coded age field. It is loaded from an optional YAML file so
// codebook corrections ship as configuration, not code.
type Codebook struct {
	Years map[int]CodebookYear `yaml:"years"`
}

// CodebookYear overrides the decoding rules of one survey year. Zero values
// leave the registry defaults in place.
type CodebookYear struct {
	WeightDivisor  float64 `yaml:"weight_divisor"`
	AgeDaysPerUnit int     `yaml:"age_days_per_unit"`
}

// LoadCodebook reads a codebook override file. A missing path yields an
// empty codebook.
func LoadCodebook(path string) (*Codebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Codebook{}, nil
		}
		return nil, eris.Wrap(err, "codebook: read file")
	}

	var cb Codebook
	if err := yaml.Unmarshal(data, &cb); err != nil {
		return nil, eris.Wrap(err, "codebook: parse yaml")
	}
	return &cb, nil
}

// Apply folds the codebook's weight divisors into the registry's layouts.
// Called once at process initialization, before any reader is built.
func (c *Codebook) Apply(reg *Registry) error {
	for year, o := range c.Years {
		if o.WeightDivisor == 0 {
			continue
		}
		layout, err := reg.Get(year)
		if err != nil {
			return err
		}
		layout.WeightDivisor = o.WeightDivisor
		if err := layout.validate(); err != nil {
			return err
		}
	}
	return nil
}

// AgeUnit returns the days-per-unit of the coded age field for a year,
// defaulting to 365 (year-coded ages).
func (c *Codebook) AgeUnit(year int) int {
	if o, ok := c.Years[year]; ok && o.AgeDaysPerUnit > 0 {
		return o.AgeDaysPerUnit
	}
	return 365
}
