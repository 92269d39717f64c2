package crystal

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Population is the set of crystal models collected for one image.
type Population struct {
	Image    string    `yaml:"image,omitempty" json:"image,omitempty"`
	Lattice  Lattice   `yaml:"lattice,omitempty" json:"lattice,omitempty" validate:"omitempty,oneof=triclinic monoclinic orthorhombic tetragonal hexagonal cubic"`
	Crystals []Crystal `yaml:"crystals" json:"crystals" validate:"required,min=1,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadPopulation reads a population from a YAML file.
func LoadPopulation(path string) (*Population, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("population file not found: %s", path)
		}
		return nil, fmt.Errorf("reading population file: %w", err)
	}
	return ParsePopulation(data)
}

// ParsePopulation decodes and validates a YAML population. Crystals without
// an id get a random one; a missing lattice means triclinic.
func ParsePopulation(data []byte) (*Population, error) {
	var p Population
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing population YAML: %w", err)
	}
	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("invalid population: %w", err)
	}
	for i, c := range p.Crystals {
		// Angle triples where one angle exceeds the sum of the other two,
		// or the three sum past 360°, leave no room for a cell.
		if v := c.Cell.Volume(); !(v > 0) {
			return nil, fmt.Errorf("invalid population: crystal %d: angles %g/%g/%g do not form a unit cell",
				i, c.Cell.Alpha, c.Cell.Beta, c.Cell.Gamma)
		}
	}

	if p.Lattice == "" {
		p.Lattice = Triclinic
	}
	for i := range p.Crystals {
		if p.Crystals[i].ID == "" {
			p.Crystals[i].ID = uuid.NewString()
		}
	}
	return &p, nil
}
