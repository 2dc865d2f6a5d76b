package models

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/addspin/satexam/scoring"
	"github.com/goccy/go-yaml"
)

//go:embed seed.yaml
var demoSeed []byte

// Seed is the demo data inserted into empty tables on first start.
type Seed struct {
	Users     []User     `yaml:"users"`
	Questions []Question `yaml:"questions"`
}

// DemoSeed returns the built-in demo account and questions.
func DemoSeed() (Seed, error) {
	return ParseSeed(demoSeed)
}

// ParseSeed decodes a seed document and checks every record is insertable.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

func (s Seed) Validate() error {
	for i, u := range s.Users {
		if strings.TrimSpace(u.Username) == "" || u.Password == "" {
			return fmt.Errorf("seed user %d: username and password are required", i)
		}
	}
	for i, q := range s.Questions {
		if q.Stem == "" || q.ChoiceA == "" || q.ChoiceB == "" || q.ChoiceC == "" || q.ChoiceD == "" {
			return fmt.Errorf("seed question %d: stem and all four choices are required", i)
		}
		if !scoring.Letter(q.Answer).Valid() {
			return fmt.Errorf("seed question %d: answer %q is not one of A, B, C, D", i, q.Answer)
		}
	}
	return nil
}
