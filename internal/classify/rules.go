package classify

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Vehicle labels.
const (
	Truck        = "Truck"
	Passenger    = "Passenger"
	Mixed        = "Mixed"
	Unidentified = "Unidentified"
)

// Other is the category fallback label.
const Other = "Other"

// Category is one entry of the priority-ordered category list.
type Category struct {
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`
}

// Rules is the classification rule table. Categories are evaluated in order
// and the first with a matching keyword wins.
//
// A keyword matches whole words only: "motor" does not match "motorista".
// A trailing "*" makes it a stem, so "pneu*" also matches "pneus".
type Rules struct {
	Truck      []string   `yaml:"truck"`
	Passenger  []string   `yaml:"passenger"`
	Categories []Category `yaml:"categories"`
	Fallback   string     `yaml:"fallback"`
}

// DefaultRules returns the built-in rule table for roadside-assistance tickets.
func DefaultRules() Rules {
	return Rules{
		Truck: []string{
			"caminhão", "caminhões", "caminhao", "caminhoes", "carreta*", "cavalo mecânico", "cavalo mecanico",
			"bitrem", "rodotrem", "truck", "scania", "volvo fh",
			"iveco", "mercedes axor", "actros", "atego", "accelo", "constellation",
			"man tgx", "vw delivery",
		},
		Passenger: []string{
			"carro", "carros", "automóvel", "automovel", "automóveis", "automoveis", "passeio",
			"sedan", "hatch", "suv", "motocicleta*", "hb20", "onix", "palio", "corolla",
			"civic", "fiesta", "sandero", "kwid", "compass", "renegade",
		},
		Categories: []Category{
			{Label: "Acidente", Keywords: []string{"acidente*", "colisão", "colisao", "batida", "bateu", "capot*", "tomb*", "sinistro*"}},
			{Label: "Pane mecânica", Keywords: []string{"motor", "motores", "quebr*", "pane mecânica", "pane mecanica", "superaquec*", "câmbio", "cambio", "embreagem", "freio*", "óleo", "oleo", "correia*"}},
			{Label: "Pane elétrica", Keywords: []string{"bateria*", "elétric*", "eletric*", "alternador", "não liga", "nao liga", "sem partida", "chupeta"}},
			{Label: "Pneu", Keywords: []string{"pneu*", "estepe", "furou", "furado", "furada", "roda", "rodas"}},
			{Label: "Combustível", Keywords: []string{"combustível", "combustivel", "gasolina", "diesel", "etanol", "pane seca"}},
			{Label: "Chaveiro", Keywords: []string{"chave*", "trancad*", "trancou"}},
			{Label: "Guincho/Reboque", Keywords: []string{"guincho*", "reboque*", "remoção", "remocao", "prancha"}},
		},
		Fallback: Other,
	}
}

// ErrInvalidRules is returned by Validate for unusable rule tables.
var ErrInvalidRules = errors.New("invalid classification rules")

// Validate reports structural problems: unlabeled categories, duplicate
// labels and categories without keywords.
func (r Rules) Validate() error {
	seen := map[string]bool{}
	for i, c := range r.Categories {
		label := strings.TrimSpace(c.Label)
		if label == "" {
			return fmt.Errorf("%w: category #%d has no label", ErrInvalidRules, i+1)
		}
		if seen[label] {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidRules, label)
		}
		seen[label] = true
		if len(nonBlank(c.Keywords)) == 0 {
			return fmt.Errorf("%w: category %q has no keywords", ErrInvalidRules, label)
		}
	}
	return nil
}

// LoadRules reads a YAML rule table. Omitted sections keep their defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules: %w", err)
	}
	r := DefaultRules()
	var in Rules
	if err := yaml.Unmarshal(data, &in); err != nil {
		return Rules{}, fmt.Errorf("parse rules %s: %w", path, err)
	}
	if in.Truck != nil {
		r.Truck = in.Truck
	}
	if in.Passenger != nil {
		r.Passenger = in.Passenger
	}
	if in.Categories != nil {
		r.Categories = in.Categories
	}
	if strings.TrimSpace(in.Fallback) != "" {
		r.Fallback = in.Fallback
	}
	if err := r.Validate(); err != nil {
		return Rules{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

func nonBlank(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
