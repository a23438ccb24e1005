package classify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	in := "  linha\t\t um  \r\n\r\n\r\n\r\nlinha dois\r"
	assert.Equal(t, "linha um \n\nlinha dois", Clean(in))
}

func TestConcat(t *testing.T) {
	got := Concat(" Título ", "", JoinComments([]string{"primeiro", "segundo"}))
	assert.Equal(t, "Título\n\nprimeiro\nsegundo", got)
	assert.Equal(t, "", Concat("", " ", ""))
}

func TestNormalize(t *testing.T) {
	decomposed := "Caminha\u0303o  \n SCANIA"
	assert.Equal(t, "caminhão scania", Normalize(decomposed))
}

func TestClassifier_TruckMechanical(t *testing.T) {
	c := New(DefaultRules())
	text := "Caminhão Scania quebrou o motor"
	assert.Equal(t, Truck, c.Vehicle(text))
	assert.Equal(t, "Pane mecânica", c.Category(text))
}

func TestClassifier_Vehicle(t *testing.T) {
	c := New(DefaultRules())
	tests := map[string]string{
		"carreta parada no acostamento": Truck,
		"Carro de passeio sem bateria":  Passenger,
		"carreta bateu no carro":        Mixed,
		"cliente aguardando no local":   Unidentified,
		"":                              Unidentified,
	}
	for text, want := range tests {
		assert.Equal(t, want, c.Vehicle(text), text)
	}
}

func TestClassifier_PriorityOrder(t *testing.T) {
	c := New(DefaultRules())
	// matches both Acidente and Pane mecânica; Acidente comes first
	assert.Equal(t, "Acidente", c.Category("acidente na via, motor quebrou"))
	assert.Equal(t, "Pneu", c.Category("pneu furado"))
	assert.Equal(t, Other, c.Category("cliente pediu informação"))
	assert.Equal(t, Other, c.Category("   "))

	r := Rules{Categories: []Category{
		{Label: "B", Keywords: []string{"motor"}},
		{Label: "A", Keywords: []string{"acidente"}},
	}}
	assert.Equal(t, "B", New(r).Category("acidente na via, motor quebrou"))
}

func TestClassifier_WholeWords(t *testing.T) {
	c := New(DefaultRules())
	assert.Equal(t, Other, c.Category("motorista aguardando na rodovia"))
	assert.Equal(t, Unidentified, c.Vehicle("motorista aguardando na rodovia"))
	assert.Equal(t, Truck, c.Vehicle("caminhão com carroceria aberta"))
	assert.Equal(t, "Pane mecânica", c.Category("motor, fumaça"))
	assert.Equal(t, "Pneu", c.Category("roda travada"))
}

func TestClassifier_Stems(t *testing.T) {
	c := New(DefaultRules())
	assert.Equal(t, "Pneu", c.Category("dois pneus carecas"))
	assert.Equal(t, "Chaveiro", c.Category("cliente perdeu as chaves"))
	assert.Equal(t, Truck, c.Vehicle("carretas paradas"))
}

func TestMatchWord(t *testing.T) {
	tests := []struct {
		text, keyword string
		want          bool
	}{
		{"pane no motor", "motor", true},
		{"motorista", "motor", false},
		{"o motorista e o motor", "motor", true},
		{"pneus", "pneu*", true},
		{"estepneu", "pneu*", false},
		{"pane seca na via", "pane seca", true},
		{"anything", "*", false},
		{"", "motor", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchWord(tt.text, tt.keyword), "%q in %q", tt.keyword, tt.text)
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := New(DefaultRules())
	text := "Guincho para HB20 com pneu furado"
	v, cat := c.Vehicle(text), c.Category(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, v, c.Vehicle(text))
		assert.Equal(t, cat, c.Category(text))
	}
}

func TestClassifier_Labels(t *testing.T) {
	labels := New(DefaultRules()).Labels()
	assert.Equal(t, "Acidente", labels[0])
	assert.Equal(t, Other, labels[len(labels)-1])
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "rules.yaml")
	content := `categories:
  - label: Vidro
    keywords: [parabrisa, vidro]
  - label: Pneu
    keywords: [pneu]
fallback: Sem categoria
`
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	r, err := LoadRules(p)
	require.NoError(t, err)
	assert.Equal(t, DefaultRules().Truck, r.Truck)
	c := New(r)
	assert.Equal(t, "Vidro", c.Category("Parabrisa trincado"))
	assert.Equal(t, "Sem categoria", c.Category("motor"))
}

func TestLoadRules_Invalid(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(p, []byte("categories:\n  - label: X\n"), 0o644))
	_, err := LoadRules(p)
	assert.ErrorIs(t, err, ErrInvalidRules)

	require.NoError(t, os.WriteFile(p, []byte("categories: [\n"), 0o644))
	_, err = LoadRules(p)
	assert.Error(t, err)

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_Duplicate(t *testing.T) {
	r := Rules{Categories: []Category{
		{Label: "A", Keywords: []string{"x"}},
		{Label: "A", Keywords: []string{"y"}},
	}}
	assert.ErrorIs(t, r.Validate(), ErrInvalidRules)
	assert.NoError(t, DefaultRules().Validate())
}
