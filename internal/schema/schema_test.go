package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cols := []string{"Data do Atendimento", "VALOR TOTAL", "Valor", "Prestador"}
	tests := []struct {
		name  string
		cands []string
		want  string
		ok    bool
	}{
		{"exact beats substring", []string{"valor"}, "Valor", true},
		{"substring in column order", []string{"data"}, "Data do Atendimento", true},
		{"later candidate exact", []string{"xyz", "prestador"}, "Prestador", true},
		{"no match", []string{"placa"}, "", false},
		{"blank candidates", []string{"  "}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(cols, tt.cands)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAll_NoColumnReused(t *testing.T) {
	cols := []string{"DATA", "VALOR", "KM", "TIPO VEICULO"}
	b := ResolveAll(cols, map[Role][]string{
		Date:        {"DATA"},
		Amount:      {"VALOR"},
		Distance:    {"KM"},
		VehicleType: {"TIPO"},
		Protocol:    {"VALOR"},
	})
	col, ok := b.Column(Amount)
	require.True(t, ok)
	assert.Equal(t, "VALOR", col)
	assert.False(t, b.Bound(Protocol))
	assert.Equal(t, VehicleType, b.RoleOf("TIPO VEICULO"))
	assert.Equal(t, []Role{Date, Amount, Distance, VehicleType}, b.Roles())
}

func TestBinding_Bind(t *testing.T) {
	b := NewBinding()
	require.NoError(t, b.Bind(Amount, "VALOR"))
	assert.ErrorIs(t, b.Bind(Distance, "VALOR"), ErrColumnTaken)

	require.NoError(t, b.Bind(Amount, "CUSTO"))
	assert.Equal(t, Unmapped, b.RoleOf("VALOR"))
	require.NoError(t, b.Bind(Distance, "VALOR"))

	require.NoError(t, b.Bind(Amount, ""))
	assert.False(t, b.Bound(Amount))

	c := b.Clone()
	c.Unbind(Distance)
	assert.True(t, b.Bound(Distance))
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("Vehicle-Type")
	require.NoError(t, err)
	assert.Equal(t, VehicleType, r)
	assert.Equal(t, "vehicle_type", r.String())

	_, err = ParseRole("unmapped")
	assert.ErrorIs(t, err, ErrUnknownRole)
	_, err = ParseRole("colour")
	assert.ErrorIs(t, err, ErrUnknownRole)
}
