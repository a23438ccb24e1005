package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabula-cli/internal/discover"
	"github.com/KaramelBytes/tabula-cli/internal/schema"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Header detection for spreadsheets.
	HeaderPrimary   string `mapstructure:"header_primary" yaml:"header_primary"`
	HeaderSecondary string `mapstructure:"header_secondary" yaml:"header_secondary"`
	HeaderScanRows  int    `mapstructure:"header_scan_rows" yaml:"header_scan_rows"`

	// Candidates lists, per role name, the column names tried by auto-resolution.
	Candidates map[string][]string `mapstructure:"candidates" yaml:"candidates"`
	RulesFile  string              `mapstructure:"rules_file" yaml:"rules_file"`

	ProviderTopN int `mapstructure:"provider_top_n" yaml:"provider_top_n"`
	RegionTopN   int `mapstructure:"region_top_n" yaml:"region_top_n"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// DefaultCandidates are the column names tried per role when nothing is configured.
func DefaultCandidates() map[string][]string {
	return map[string][]string{
		"date":         {"DATA DO ATENDIMENTO", "DATA"},
		"amount":       {"VALOR", "VALOR TOTAL", "CUSTO"},
		"distance":     {"KM", "DISTÂNCIA", "DISTANCIA"},
		"provider":     {"PRESTADOR", "FORNECEDOR"},
		"region":       {"REGIÃO", "REGIAO", "CIDADE"},
		"plate":        {"PLACA"},
		"vehicle_type": {"TIPO"},
		"protocol":     {"PROTOCOLO"},
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabula"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabula/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABULA")
	v.AutomaticEnv()

	m := discover.DefaultMarkers()
	v.SetDefault("header_primary", m.Primary)
	v.SetDefault("header_secondary", m.Secondary)
	v.SetDefault("header_scan_rows", m.ScanRows)
	v.SetDefault("candidates", DefaultCandidates())
	v.SetDefault("rules_file", "")
	v.SetDefault("provider_top_n", 20)
	v.SetDefault("region_top_n", 25)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("output_dir", ".")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Candidates) == 0 {
		c.Candidates = DefaultCandidates()
	}
	return &c, nil
}

// Markers returns the header detection settings.
func (c *Global) Markers() discover.Markers {
	return discover.Markers{Primary: c.HeaderPrimary, Secondary: c.HeaderSecondary, ScanRows: c.HeaderScanRows}
}

// RoleCandidates converts Candidates to a role-keyed map. Unknown role names
// are reported as an error.
func (c *Global) RoleCandidates() (map[schema.Role][]string, error) {
	out := make(map[schema.Role][]string, len(c.Candidates))
	var unknown []string
	for name, cands := range c.Candidates {
		r, err := schema.ParseRole(name)
		if err != nil {
			unknown = append(unknown, name)
			continue
		}
		out[r] = cands
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return out, fmt.Errorf("config candidates: unknown roles %s", strings.Join(unknown, ", "))
	}
	return out, nil
}
