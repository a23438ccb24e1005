package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KaramelBytes/tabula-cli/internal/analysis"
	"github.com/KaramelBytes/tabula-cli/internal/classify"
	cfgpkg "github.com/KaramelBytes/tabula-cli/internal/config"
	"github.com/KaramelBytes/tabula-cli/internal/locale"
	"github.com/KaramelBytes/tabula-cli/internal/parser"
	"github.com/KaramelBytes/tabula-cli/internal/pipeline"
	"github.com/KaramelBytes/tabula-cli/internal/schema"
	"github.com/KaramelBytes/tabula-cli/internal/session"
	"github.com/spf13/cobra"
)

// pipelineFlags are the load, binding and filter flags shared by analyze and
// analyze-batch.
type pipelineFlags struct {
	sheetName   string
	sheetIndex  int
	kind        string
	maps        []string
	titleCol    string
	descCol     string
	commentsCol string
	rules       string

	from     string
	to       string
	selects  []string
	search   string
	searchIn []string
	daily    bool
}

func (o *pipelineFlags) register(c *cobra.Command) {
	f := c.Flags()
	f.StringVar(&o.sheetName, "sheet-name", "", "XLSX: sheet name to load")
	f.IntVar(&o.sheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided; 0 = first)")
	f.StringVar(&o.kind, "kind", "auto", "upload kind: auto|table|records|trello")
	f.StringArrayVar(&o.maps, "map", nil, "bind a role to a column: role=column (empty column unbinds; repeatable)")
	f.StringVar(&o.titleCol, "title-col", "", "column used as ticket title for classification")
	f.StringVar(&o.descCol, "desc-col", "", "column used as ticket description for classification")
	f.StringVar(&o.commentsCol, "comments-col", "", "column used as ticket comments for classification")
	f.StringVar(&o.rules, "rules", "", "classification rules YAML (overrides config rules_file)")
	f.StringVar(&o.from, "from", "", "first day of the period (dd/mm/yyyy or yyyy-mm-dd)")
	f.StringVar(&o.to, "to", "", "last day of the period (dd/mm/yyyy or yyyy-mm-dd)")
	f.StringArrayVar(&o.selects, "select", nil, "restrict a field to values: field=v1,v2 (field= selects nothing; repeatable)")
	f.StringVar(&o.search, "search", "", "case-insensitive substring search")
	f.StringSliceVar(&o.searchIn, "search-in", nil, "fields searched by --search (default text,provider,region,plate,protocol)")
	f.BoolVar(&o.daily, "daily", false, "bucket time series by day instead of month")
}

// currentConfig returns the loaded config, or defaults when none was loaded.
func currentConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return &cfgpkg.Global{Candidates: cfgpkg.DefaultCandidates()}
	}
	cfg = c
	return cfg
}

func (o *pipelineFlags) loadOptions() (parser.Options, error) {
	kind, err := parser.ParseKind(o.kind)
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{
		SheetName:  o.sheetName,
		SheetIndex: o.sheetIndex,
		Kind:       kind,
		Markers:    currentConfig().Markers(),
	}, nil
}

func (o *pipelineFlags) loadRules() (classify.Rules, error) {
	path := o.rules
	if path == "" {
		path = currentConfig().RulesFile
	}
	if path == "" {
		return classify.DefaultRules(), nil
	}
	return classify.LoadRules(path)
}

// open loads path and returns a session with the manual bindings applied.
func (o *pipelineFlags) open(path string) (*session.Session, error) {
	opt, err := o.loadOptions()
	if err != nil {
		return nil, err
	}
	res, err := parser.LoadFile(path, opt)
	if err != nil {
		return nil, err
	}
	if err := o.applySources(res); err != nil {
		return nil, err
	}
	rules, err := o.loadRules()
	if err != nil {
		return nil, err
	}
	cands, err := currentConfig().RoleCandidates()
	if err != nil {
		slog.Warn("ignoring config candidates", "error", err)
	}
	s := session.New(res, cands, rules)
	if err := applyMappings(s, o.maps); err != nil {
		return nil, err
	}
	return s, nil
}

func (o *pipelineFlags) applySources(res *parser.Result) error {
	set := func(dst *string, col string) error {
		if col == "" {
			return nil
		}
		if !res.Table.Has(col) {
			return fmt.Errorf("text column %q: %w", col, session.ErrUnknownColumn)
		}
		*dst = col
		return nil
	}
	if err := set(&res.Sources.Title, o.titleCol); err != nil {
		return err
	}
	if err := set(&res.Sources.Description, o.descCol); err != nil {
		return err
	}
	return set(&res.Sources.Comments, o.commentsCol)
}

// applyMappings binds role=column pairs. Unbinds run first so a column can be
// moved from one role to another in a single invocation.
func applyMappings(s *session.Session, maps []string) error {
	type pair struct {
		role schema.Role
		col  string
	}
	var unbind, bind []pair
	for _, m := range maps {
		name, col, ok := strings.Cut(m, "=")
		if !ok {
			return fmt.Errorf("invalid --map %q (use role=column)", m)
		}
		role, err := schema.ParseRole(strings.TrimSpace(name))
		if err != nil {
			return fmt.Errorf("invalid --map %q: %w", m, err)
		}
		p := pair{role: role, col: strings.TrimSpace(col)}
		if p.col == "" {
			unbind = append(unbind, p)
		} else {
			bind = append(bind, p)
		}
	}
	for _, p := range append(unbind, bind...) {
		if err := s.Bind(p.role, p.col); err != nil {
			return err
		}
	}
	return nil
}

func parseDay(flag, v string) (time.Time, error) {
	if strings.TrimSpace(v) == "" {
		return time.Time{}, nil
	}
	d := locale.ParseDate(v)
	if !d.Valid {
		return time.Time{}, fmt.Errorf("invalid --%s date: %s", flag, v)
	}
	return d.T, nil
}

func (o *pipelineFlags) filter() (pipeline.Filter, error) {
	var f pipeline.Filter
	var err error
	if f.From, err = parseDay("from", o.from); err != nil {
		return f, err
	}
	if f.To, err = parseDay("to", o.to); err != nil {
		return f, err
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, fmt.Errorf("--to %s is before --from %s", o.to, o.from)
	}
	for _, s := range o.selects {
		name, vals, ok := strings.Cut(s, "=")
		if !ok {
			return f, fmt.Errorf("invalid --select %q (use field=v1,v2)", s)
		}
		field, err := pipeline.ParseField(strings.TrimSpace(name))
		if err != nil {
			return f, err
		}
		if f.Select == nil {
			f.Select = map[pipeline.Field][]string{}
		}
		picked := f.Select[field]
		if picked == nil {
			picked = []string{}
		}
		for _, v := range strings.Split(vals, ",") {
			if v = strings.TrimSpace(v); v != "" {
				picked = append(picked, v)
			}
		}
		f.Select[field] = picked
	}
	f.Search = strings.TrimSpace(o.search)
	for _, s := range o.searchIn {
		field, err := pipeline.ParseField(strings.TrimSpace(s))
		if err != nil {
			return f, err
		}
		f.SearchIn = append(f.SearchIn, field)
	}
	return f, nil
}

func (o *pipelineFlags) reportOptions() analysis.Options {
	opt := analysis.DefaultOptions()
	c := currentConfig()
	if c.ProviderTopN > 0 {
		opt.ProviderTopN = c.ProviderTopN
	}
	if c.RegionTopN > 0 {
		opt.RegionTopN = c.RegionTopN
	}
	if o.daily {
		opt.SeriesGranularity = analysis.Day
	}
	return opt
}

// run loads path and recomputes the working set once.
func (o *pipelineFlags) run(path string) (*session.Session, *session.Result, error) {
	f, err := o.filter()
	if err != nil {
		return nil, nil, err
	}
	s, err := o.open(path)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.Run(f, o.reportOptions())
	if err != nil {
		return nil, nil, err
	}
	return s, res, nil
}
