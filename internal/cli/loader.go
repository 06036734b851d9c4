package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/sparq/builder"
)

// QueryFile is the YAML query description accepted by the compile and
// query commands. It maps declaratively onto the fluent builder API;
// anything the file format cannot express (unions, sub-selects,
// property paths) needs the Go API directly.
type QueryFile struct {
	Kind        string       `yaml:"kind"` // select (default) | construct | ask | describe
	Namespace   string       `yaml:"namespace"`
	From        string       `yaml:"from"`
	Graph       string       `yaml:"graph"`
	Distinct    bool         `yaml:"distinct"`
	Select      []string     `yaml:"select"`
	Where       []WhereEntry `yaml:"where"`
	Optional    []WhereEntry `yaml:"optional"`
	GroupBy     []string     `yaml:"group_by"`
	OrderBy     []string     `yaml:"order_by"`
	OrderByDesc []string     `yaml:"order_by_desc"`
	Limit       *int         `yaml:"limit"`
	Offset      *int         `yaml:"offset"`
	Describe    []string     `yaml:"describe"`
	Count       *string      `yaml:"count"` // count over a column; empty counts subjects
	Update      *UpdateFile  `yaml:"update"`
}

// UpdateFile describes a graph management operation. Data and
// template updates carry typed terms and need the Go API directly.
type UpdateFile struct {
	Kind   string `yaml:"kind"` // load | clear | drop | create | copy | move | add
	Silent bool   `yaml:"silent"`
	Source string `yaml:"source"` // load: document IRI
	Into   string `yaml:"into"`   // load: target graph
	Graph  string `yaml:"graph"`  // clear/drop/create target; also default|named|all
	From   string `yaml:"from"`   // copy/move/add source; graph IRI or default|named|all
	To     string `yaml:"to"`     // copy/move/add destination
}

// WhereEntry is one constraint line. Values, when set, makes it an
// in-list constraint; otherwise Op (default "=") compares against
// Value.
type WhereEntry struct {
	Predicate string `yaml:"predicate"`
	Op        string `yaml:"op"`
	Value     any    `yaml:"value"`
	Values    []any  `yaml:"values"`
	NotNull   bool   `yaml:"not_null"`
	Null      bool   `yaml:"null"`
}

// LoadQueryFile reads and parses a YAML query description.
func LoadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parse query file %s: %w", path, err)
	}
	return &qf, nil
}

// Build translates the description into a constraint accumulator.
func (q *QueryFile) Build() (*builder.Builder, error) {
	b := builder.New()

	if q.Update != nil {
		if err := q.Update.apply(b); err != nil {
			return nil, err
		}
		return b, b.Err()
	}

	switch strings.ToLower(q.Kind) {
	case "", "select":
	case "construct":
		b.Construct()
	case "ask":
		b.Ask()
	case "describe":
		b.Describe(q.Describe...)
	default:
		return nil, fmt.Errorf("unknown query kind %q", q.Kind)
	}

	if q.Namespace != "" {
		b.Namespace(q.Namespace)
	}
	if q.Graph != "" {
		b.Graph(q.Graph)
	}
	if q.From != "" {
		b.From(q.From)
	}
	if q.Distinct {
		b.Distinct()
	}
	if len(q.Select) > 0 {
		b.Select(q.Select...)
	}

	applyWhere(b, q.Where)
	if len(q.Optional) > 0 {
		b.Optional(func(sub *builder.Builder) {
			applyWhere(sub, q.Optional)
		})
	}

	if q.Count != nil {
		b.Count(*q.Count)
	}
	if len(q.GroupBy) > 0 {
		b.GroupBy(q.GroupBy...)
	}
	for _, col := range q.OrderBy {
		b.OrderBy(col)
	}
	for _, col := range q.OrderByDesc {
		b.OrderByDesc(col)
	}
	if q.Limit != nil {
		b.Limit(*q.Limit)
	}
	if q.Offset != nil {
		b.Offset(*q.Offset)
	}

	return b, b.Err()
}

func (u *UpdateFile) apply(b *builder.Builder) error {
	if u.Silent {
		b.Silent()
	}
	switch strings.ToLower(u.Kind) {
	case "load":
		if u.Into != "" {
			b.LoadGraphInto(u.Source, u.Into)
		} else {
			b.LoadGraph(u.Source)
		}
	case "clear":
		b.ClearGraph(parseGraphRef(u.Graph))
	case "drop":
		b.DropGraph(parseGraphRef(u.Graph))
	case "create":
		b.CreateGraph(u.Graph)
	case "copy":
		b.CopyGraph(parseGraphRef(u.From), parseGraphRef(u.To))
	case "move":
		b.MoveGraph(parseGraphRef(u.From), parseGraphRef(u.To))
	case "add":
		b.AddGraph(parseGraphRef(u.From), parseGraphRef(u.To))
	default:
		return fmt.Errorf("unknown update kind %q", u.Kind)
	}
	return nil
}

func parseGraphRef(name string) builder.GraphRef {
	switch strings.ToLower(name) {
	case "", "default":
		return builder.DefaultGraph()
	case "named":
		return builder.NamedGraphs()
	case "all":
		return builder.AllGraphs()
	}
	return builder.GraphOf(name)
}

func applyWhere(b *builder.Builder, entries []WhereEntry) {
	for _, w := range entries {
		switch {
		case w.Null:
			b.WhereNull(w.Predicate)
		case w.NotNull:
			b.WhereNotNull(w.Predicate)
		case len(w.Values) > 0:
			b.WhereIn(w.Predicate, w.Values...)
		case w.Op == "" || w.Op == "=":
			b.Where(w.Predicate, w.Value)
		default:
			b.WhereOp(w.Predicate, w.Op, w.Value)
		}
	}
}
