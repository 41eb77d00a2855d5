package output

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table or yaml. An empty value means table.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q, expected table or yaml", value)
	}
}

// Tabular is a command result that can be shown as tables. In YAML mode the
// value itself is marshalled, so its fields carry yaml tags.
type Tabular interface {
	Tables() []Table
}

// Table is one block of output. Without a header the rows are rendered as
// key/value pairs.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

// Printer writes command results to a terminal or a pipe.
type Printer struct {
	w      io.Writer
	format Format
}

func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

// New is NewPrinter with the format given as configured text.
func New(w io.Writer, format string) (*Printer, error) {
	parsed, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return NewPrinter(w, parsed), nil
}

func (p *Printer) Print(v Tabular) error {
	if p.format == FormatYAML {
		encoder := yaml.NewEncoder(p.w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("could not marshal output. Err: '%w'", err)
		}
		return encoder.Close()
	}

	for i, table := range v.Tables() {
		if i > 0 {
			if _, err := fmt.Fprintln(p.w); err != nil {
				return err
			}
		}
		if err := p.render(table); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) render(t Table) error {
	if t.Title != "" {
		if _, err := fmt.Fprintln(p.w, t.Title); err != nil {
			return err
		}
	}
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(p.w, "(none)")
		return err
	}

	opts := []tablewriter.Option{
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithRowAutoWrap(tw.WrapNone),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	}
	if len(t.Header) == 0 {
		opts = append(opts, tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.On, Bottom: tw.On},
		})))
	}

	table := tablewriter.NewTable(p.w, opts...)
	if len(t.Header) > 0 {
		table.Header(t.Header)
	}
	if err := table.Bulk(t.Rows); err != nil {
		return fmt.Errorf("failed to lay out table: %w", err)
	}
	return table.Render()
}

// Quoted is a string that is always single-quoted in YAML, so hex values
// are never read back as numbers.
type Quoted string

func (s Quoted) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind:  yaml.ScalarNode,
		Style: yaml.SingleQuotedStyle,
		Value: string(s),
	}
	return node, nil
}

// Int renders an optional integer, "-" when unknown.
func Int(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return v.String()
}
