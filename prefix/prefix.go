// Package prefix provides the namespace-prefix table used when
// serializing and shortening IRIs.
//
// A Table is an explicitly constructed, immutable lookup object. It is
// built once (from code or from a YAML file) and then shared freely:
// nothing in this module mutates a Table after construction, so it is
// safe for concurrent use without locking.
package prefix

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known namespaces registered by Default.
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	OWL  = "http://www.w3.org/2002/07/owl#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"
	FOAF = "http://xmlns.com/foaf/0.1/"
	DC   = "http://purl.org/dc/elements/1.1/"
	SKOS = "http://www.w3.org/2004/02/skos/core#"
)

// Table maps namespace prefixes to base IRIs.
//
// The zero value is not usable; construct with New, Default, or Load.
type Table struct {
	byPrefix map[string]string
}

// New creates a Table from a prefix -> base IRI map.
// The input map is copied; later changes to it do not affect the Table.
func New(namespaces map[string]string) *Table {
	byPrefix := make(map[string]string, len(namespaces))
	for p, base := range namespaces {
		byPrefix[p] = base
	}
	return &Table{byPrefix: byPrefix}
}

// Default returns a Table preloaded with the well-known W3C namespaces
// (rdf, rdfs, owl, xsd) plus foaf, dc, and skos.
func Default() *Table {
	return New(map[string]string{
		"rdf":  RDF,
		"rdfs": RDFS,
		"owl":  OWL,
		"xsd":  XSD,
		"foaf": FOAF,
		"dc":   DC,
		"skos": SKOS,
	})
}

// Load reads a YAML file mapping prefixes to base IRIs and returns a
// Table containing the defaults overlaid with the file's entries.
//
// File format:
//
//	ex: "http://example.org/ns#"
//	foaf: "http://xmlns.com/foaf/0.1/"
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read prefix file: %w", err)
	}

	var entries map[string]string
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse prefix file %s: %w", path, err)
	}

	for p, base := range entries {
		if p == "" || base == "" {
			return nil, fmt.Errorf("prefix file %s: empty prefix or base IRI", path)
		}
	}

	table := Default()
	merged := make(map[string]string, len(table.byPrefix)+len(entries))
	for p, base := range table.byPrefix {
		merged[p] = base
	}
	for p, base := range entries {
		merged[p] = base
	}
	return New(merged), nil
}

// With returns a new Table containing the receiver's entries plus the
// given prefix. The receiver is not modified.
func (t *Table) With(pfx, base string) *Table {
	merged := make(map[string]string, len(t.byPrefix)+1)
	for p, b := range t.byPrefix {
		merged[p] = b
	}
	merged[pfx] = base
	return &Table{byPrefix: merged}
}

// Base returns the base IRI registered for a prefix.
func (t *Table) Base(pfx string) (string, bool) {
	base, ok := t.byPrefix[pfx]
	return base, ok
}

// Expand resolves a prefixed name ("foaf:Person") to an absolute IRI.
// Returns false when the name has no prefix, the prefix is not
// registered, or the name is already an absolute IRI.
func (t *Table) Expand(name string) (string, bool) {
	if IsAbsolute(name) {
		return "", false
	}
	idx := strings.Index(name, ":")
	if idx <= 0 {
		return "", false
	}
	base, ok := t.byPrefix[name[:idx]]
	if !ok {
		return "", false
	}
	return base + name[idx+1:], true
}

// Shorten converts an absolute IRI to a prefixed name when a registered
// namespace matches. The longest matching base IRI wins.
func (t *Table) Shorten(iri string) (string, bool) {
	var bestPrefix, bestBase string
	for p, base := range t.byPrefix {
		if strings.HasPrefix(iri, base) && len(base) > len(bestBase) {
			bestPrefix, bestBase = p, base
		}
	}
	if bestBase == "" || len(iri) == len(bestBase) {
		return "", false
	}
	local := iri[len(bestBase):]
	if strings.ContainsAny(local, "/#") {
		// Local part crosses another namespace segment; leave absolute.
		return "", false
	}
	return bestPrefix + ":" + local, true
}

// Prefixes returns the registered prefixes in sorted order.
func (t *Table) Prefixes() []string {
	out := make([]string, 0, len(t.byPrefix))
	for p := range t.byPrefix {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// IsAbsolute reports whether a name is already an absolute IRI rather
// than a prefixed name. The scheme-separator "://" and the urn: scheme
// are treated as absolute.
func IsAbsolute(name string) bool {
	return strings.Contains(name, "://") || strings.HasPrefix(name, "urn:")
}
