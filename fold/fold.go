// Package fold reassembles flat solution rows into nested records.
//
// A select query over pushed attributes comes back as one row per
// matched combination, with placeholder variables for column names.
// Fold groups rows by subject, recovers the human-facing property
// names the placeholders were pushed under, and promotes repeated
// scalar values to lists, so callers see one record per subject
// instead of a cartesian row set.
package fold

import (
	"sort"

	"github.com/roach88/sparq/builder"
	"github.com/roach88/sparq/prefix"
)

// Row is one flat solution row: variable name (without the leading
// "?") to its bound value.
type Row map[string]string

// Record is one folded result. The "id" key holds the subject; every
// other key is a property name mapped to a string or, when the
// subject had several values for it, a []any of strings.
type Record map[string]any

// Fold groups rows by their subject binding and merges each group
// into one record. Rows sharing a subject merge even when they are
// not adjacent. Rows with no subject binding are dropped.
//
// Property names come from the builder's reverse variable lookup and
// are shortened through the prefix table; a variable the builder
// never pushed keeps its variable name as the key. Wildcard queries
// take the property name from the prop binding instead.
func Fold(b *builder.Builder, table *prefix.Table, rows []Row) []Record {
	if table == nil {
		table = prefix.Default()
	}
	subjectVar := string(b.Subject)

	var out []Record
	index := make(map[string]int)

	for _, row := range rows {
		id, ok := row[subjectVar]
		if !ok {
			continue
		}

		var rec Record
		if i, seen := index[id]; seen {
			rec = out[i]
		} else {
			rec = Record{"id": shorten(table, id)}
			index[id] = len(out)
			out = append(out, rec)
		}

		for _, v := range sortedVars(row) {
			if v == subjectVar || v == builder.WildcardPropVar {
				continue
			}
			val := row[v]

			var key string
			if v == builder.WildcardValueVar {
				prop, ok := row[builder.WildcardPropVar]
				if !ok {
					continue
				}
				key = shorten(table, prop)
			} else if pred, ok := b.PredicateForVar(v); ok {
				key = shorten(table, pred)
			} else {
				key = v
			}
			assign(rec, key, val)
		}
	}
	return out
}

// assign sets a property value, promoting to a list on the second
// distinct value. Duplicate values are ignored.
func assign(rec Record, key, val string) {
	existing, ok := rec[key]
	if !ok {
		rec[key] = val
		return
	}
	if list, ok := existing.([]any); ok {
		for _, item := range list {
			if item == any(val) {
				return
			}
		}
		rec[key] = append(list, val)
		return
	}
	if existing == any(val) {
		return
	}
	rec[key] = []any{existing, val}
}

func shorten(table *prefix.Table, name string) string {
	if short, ok := table.Shorten(name); ok {
		return short
	}
	return name
}

// sortedVars returns the row's variable names in sorted order so the
// fold is deterministic regardless of map iteration.
func sortedVars(row Row) []string {
	vars := make([]string, 0, len(row))
	for v := range row {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	return vars
}
