// Package hh talks to the HH REST API: vacancy search, negotiations, résumés
// and the OAuth token endpoint.
package hh

import (
	"net/url"
	"sort"
	"strings"
)

// Param is one query-string pair; order matters to HH only for repeated keys,
// so the canonical form sorts pairs for stable storage and comparison.
type Param struct {
	Key   string
	Value string
}

// allowedKeys is the subset of /vacancies parameters the search passes
// through; everything else is dropped during normalization.
var allowedKeys = map[string]struct{}{
	"text":              {},
	"area":              {},
	"professional_role": {},
	"specialization":    {},
	"experience":        {},
	"employment":        {},
	"schedule":          {},
	"work_format":       {},
	"only_with_salary":  {},
	"salary":            {},
	"currency":          {},
	"search_field":      {},
	"label":             {},
	"order_by":          {},
}

// scheduleMap folds the frontend's work-format spellings into HH schedule ids.
var scheduleMap = map[string]string{
	"REMOTE":      "remote",
	"remote":      "remote",
	"FULLDAY":     "fullDay",
	"fullDay":     "fullDay",
	"SHIFT":       "shift",
	"shift":       "shift",
	"FLEXIBLE":    "flexible",
	"flexible":    "flexible",
	"ROTATIONAL":  "flyInFlyOut",
	"flyInFlyOut": "flyInFlyOut",
}

var employmentValues = map[string]struct{}{
	"full": {}, "part": {}, "project": {}, "probation": {}, "volunteer": {},
}

var searchFieldValues = map[string]struct{}{
	"name": {}, "company_name": {}, "description": {},
}

// Normalize filters a raw query string down to the allowed HH parameters,
// fixing up known value spellings and dropping invalid ones.
func Normalize(raw string) []Param {
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return nil
	}
	var out []Param
	for k, vs := range vals {
		if _, ok := allowedKeys[k]; !ok {
			continue
		}
		for _, v := range vs {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			switch k {
			case "schedule":
				if mapped, ok := scheduleMap[v]; ok {
					v = mapped
				}
			case "employment":
				v = strings.ToLower(v)
				if _, ok := employmentValues[v]; !ok {
					continue
				}
			case "professional_role":
				if !isDigits(v) {
					continue
				}
			case "search_field":
				if _, ok := searchFieldValues[v]; !ok {
					continue
				}
			}
			out = append(out, Param{k, v})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Canonical returns the normalized, sorted, re-encoded query string.
// Canonical(Canonical(x)) == Canonical(x).
func Canonical(raw string) string {
	return Encode(Normalize(raw))
}

func Encode(params []Param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Relaxations yields progressively simpler parameter sets for the search
// fallback ladder: drop professional_role, then search_field, then keep only
// text plus the first area. Steps that would not change the query are skipped.
func Relaxations(params []Param) [][]Param {
	var steps [][]Param

	if hasKey(params, "professional_role") {
		steps = append(steps, dropKey(params, "professional_role"))
	}
	if hasKey(params, "search_field") {
		steps = append(steps, dropKey(params, "search_field"))
	}

	var bare []Param
	for _, p := range params {
		if p.Key == "text" {
			bare = append(bare, p)
			break
		}
	}
	for _, p := range params {
		if p.Key == "area" {
			bare = append(bare, p)
			break
		}
	}
	steps = append(steps, bare)
	return steps
}

func hasKey(params []Param, key string) bool {
	for _, p := range params {
		if p.Key == key {
			return true
		}
	}
	return false
}

func dropKey(params []Param, key string) []Param {
	out := make([]Param, 0, len(params))
	for _, p := range params {
		if p.Key != key {
			out = append(out, p)
		}
	}
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
