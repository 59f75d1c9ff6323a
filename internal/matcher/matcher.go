package matcher

import (
	"github.com/pmezard/go-difflib/difflib"

	"github.com/itamaramsalem1/hppdauto-web/internal/model"
)

// Default similarity cutoffs for the two fuzzy-match passes.
const (
	DefaultPrimaryCutoff  = 0.6
	DefaultFallbackCutoff = 0.3
)

// Options tunes the matcher. Zero cutoffs fall back to the defaults.
// Overrides maps a normalized report core to the template key it should
// resolve as, for facilities whose two names share no usable similarity.
type Options struct {
	PrimaryCutoff  float64
	FallbackCutoff float64
	Overrides      map[string]string
}

// Matcher resolves report facility names against the facilities collected
// from templates. Lookups are memoized per instance. A Matcher belongs to
// one comparison run and is not safe for concurrent use; matching runs
// single-threaded after the extraction pool has joined.
type Matcher struct {
	names     map[string]string // matching key -> facility display name
	keys      []string          // keys in template-collection order
	overrides map[string]string
	primary   float64
	fallback  float64
	cache     map[string]match
}

type match struct {
	facility string
	ok       bool
}

// NewMatcher builds a matcher from extracted template entries. Duplicate
// keys keep their first position; the last entry's display name wins.
func NewMatcher(entries []*model.TemplateEntry, opts Options) *Matcher {
	m := &Matcher{
		names:     make(map[string]string, len(entries)),
		overrides: opts.Overrides,
		primary:   opts.PrimaryCutoff,
		fallback:  opts.FallbackCutoff,
		cache:     make(map[string]match),
	}
	if m.primary <= 0 {
		m.primary = DefaultPrimaryCutoff
	}
	if m.fallback <= 0 {
		m.fallback = DefaultFallbackCutoff
	}
	for _, e := range entries {
		if _, seen := m.names[e.Cleaned]; !seen {
			m.keys = append(m.keys, e.Cleaned)
		}
		m.names[e.Cleaned] = e.Facility
	}
	return m
}

// Core returns the matching key for a raw report facility name, with any
// configured override applied.
func (m *Matcher) Core(raw string) string {
	core := ReportCore(raw)
	if override, ok := m.overrides[core]; ok {
		return override
	}
	return core
}

// Keys returns the known matching keys in template order.
func (m *Matcher) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Match resolves a raw report facility name to a template facility display
// name. An exact key hit always wins; otherwise the closest key at the
// primary cutoff, then one more pass at the lower fallback cutoff.
func (m *Matcher) Match(raw string) (string, bool) {
	core := m.Core(raw)
	if core == "" {
		return "", false
	}
	if hit, ok := m.cache[core]; ok {
		return hit.facility, hit.ok
	}
	facility, ok := m.resolve(core)
	m.cache[core] = match{facility: facility, ok: ok}
	return facility, ok
}

func (m *Matcher) resolve(core string) (string, bool) {
	if facility, ok := m.names[core]; ok {
		return facility, true
	}
	if key, ok := m.closest(core, m.primary); ok {
		return m.names[key], true
	}
	if key, ok := m.closest(core, m.fallback); ok {
		return m.names[key], true
	}
	return "", false
}

// closest finds the key most similar to query at or above cutoff, ties
// going to the earlier key. The two quick-ratio upper bounds cheaply rule
// candidates out before the full diff runs.
func (m *Matcher) closest(query string, cutoff float64) (string, bool) {
	sm := difflib.NewMatcher(nil, chars(query))
	var best string
	bestRatio := 0.0
	found := false
	for _, key := range m.keys {
		sm.SetSeq1(chars(key))
		if sm.RealQuickRatio() < cutoff || sm.QuickRatio() < cutoff {
			continue
		}
		r := sm.Ratio()
		if r < cutoff {
			continue
		}
		if !found || r > bestRatio {
			best, bestRatio, found = key, r, true
		}
	}
	return best, found
}

func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
