// Package placeholder substitutes reserved tokens such as {{URL_1}} inside
// arbitrary JSON-like values.
package placeholder

import (
	"log/slog"
	"strings"

	"github.com/spachava753/webmall-eval/internal/models"
)

// Site URL tokens used by the WebMall task sets.
const (
	TokenShop1    = "{{URL_1}}"
	TokenShop2    = "{{URL_2}}"
	TokenShop3    = "{{URL_3}}"
	TokenShop4    = "{{URL_4}}"
	TokenFrontend = "{{URL_5}}"
)

// Pair is a single token substitution.
type Pair struct {
	Token string
	Value string
}

// Map is an ordered set of substitutions. Substitutions are applied in
// insertion order. A Map is never mutated after construction.
type Map struct {
	pairs []Pair
}

// NewMap builds a Map from pairs. Later pairs for an existing token replace
// the earlier value but keep its position.
func NewMap(pairs ...Pair) Map {
	return Map{}.With(pairs...)
}

// SiteMap builds the URL map for the five WebMall sites.
func SiteMap(sites models.Sites) Map {
	return NewMap(
		Pair{TokenShop1, sites.Shop1URL},
		Pair{TokenShop2, sites.Shop2URL},
		Pair{TokenShop3, sites.Shop3URL},
		Pair{TokenShop4, sites.Shop4URL},
		Pair{TokenFrontend, sites.FrontendURL},
	)
}

// With returns a copy of m extended with pairs.
func (m Map) With(pairs ...Pair) Map {
	out := make([]Pair, len(m.pairs), len(m.pairs)+len(pairs))
	copy(out, m.pairs)
	for _, p := range pairs {
		replaced := false
		for i := range out {
			if out[i].Token == p.Token {
				out[i].Value = p.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return Map{pairs: out}
}

// Lookup returns the value mapped to token.
func (m Map) Lookup(token string) (string, bool) {
	for _, p := range m.pairs {
		if p.Token == token {
			return p.Value, true
		}
	}
	return "", false
}

// Pairs returns a copy of the substitutions in order.
func (m Map) Pairs() []Pair {
	return append([]Pair(nil), m.pairs...)
}

// Resolver applies a Map, and optionally a protocol rewrite, to values.
type Resolver struct {
	Map     Map
	Rewrite *ProtocolRewrite
}

// NewResolver creates a resolver without protocol rewriting.
func NewResolver(m Map) *Resolver {
	return &Resolver{Map: m}
}

// Resolve returns a structurally identical copy of v with every string
// resolved. Maps, slices and strings are walked; other scalars are returned
// unchanged.
func (r *Resolver) Resolve(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = r.Resolve(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = r.Resolve(val)
		}
		return out
	case string:
		return r.ResolveString(x)
	default:
		return v
	}
}

// ResolveString replaces every known token in s. Tokens mapped to an empty
// value are left in place.
func (r *Resolver) ResolveString(s string) string {
	for _, p := range r.Map.pairs {
		if p.Value == "" {
			continue
		}
		s = strings.ReplaceAll(s, p.Token, p.Value)
	}

	if r.Rewrite != nil {
		s, _ = r.Rewrite.Apply(s)
	}
	return s
}

// ProtocolRewrite replaces every passage that starts with Anchor and ends
// with Terminal (both inclusive) by Replacement. Text between the markers is
// arbitrary.
type ProtocolRewrite struct {
	Anchor      string
	Terminal    string
	Replacement string
}

// Apply splices out each Anchor..Terminal passage. It reports whether at
// least one passage was replaced. An anchor without a terminal is left
// untouched and logged.
func (p *ProtocolRewrite) Apply(s string) (string, bool) {
	if p.Anchor == "" || p.Terminal == "" {
		return s, false
	}

	var b strings.Builder
	replaced := false
	rest := s
	for {
		start := strings.Index(rest, p.Anchor)
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+len(p.Anchor):], p.Terminal)
		if end < 0 {
			slog.Warn("submission protocol anchor found without terminal phrase, leaving text unchanged",
				"anchor", p.Anchor)
			break
		}
		end += start + len(p.Anchor) + len(p.Terminal)

		b.WriteString(rest[:start])
		b.WriteString(p.Replacement)
		rest = rest[end:]
		replaced = true
	}

	if !replaced {
		return s, false
	}
	b.WriteString(rest)
	return b.String(), true
}
