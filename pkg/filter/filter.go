// Package filter provides result and reference filtering functions.
package filter

import (
	"strings"

	"github.com/masstools/massalign/pkg/align"
	"github.com/masstools/massalign/pkg/gene"
)

// Config holds filtering configuration.
type Config struct {
	TopN        int      // Keep only the N best hits (0 = no limit)
	MinScore    int      // Drop hits below this alignment score
	MinIdentity float64  // Drop hits below this identity fraction (0..1)
	Species     string   // Keep only genes of this species ("" = all)
	Chains      []string // Keep only genes of these chains (nil = all)
	GeneTypes   []string // Keep only genes of these types (nil = all)
}

// Hits applies the score, identity and top-N filters to a ranked hit list.
// Input order is preserved, so an already ranked list stays ranked.
func (c *Config) Hits(hits []align.Hit) []align.Hit {
	var filtered []align.Hit
	for _, h := range hits {
		if h.Alignment.Score < c.MinScore {
			continue
		}
		if c.MinIdentity > 0 && h.Alignment.Identity() < c.MinIdentity {
			continue
		}
		filtered = append(filtered, h)
	}

	if c.TopN > 0 && len(filtered) > c.TopN {
		filtered = filtered[:c.TopN]
	}
	return filtered
}

// Genes applies the species, chain and gene-type filters to a reference
// collection.
func (c *Config) Genes(records []gene.Record) []gene.Record {
	var filtered []gene.Record
	for _, r := range records {
		if c.Species != "" && !strings.EqualFold(r.Species, c.Species) {
			continue
		}
		if len(c.Chains) > 0 && !containsFold(c.Chains, r.Chain) {
			continue
		}
		if len(c.GeneTypes) > 0 && !containsFold(c.GeneTypes, r.GeneType) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
