package belief

import (
	"fmt"
	"math"
	"sort"

	"github.com/psyche-works/psyche/internal/domain"
)

// Coherence constants
const (
	// RevisionPenalty is the coherence cost per recorded revision. Churn
	// lowers apparent coherence even when weights stay high.
	RevisionPenalty = 2.0

	// BalanceStdDevScale converts the cross-domain standard deviation to
	// the 0-100 balance scale.
	BalanceStdDevScale = 10.0

	// ConcentrationWeight and ConcentrationRatio define the health-check
	// warning: more than half the network at weight >= 5.
	ConcentrationWeight = 5
	ConcentrationRatio  = 0.5

	// OscillationWindow and OscillationMinAlternations define the
	// oscillation rule: within the trailing 4 weight-affecting revisions,
	// the strengthen/weaken direction alternates at every step.
	OscillationWindow          = 4
	OscillationMinAlternations = 3

	// DefaultRankSize is how many nodes the volatility rankings return.
	DefaultRankSize = 3
)

// AverageWeight is the arithmetic mean weight across nodes, 0 for an empty set.
func AverageWeight(nodes []domain.BeliefNode) float64 {
	if len(nodes) == 0 {
		return 0
	}
	sum := 0
	for _, n := range nodes {
		sum += n.Weight
	}
	return float64(sum) / float64(len(nodes))
}

// TotalRevisions sums revision history length across nodes.
func TotalRevisions(nodes []domain.BeliefNode) int {
	total := 0
	for _, n := range nodes {
		total += len(n.RevisionHistory)
	}
	return total
}

// CoherenceScore is clamp(avgWeight/10*100 - totalRevisions*2, 0, 100).
// Deterministic over a snapshot: same nodes, same score.
func CoherenceScore(nodes []domain.BeliefNode) float64 {
	score := AverageWeight(nodes)/float64(domain.MaxWeight)*100 - float64(TotalRevisions(nodes))*RevisionPenalty
	return clampScore(score)
}

// DomainBalance measures how evenly weight is distributed across domains:
// 100 minus ten times the standard deviation of per-domain mean weights,
// floored at 0. A single-domain (or empty) network is balanced by definition.
func DomainBalance(nodes []domain.BeliefNode) float64 {
	byDomain := make(map[domain.BeliefDomain][]int)
	for _, n := range nodes {
		byDomain[n.Domain] = append(byDomain[n.Domain], n.Weight)
	}
	if len(byDomain) <= 1 {
		return 100
	}

	means := make([]float64, 0, len(byDomain))
	for _, weights := range byDomain {
		sum := 0
		for _, w := range weights {
			sum += w
		}
		means = append(means, float64(sum)/float64(len(weights)))
	}

	var mean float64
	for _, m := range means {
		mean += m
	}
	mean /= float64(len(means))

	var variance float64
	for _, m := range means {
		variance += (m - mean) * (m - mean)
	}
	variance /= float64(len(means))

	balance := 100 - math.Sqrt(variance)*BalanceStdDevScale
	if balance < 0 {
		return 0
	}
	return balance
}

// VolatileBeliefs returns the top-n nodes by revision count, most revised
// first. Ties keep snapshot order.
func VolatileBeliefs(nodes []domain.BeliefNode, n int) []domain.BeliefNode {
	return rankByRevisions(nodes, n, true)
}

// StableBeliefs returns the bottom-n nodes by revision count.
func StableBeliefs(nodes []domain.BeliefNode, n int) []domain.BeliefNode {
	return rankByRevisions(nodes, n, false)
}

func rankByRevisions(nodes []domain.BeliefNode, n int, desc bool) []domain.BeliefNode {
	ranked := make([]domain.BeliefNode, len(nodes))
	copy(ranked, nodes)

	sort.SliceStable(ranked, func(i, j int) bool {
		if desc {
			return len(ranked[i].RevisionHistory) > len(ranked[j].RevisionHistory)
		}
		return len(ranked[i].RevisionHistory) < len(ranked[j].RevisionHistory)
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// HealthCheck produces an ordered list of textual findings. The check order
// is fixed: invariant breach, concentration, isolation, healthy fallback.
// A broken invariant is reported, never thrown; the read path must not crash.
func HealthCheck(nodes []domain.BeliefNode) []string {
	var findings []string

	for _, n := range nodes {
		if n.IsCore && n.Weight < domain.MinWeight {
			findings = append(findings, fmt.Sprintf("core belief %q has weight %d below minimum %d", n.Stance, n.Weight, domain.MinWeight))
		}
	}

	if len(nodes) > 0 {
		concentrated := 0
		for _, n := range nodes {
			if n.Weight >= ConcentrationWeight {
				concentrated++
			}
		}
		if float64(concentrated) > float64(len(nodes))*ConcentrationRatio {
			findings = append(findings, fmt.Sprintf("%d of %d beliefs at weight %d or above", concentrated, len(nodes), ConcentrationWeight))
		}
	}

	isolated := 0
	for _, n := range nodes {
		if len(n.ConnectionIDs) == 0 {
			isolated++
		}
	}
	if isolated > 0 {
		findings = append(findings, fmt.Sprintf("%d beliefs have no connections", isolated))
	}

	if len(findings) == 0 {
		findings = append(findings, "belief network is healthy")
	}
	return findings
}

// Oscillating reports whether a node's trailing weight-affecting revisions
// form a back-and-forth rather than a convergence: the last OscillationWindow
// strengthen/weaken revisions alternate direction at every step.
func Oscillating(node domain.BeliefNode) bool {
	var directions []int
	for _, r := range node.RevisionHistory {
		switch r.Type {
		case domain.RevisionStrengthen:
			directions = append(directions, 1)
		case domain.RevisionWeaken:
			directions = append(directions, -1)
		}
	}
	if len(directions) < OscillationWindow {
		return false
	}

	window := directions[len(directions)-OscillationWindow:]
	alternations := 0
	for i := 1; i < len(window); i++ {
		if window[i] != window[i-1] {
			alternations++
		}
	}
	return alternations >= OscillationMinAlternations
}

// OscillatingBeliefs filters a snapshot down to oscillating nodes.
func OscillatingBeliefs(nodes []domain.BeliefNode) []domain.BeliefNode {
	var out []domain.BeliefNode
	for _, n := range nodes {
		if Oscillating(n) {
			out = append(out, n)
		}
	}
	return out
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
