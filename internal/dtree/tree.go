// Package dtree implements a small CART-style binary decision tree over the
// three admission features (current load, priority ordinal, unit cost).
//
// Fitting is fully deterministic: candidate splits are scanned in fixed
// feature order and ascending threshold order, and the first split with the
// best gini reduction wins. The same examples always produce the same tree.
package dtree

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/me/edgesentry/pkg/model"
)

// Config bounds tree growth to avoid overfitting noisy synthetic sets.
type Config struct {
	// MaxDepth bounds tree depth. The root sits at depth 0.
	MaxDepth int

	// MinSamplesLeaf is the minimum number of examples per leaf.
	MinSamplesLeaf int
}

// DefaultConfig returns the calibrated growth limits.
func DefaultConfig() Config {
	return Config{MaxDepth: 6, MinSamplesLeaf: 5}
}

// FeatureNames labels the feature vector positions for rationale strings
// and printed rules.
var FeatureNames = [model.FeatureCount]string{"load", "priority", "cost"}

// Tree is a fitted run/drop classifier.
type Tree struct {
	root     *node
	depth    int
	examples int
}

type node struct {
	// interior nodes route on features[feature] <= threshold
	feature   int
	threshold float64
	left      *node // feature <= threshold
	right     *node // feature > threshold

	leaf bool
	run  bool
	n    int
}

// Fit induces a tree over the given examples. It requires at least two
// examples; the trainer enforces its own larger minimum on top of this.
func Fit(examples []model.TrainingExample, cfg Config) (*Tree, error) {
	if len(examples) < 2 {
		return nil, errors.New("dtree: need at least 2 examples")
	}
	if cfg.MaxDepth < 1 {
		return nil, fmt.Errorf("dtree: max depth %d out of range", cfg.MaxDepth)
	}
	if cfg.MinSamplesLeaf < 1 {
		return nil, fmt.Errorf("dtree: min samples per leaf %d out of range", cfg.MinSamplesLeaf)
	}

	t := &Tree{examples: len(examples)}
	t.root = t.grow(examples, 0, cfg)
	return t, nil
}

// Predict classifies a feature vector: true means run, false means drop.
func (t *Tree) Predict(features [model.FeatureCount]float64) bool {
	n := t.root
	for !n.leaf {
		if features[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.run
}

// Depth returns the depth of the deepest leaf.
func (t *Tree) Depth() int {
	return t.depth
}

// Examples returns the number of training examples the tree was fitted on.
func (t *Tree) Examples() int {
	return t.examples
}

// String renders the learned rules, one indented line per node.
func (t *Tree) String() string {
	var b strings.Builder
	t.root.render(&b, 0)
	return b.String()
}

func (n *node) render(b *strings.Builder, indent int) {
	pad := strings.Repeat("  ", indent)
	if n.leaf {
		verdict := "drop"
		if n.run {
			verdict = "run"
		}
		fmt.Fprintf(b, "%s=> %s (%d samples)\n", pad, verdict, n.n)
		return
	}
	fmt.Fprintf(b, "%sif %s <= %.2f:\n", pad, FeatureNames[n.feature], n.threshold)
	n.left.render(b, indent+1)
	fmt.Fprintf(b, "%selse:\n", pad)
	n.right.render(b, indent+1)
}

func (t *Tree) grow(examples []model.TrainingExample, depth int, cfg Config) *node {
	if depth > t.depth {
		t.depth = depth
	}

	runs := countRuns(examples)
	pure := runs == 0 || runs == len(examples)
	if pure || depth >= cfg.MaxDepth || len(examples) < 2*cfg.MinSamplesLeaf {
		return leaf(examples, runs)
	}

	feature, threshold, ok := bestSplit(examples, cfg.MinSamplesLeaf)
	if !ok {
		return leaf(examples, runs)
	}

	left, right := partition(examples, feature, threshold)
	return &node{
		feature:   feature,
		threshold: threshold,
		left:      t.grow(left, depth+1, cfg),
		right:     t.grow(right, depth+1, cfg),
		n:         len(examples),
	}
}

// leaf builds a terminal node with the majority label. Ties fall to drop:
// an uncertain admission is treated as unsafe.
func leaf(examples []model.TrainingExample, runs int) *node {
	return &node{leaf: true, run: runs*2 > len(examples), n: len(examples)}
}

// bestSplit scans every feature's sorted midpoints and returns the split
// with the lowest weighted gini impurity. Splits leaving fewer than
// minLeaf examples on either side are skipped. Only strictly better
// candidates replace the current best, which keeps the scan deterministic.
func bestSplit(examples []model.TrainingExample, minLeaf int) (feature int, threshold float64, ok bool) {
	parent := gini(countRuns(examples), len(examples))
	best := parent

	values := make([]float64, 0, len(examples))
	for f := 0; f < model.FeatureCount; f++ {
		values = values[:0]
		for _, e := range examples {
			values = append(values, e.Features()[f])
		}
		sort.Float64s(values)

		for i := 1; i < len(values); i++ {
			if values[i] == values[i-1] {
				continue
			}
			mid := (values[i] + values[i-1]) / 2
			left, right := partition(examples, f, mid)
			if len(left) < minLeaf || len(right) < minLeaf {
				continue
			}
			w := float64(len(left))/float64(len(examples))*gini(countRuns(left), len(left)) +
				float64(len(right))/float64(len(examples))*gini(countRuns(right), len(right))
			if w < best {
				best = w
				feature, threshold, ok = f, mid, true
			}
		}
	}
	return feature, threshold, ok
}

func partition(examples []model.TrainingExample, feature int, threshold float64) (left, right []model.TrainingExample) {
	for _, e := range examples {
		if e.Features()[feature] <= threshold {
			left = append(left, e)
		} else {
			right = append(right, e)
		}
	}
	return left, right
}

func countRuns(examples []model.TrainingExample) int {
	runs := 0
	for _, e := range examples {
		if e.Run {
			runs++
		}
	}
	return runs
}

// gini computes the impurity of a binary split: 1 - p_run² - p_drop².
func gini(runs, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(runs) / float64(total)
	return 1 - p*p - (1-p)*(1-p)
}
