package tree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/YuminosukeSato/polytree/pkg/errors"
	"github.com/YuminosukeSato/polytree/poly"
)

// Walk は root 以下を行きがけ順（左が先）にたどる。fn が false を返した時点で
// 止まる。再帰せず明示的なスタックを使う
func Walk(root Node, fn func(Node) bool) {
	if root == nil {
		return
	}
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(n) {
			return
		}
		if in, ok := n.(*Internal); ok {
			stack = append(stack, in.Right, in.Left)
		}
	}
}

func countLeaves(root Node) int {
	n := 0
	Walk(root, func(node Node) bool {
		if node.IsLeaf() {
			n++
		}
		return true
	})
	return n
}

func maxDepthOf(root Node) int {
	d := 0
	Walk(root, func(node Node) bool {
		if node.Depth() > d {
			d = node.Depth()
		}
		return true
	})
	return d
}

// Root は根ノードを返す。Fit前はnil
func (t *PolyTree) Root() Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// GetPolys は葉の多項式を左部分木、右部分木の順に返す
func (t *PolyTree) GetPolys() ([]*poly.Poly, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("PolyTree", "GetPolys")
	}
	var polys []*poly.Poly
	Walk(t.root, func(n Node) bool {
		if n.IsLeaf() {
			polys = append(polys, n.Poly())
		}
		return true
	})
	return polys, nil
}

// NodeSummary は1ノードの構造情報。葉では分割と子の番号がnil
type NodeSummary struct {
	Index     int      `json:"index"`
	Depth     int      `json:"depth"`
	NSamples  int      `json:"n_samples"`
	Loss      float64  `json:"loss"`
	IsLeaf    bool     `json:"is_leaf"`
	Feature   *int     `json:"feature,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
	Left      *int     `json:"left,omitempty"`
	Right     *int     `json:"right,omitempty"`
}

// Structure は行きがけ順で各ノードの要約を返す
func (t *PolyTree) Structure() ([]NodeSummary, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.IsFitted() {
		return nil, errors.NewNotFittedError("PolyTree", "Structure")
	}
	var out []NodeSummary
	Walk(t.root, func(n Node) bool {
		s := NodeSummary{
			Index:    n.Index(),
			Depth:    n.Depth(),
			NSamples: n.NSamples(),
			Loss:     n.Loss(),
			IsLeaf:   n.IsLeaf(),
		}
		if in, ok := n.(*Internal); ok {
			feature, threshold := in.Feature, in.Threshold
			left, right := in.Left.Index(), in.Right.Index()
			s.Feature, s.Threshold = &feature, &threshold
			s.Left, s.Right = &left, &right
		}
		out = append(out, s)
		return true
	})
	return out, nil
}

// dotEscaper は DOT の引用符付き文字列で特別な意味を持つ文字をエスケープする
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

// WriteDot は木を Graphviz の DOT 形式で書き出す。featureNames は分割特徴量の
// 表示名で、nil なら x0, x1, ... を使う
func (t *PolyTree) WriteDot(w io.Writer, featureNames []string) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.IsFitted() {
		return errors.NewNotFittedError("PolyTree", "WriteDot")
	}
	if featureNames == nil {
		featureNames = make([]string, t.nFeatures_)
		for j := range featureNames {
			featureNames[j] = fmt.Sprintf("x%d", j)
		}
	}
	if len(featureNames) != t.nFeatures_ {
		return errors.NewDimensionError("PolyTree.WriteDot", t.nFeatures_, len(featureNames), 1)
	}

	bw := bufio.NewWriter(w)
	bw.WriteString("digraph g {\n")
	bw.WriteString("\tnode [shape=rectangle,height=.1,style=filled,color=black,fillcolor=white,fontcolor=black];\n")
	var edges []string
	Walk(t.root, func(n Node) bool {
		label := ""
		if in, ok := n.(*Internal); ok {
			label = fmt.Sprintf("%s <= %.4g\\n", dotEscaper.Replace(featureNames[in.Feature]), in.Threshold)
			edges = append(edges,
				fmt.Sprintf("\tnode%d -> node%d;\n", n.Index(), in.Left.Index()),
				fmt.Sprintf("\tnode%d -> node%d;\n", n.Index(), in.Right.Index()),
			)
		}
		label += fmt.Sprintf(" n_samples = %d\\n loss = %.6f", n.NSamples(), n.Loss())
		fmt.Fprintf(bw, "\tnode%d [label=\"%s\"];\n", n.Index(), label)
		return true
	})
	for _, e := range edges {
		bw.WriteString(e)
	}
	bw.WriteString("}\n")
	return bw.Flush()
}

// Leaves は葉の数を返す。Fit前は0
func (t *PolyTree) Leaves() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return countLeaves(t.root)
}

// NNodes はノード数を返す。Fit前は0
func (t *PolyTree) NNodes() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	Walk(t.root, func(Node) bool {
		n++
		return true
	})
	return n
}

// Depth は最も深いノードの深さを返す。Fit前は0
func (t *PolyTree) Depth() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return maxDepthOf(t.root)
}

// Events は直近のFitの構築ログのコピーを返す。logging が無効なら空
func (t *PolyTree) Events() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Event(nil), t.events...)
}
