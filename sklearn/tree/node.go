package tree

import "github.com/YuminosukeSato/polytree/poly"

// Node は学習済み PolyTree のノード。*Leaf か *Internal のどちらか
type Node interface {
	// Index は構築順の番号（根が0）。表示用
	Index() int
	// Depth は根からの距離
	Depth() int
	// Poly はノード自身の学習行でフィットした多項式
	Poly() *poly.Poly
	// Loss は Poly の学習データ上のMSE
	Loss() float64
	// NSamples はノードに到達した学習行の数
	NSamples() int
	IsLeaf() bool

	isNode()
}

// nodeInfo は全ノード共通のフィールド
type nodeInfo struct {
	index    int
	depth    int
	poly     *poly.Poly
	loss     float64
	nSamples int
}

func (n *nodeInfo) Index() int       { return n.index }
func (n *nodeInfo) Depth() int       { return n.depth }
func (n *nodeInfo) Poly() *poly.Poly { return n.poly }
func (n *nodeInfo) Loss() float64    { return n.loss }
func (n *nodeInfo) NSamples() int    { return n.nSamples }
func (n *nodeInfo) isNode()          {}

// Leaf は終端ノード。その多項式が担当領域のモデルになる
type Leaf struct {
	nodeInfo
}

// IsLeaf は Node の実装
func (*Leaf) IsLeaf() bool { return true }

// Internal は分割ノード。x[Feature] <= Threshold の行が Left、それ以外が Right に
// 進む。子は常に両方ある
type Internal struct {
	nodeInfo
	Feature   int
	Threshold float64
	Left      Node
	Right     Node
}

// IsLeaf は Node の実装
func (*Internal) IsLeaf() bool { return false }

// child は x が進む子を返す
func (n *Internal) child(x []float64) Node {
	if x[n.Feature] <= n.Threshold {
		return n.Left
	}
	return n.Right
}

// route は node から x が落ちる葉まで下る
func route(node Node, x []float64) *Leaf {
	for {
		switch n := node.(type) {
		case *Leaf:
			return n
		case *Internal:
			node = n.child(x)
		}
	}
}
