package tree

import (
	"github.com/YuminosukeSato/polytree/pkg/log"
	"github.com/YuminosukeSato/polytree/poly"
)

// buildContext は1回のFitの間だけ生きる構築状態。再帰呼び出しにポインタで渡す
type buildContext struct {
	tree      *PolyTree // ハイパーパラメータの参照のみ
	fitter    poly.Fitter
	logger    log.Logger
	nextIndex int
	logging   bool
	events    []Event
}

func newBuildContext(t *PolyTree, fitter poly.Fitter, logger log.Logger) *buildContext {
	return &buildContext{
		tree:    t,
		fitter:  fitter,
		logger:  logger,
		logging: t.logging,
	}
}

// record はloggingが有効なときだけイベントを追加する
func (c *buildContext) record(e Event) {
	if c.logging {
		c.events = append(c.events, e)
	}
}

// grow はフィット済みのノードを確定させる。改善する分割があれば左部分木を
// 完成させてから右部分木を作る。番号は親、左部分木、右部分木の順に振られる
func (c *buildContext) grow(data nodeData, p *poly.Poly, loss float64, depth int) (Node, error) {
	info := nodeInfo{
		index:    c.nextIndex,
		depth:    depth,
		poly:     p,
		loss:     loss,
		nSamples: data.rows(),
	}
	c.nextIndex++

	s, err := c.searchSplit(&info, data)
	if err != nil {
		return nil, err
	}
	if s == nil {
		c.logger.Debug("leaf",
			log.NodeKey, info.index,
			log.DepthKey, depth,
			log.SamplesKey, info.nSamples,
			log.LossKey, loss,
		)
		c.record(Ascend{Node: info.index})
		return &Leaf{nodeInfo: info}, nil
	}

	c.logger.Debug("split",
		log.NodeKey, info.index,
		log.DepthKey, depth,
		log.FeatureKey, s.feature,
		log.ThresholdKey, s.threshold,
		log.LossKey, s.loss,
	)
	// ここから先は data を参照しない。子はそれぞれ分割済みのコピーを持つ
	node := &Internal{nodeInfo: info, Feature: s.feature, Threshold: s.threshold}
	left, right := s.left, s.right

	c.record(Descend{Direction: Left, Feature: node.Feature, Threshold: node.Threshold})
	if node.Left, err = c.grow(left.data, left.poly, left.loss, depth+1); err != nil {
		return nil, err
	}
	c.record(Descend{Direction: Right, Feature: node.Feature, Threshold: node.Threshold})
	if node.Right, err = c.grow(right.data, right.poly, right.loss, depth+1); err != nil {
		return nil, err
	}
	c.record(Ascend{Node: info.index})
	return node, nil
}
