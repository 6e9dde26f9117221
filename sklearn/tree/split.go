package tree

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/polytree/pkg/errors"
	"github.com/YuminosukeSato/polytree/pkg/log"
	"github.com/YuminosukeSato/polytree/poly"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

const (
	// boundsEpsilon は定数特徴量の範囲を左右に広げる幅
	boundsEpsilon = 0.01
	// boundsTol 以内で min == max とみなす
	boundsTol = 1e-12
	// lossTieTol はノード自身の損失に対する相対値。これ以内の損失差は同点とみなす
	lossTieTol = 1e-12
	// lossNoiseUlps は出力の最大絶対値の何ulp分までの残差を丸め誤差とみなすか
	lossNoiseUlps = 1e3
)

var machineEps = math.Nextafter(1, 2) - 1

// nodeData はノード構築中だけ保持される学習データ
type nodeData struct {
	X *mat.Dense
	y []float64
}

func (d nodeData) rows() int { return len(d.y) }

// subset は指定した行だけを持つコピーを返す
func (d nodeData) subset(idx []int) nodeData {
	_, cols := d.X.Dims()
	X := mat.NewDense(len(idx), cols, nil)
	y := make([]float64, len(idx))
	for i, r := range idx {
		copy(X.RawRowView(i), d.X.RawRowView(r))
		y[i] = d.y[r]
	}
	return nodeData{X: X, y: y}
}

// partition は x[feature] <= threshold の行を左、残りを右に分ける。行の順序は保たれる
func (d nodeData) partition(feature int, threshold float64) (left, right nodeData) {
	var li, ri []int
	for i := 0; i < d.rows(); i++ {
		if d.X.At(i, feature) <= threshold {
			li = append(li, i)
		} else {
			ri = append(ri, i)
		}
	}
	return d.subset(li), d.subset(ri)
}

// featureBounds は各特徴量の観測範囲を返す。範囲が潰れている特徴量は
// boundsEpsilon だけ広げる
func featureBounds(X mat.Matrix) []poly.Bounds {
	n, d := X.Dims()
	col := make([]float64, n)
	bounds := make([]poly.Bounds, d)
	for j := 0; j < d; j++ {
		mat.Col(col, j, X)
		lo, hi := floats.Min(col), floats.Max(col)
		if scalar.EqualWithinAbsOrRel(lo, hi, boundsTol, boundsTol) {
			lo -= boundsEpsilon
			hi += boundsEpsilon
		}
		bounds[j] = poly.Bounds{Lower: lo, Upper: hi}
	}
	return bounds
}

// fitNode はデータ自身の範囲で多項式をフィットする
func fitNode(fitter poly.Fitter, data nodeData) (*poly.Poly, float64, error) {
	return fitter.Fit(data.X, data.y, featureBounds(data.X))
}

// childFit は分割候補の片側のデータとフィット結果
type childFit struct {
	data nodeData
	poly *poly.Poly
	loss float64
}

// split はSplitSearchが選んだ分割
type split struct {
	feature     int
	threshold   float64
	loss        float64
	left, right childFit
}

// evaluateSplit は左右それぞれに多項式をフィットし、サンプル数で重み付けした
// 損失を返す。どちらかのフィットが失敗したらそのエラーを返す
func evaluateSplit(fitter poly.Fitter, left, right nodeData) (float64, childFit, childFit, error) {
	pl, ll, err := fitNode(fitter, left)
	if err != nil {
		return 0, childFit{}, childFit{}, errors.Wrap(err, "fitting left partition")
	}
	pr, lr, err := fitNode(fitter, right)
	if err != nil {
		return 0, childFit{}, childFit{}, errors.Wrap(err, "fitting right partition")
	}
	nl, nr := float64(left.rows()), float64(right.rows())
	loss := (nl*ll + nr*lr) / (nl + nr)
	return loss, childFit{data: left, poly: pl, loss: ll}, childFit{data: right, poly: pr, loss: lr}, nil
}

// thresholds は1つの特徴量列に対する閾値候補を昇順で返す
func thresholds(col []float64, search Search, samples int) []float64 {
	switch search {
	case Uniform:
		count := samples
		if count > len(col) {
			count = len(col)
		}
		lo, hi := floats.Min(col), floats.Max(col)
		if count == 1 {
			return []float64{lo}
		}
		return floats.Span(make([]float64, count), lo, hi)
	default:
		vals := append([]float64(nil), col...)
		sort.Float64s(vals)
		out := vals[:0]
		for i, v := range vals {
			if i == 0 || v != out[len(out)-1] {
				out = append(out, v)
			}
		}
		return out
	}
}

// countLE は col のうち threshold 以下の要素数を返す
func countLE(col []float64, threshold float64) int {
	n := 0
	for _, v := range col {
		if v <= threshold {
			n++
		}
	}
	return n
}

// lossTie は改善とみなさない損失差の上限を返す。ノード損失に対する相対分と、
// 出力の表現精度で決まる丸め誤差分の和。y のオフセットには ulp の大きさでしか依存しない
func lossTie(nodeLoss float64, y []float64) float64 {
	noise := lossNoiseUlps * machineEps * floats.Norm(y, math.Inf(1))
	return lossTieTol*nodeLoss + noise*noise
}

// searchSplit はノードの損失を厳密に下回る最良の分割を探す。見つからなければnil。
// 同じ損失なら先に見つかった分割（特徴量番号・閾値の小さい方）が残る。
// lossTie 以下の差は同点として扱う
func (c *buildContext) searchSplit(node *nodeInfo, data nodeData) (*split, error) {
	if node.depth < 0 || node.depth >= c.tree.maxDepth {
		return nil, nil
	}

	n, d := data.X.Dims()
	tie := lossTie(node.loss, data.y)
	best := node.loss
	var found *split
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, data.X)
		for _, t := range thresholds(col, c.tree.search, c.tree.samples) {
			nl := countLE(col, t)
			if nl < c.tree.minSamplesLeaf || n-nl < c.tree.minSamplesLeaf {
				continue
			}

			left, right := data.partition(j, t)
			loss, lf, rf, err := evaluateSplit(c.fitter, left, right)
			if err != nil {
				if errors.IsFitFailure(err) {
					c.logger.Debug("skipping split candidate",
						log.NodeKey, node.index,
						log.FeatureKey, j,
						log.ThresholdKey, t,
						log.ErrAttrKey, err,
					)
					continue
				}
				return nil, err
			}

			if best-loss > tie {
				best = loss
				found = &split{feature: j, threshold: t, loss: loss, left: lf, right: rf}
				c.record(SplitAccepted{Node: node.index, Feature: j, Threshold: t, Loss: loss})
			} else {
				c.record(SplitTried{Node: node.index, Feature: j, Threshold: t, Loss: loss})
			}
		}
	}
	return found, nil
}
