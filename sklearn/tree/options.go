package tree

import (
	"github.com/YuminosukeSato/polytree/pkg/errors"
	"github.com/YuminosukeSato/polytree/poly"
)

// Search は分割閾値の候補生成方法
type Search string

const (
	// Exhaustive は各特徴量に現れる全ての値を閾値候補とする
	Exhaustive Search = "exhaustive"
	// Uniform は各特徴量の観測範囲を等間隔に区切った値を閾値候補とする
	Uniform Search = "uniform"
)

// ParseSearch は探索方法の名前を Search に変換する
func ParseSearch(name string) (Search, error) {
	switch Search(name) {
	case Exhaustive, Uniform:
		return Search(name), nil
	}
	return "", errors.NewValidationError("search", "must be 'exhaustive' or 'uniform'", name)
}

// デフォルトのハイパーパラメータ
const (
	DefaultMaxDepth       = 5
	DefaultMinSamplesLeaf = 10
	DefaultOrder          = 3
	DefaultBasis          = poly.TensorGrid
	DefaultSearch         = Exhaustive
	DefaultSamples        = 10
)

// Option はPolyTreeの設定オプション
type Option func(*PolyTree)

// WithMaxDepth は木の最大深さを設定（0なら根のみ）
func WithMaxDepth(depth int) Option {
	return func(t *PolyTree) {
		t.maxDepth = depth
	}
}

// WithMinSamplesLeaf は葉ノードの最小サンプル数を設定
func WithMinSamplesLeaf(n int) Option {
	return func(t *PolyTree) {
		t.minSamplesLeaf = n
	}
}

// WithOrder は各ノードで使う多項式の次数を設定
func WithOrder(order int) Option {
	return func(t *PolyTree) {
		t.order = order
	}
}

// WithBasis は多項式のインデックス集合を設定
func WithBasis(basis poly.Basis) Option {
	return func(t *PolyTree) {
		t.basis = basis
	}
}

// WithSearch は閾値探索方法を設定
func WithSearch(search Search) Option {
	return func(t *PolyTree) {
		t.search = search
	}
}

// WithSamples はUniform探索で各特徴量に置く閾値候補の数を設定
func WithSamples(n int) Option {
	return func(t *PolyTree) {
		t.samples = n
	}
}

// WithLogging は構築イベントの記録を有効化
func WithLogging(enabled bool) Option {
	return func(t *PolyTree) {
		t.logging = enabled
	}
}

// WithNJobs は予測時のワーカー数を設定（0以下なら全コア）
func WithNJobs(n int) Option {
	return func(t *PolyTree) {
		t.nJobs = n
	}
}

// WithFitter は多項式フィッタを差し替える。nilならOrderとBasisから
// poly.LeastSquaresを構築する
func WithFitter(f poly.Fitter) Option {
	return func(t *PolyTree) {
		t.fitter = f
	}
}

// validate はハイパーパラメータを検証する
func (t *PolyTree) validate() error {
	if t.maxDepth < 0 {
		return errors.NewValidationError("max_depth", "must be non-negative", t.maxDepth)
	}
	if t.minSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_leaf", "must be a positive integer", t.minSamplesLeaf)
	}
	if t.order < 1 {
		return errors.NewValidationError("order", "must be a positive integer", t.order)
	}
	if err := t.basis.Validate(); err != nil {
		return err
	}
	if _, err := ParseSearch(string(t.search)); err != nil {
		return err
	}
	if t.samples < 1 {
		return errors.NewValidationError("samples", "must be a positive integer", t.samples)
	}
	return nil
}
