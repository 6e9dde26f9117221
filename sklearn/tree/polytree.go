// Package tree は葉に定数ではなく直交多項式の最小二乗フィットを持つ回帰木
// PolyTree を提供する。
//
// 各ノードは自分の行で多項式をフィットする。子のMSEをサンプル数で重み付けした値が
// 最小の (特徴量, 閾値) で分割し、それがノード自身のMSEを厳密に下回るときだけ
// 採用する。MaxDepth に達するか、両側に MinSamplesLeaf 行を残す分割がなければ
// 成長を止める。
//
//	tree, err := tree.NewPolyTree(tree.WithMaxDepth(3), tree.WithOrder(2))
//	if err != nil {
//		return err
//	}
//	if err := tree.Fit(X, y); err != nil {
//		return err
//	}
//	yPred, err := tree.Predict(XTest)
package tree

import (
	"fmt"
	"sync"
	"time"

	"github.com/YuminosukeSato/polytree/core/model"
	"github.com/YuminosukeSato/polytree/core/parallel"
	"github.com/YuminosukeSato/polytree/metrics"
	"github.com/YuminosukeSato/polytree/pkg/errors"
	"github.com/YuminosukeSato/polytree/pkg/log"
	"github.com/YuminosukeSato/polytree/poly"
	"gonum.org/v1/gonum/mat"
)

var (
	_ model.Regressor       = (*PolyTree)(nil)
	_ model.ParameterGetter = (*PolyTree)(nil)
	_ model.ParameterSetter = (*PolyTree)(nil)
)

// predictParallelThreshold 以下の行数では予測を逐次実行する
const predictParallelThreshold = 256

// PolyTree は区分多項式回帰木
type PolyTree struct {
	model.BaseEstimator

	// ハイパーパラメータ
	maxDepth       int         // 最大深さ
	minSamplesLeaf int         // 葉の最小サンプル数
	order          int         // 多項式の次数
	basis          poly.Basis  // インデックス集合
	search         Search      // 閾値探索方法
	samples        int         // Uniform探索の候補数
	logging        bool        // 構築イベントを記録するか
	nJobs          int         // 予測ワーカー数
	fitter         poly.Fitter // nilならLeastSquares

	// 学習結果
	root       Node
	events     []Event
	nFeatures_ int

	mu sync.RWMutex
}

// NewPolyTree はオプションを適用し、検証済みのPolyTreeを返す
func NewPolyTree(opts ...Option) (*PolyTree, error) {
	t := &PolyTree{
		maxDepth:       DefaultMaxDepth,
		minSamplesLeaf: DefaultMinSamplesLeaf,
		order:          DefaultOrder,
		basis:          DefaultBasis,
		search:         DefaultSearch,
		samples:        DefaultSamples,
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *PolyTree) newFitter() poly.Fitter {
	if t.fitter != nil {
		return t.fitter
	}
	return &poly.LeastSquares{Order: t.order, Basis: t.basis}
}

// Fit は木を構築する。既存の木は置き換えられ、失敗した場合は未学習状態に戻る
func (t *PolyTree) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "PolyTree.Fit")

	t.mu.Lock()
	defer t.mu.Unlock()

	t.Reset()
	t.root, t.events, t.nFeatures_ = nil, nil, 0

	data, err := trainingData(X, y)
	if err != nil {
		return err
	}
	rows, cols := data.X.Dims()

	logger := log.GetLoggerWithName("tree.polytree")
	logger.Info("fitting polynomial tree",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.OrderKey, t.order,
		log.BasisKey, string(t.basis),
	)
	start := time.Now()

	ctx := newBuildContext(t, t.newFitter(), logger)
	p, loss, err := fitNode(ctx.fitter, data)
	if err != nil {
		logger.Error("root polynomial fit failed", log.ErrAttrKey, err)
		return errors.Wrap(err, "fitting root polynomial")
	}
	root, err := ctx.grow(data, p, loss, 0)
	if err != nil {
		return err
	}

	t.root = root
	t.events = ctx.events
	t.nFeatures_ = cols
	t.SetFitted()

	logger.Info("polynomial tree fitted",
		log.OperationKey, log.OperationFit,
		log.LeavesKey, countLeaves(root),
		log.DepthKey, maxDepthOf(root),
		log.LossKey, loss,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// trainingData は入力を検証し、構築用のコピーを作る
func trainingData(X, y mat.Matrix) (nodeData, error) {
	rows, cols := X.Dims()
	yRows, yCols := y.Dims()
	if rows == 0 || cols == 0 {
		return nodeData{}, errors.NewModelError("PolyTree.Fit", "empty data", errors.ErrEmptyData)
	}
	if rows != yRows {
		return nodeData{}, errors.NewDimensionError("PolyTree.Fit", rows, yRows, 0)
	}
	if yCols != 1 {
		return nodeData{}, errors.NewDimensionError("PolyTree.Fit", 1, yCols, 1)
	}

	if err := errors.CheckMatrix("X", X, rows, cols); err != nil {
		return nodeData{}, errors.NewValueError("PolyTree.Fit", fmt.Sprintf("input X must be finite: %v", err))
	}
	yv := mat.Col(nil, 0, y)
	if err := errors.CheckNumericalStability("y", yv, 0); err != nil {
		return nodeData{}, errors.NewValueError("PolyTree.Fit", fmt.Sprintf("target y must be finite: %v", err))
	}
	return nodeData{X: mat.DenseCopyOf(X), y: yv}, nil
}

// Predict は各行を葉までたどり、葉の多項式で評価する。結果は (rows, 1)
func (t *PolyTree) Predict(X mat.Matrix) (_ mat.Matrix, err error) {
	defer errors.Recover(&err, "PolyTree.Predict")

	t.mu.RLock()
	defer t.mu.RUnlock()

	rows, err := t.checkInput(X, "Predict")
	if err != nil {
		return nil, err
	}

	out := make([]float64, rows)
	t.eachRow(X, func(i int, x []float64) {
		out[i] = route(t.root, x).Poly().EvaluatePoint(x)
	})
	return mat.NewDense(rows, 1, out), nil
}

// Apply は各行が到達する葉のインデックスを返す
func (t *PolyTree) Apply(X mat.Matrix) (_ []int, err error) {
	defer errors.Recover(&err, "PolyTree.Apply")

	t.mu.RLock()
	defer t.mu.RUnlock()

	rows, err := t.checkInput(X, "Apply")
	if err != nil {
		return nil, err
	}

	out := make([]int, rows)
	t.eachRow(X, func(i int, x []float64) {
		out[i] = route(t.root, x).Index()
	})
	return out, nil
}

func (t *PolyTree) checkInput(X mat.Matrix, method string) (int, error) {
	if !t.IsFitted() {
		return 0, errors.NewNotFittedError("PolyTree", method)
	}
	rows, cols := X.Dims()
	if cols != t.nFeatures_ {
		return 0, errors.NewDimensionError("PolyTree."+method, t.nFeatures_, cols, 1)
	}
	if rows == 0 {
		return 0, errors.NewModelError("PolyTree."+method, "empty data", errors.ErrEmptyData)
	}
	return rows, nil
}

// eachRow は行ごとに fn を呼ぶ。行数が多ければ nJobs 個のワーカーに分ける。
// 木は読み取り専用なので行間で共有する可変状態はない
func (t *PolyTree) eachRow(X mat.Matrix, fn func(i int, x []float64)) {
	rows, cols := X.Dims()
	parallel.ParallelizeWithThreshold(rows, predictParallelThreshold, t.nJobs, func(start, end int) {
		x := make([]float64, cols)
		for i := start; i < end; i++ {
			mat.Row(x, i, X)
			fn(i, x)
		}
	})
}

// Score は決定係数（R²）を返す
func (t *PolyTree) Score(X, y mat.Matrix) (float64, error) {
	yTrue, yPred, err := t.predictColumn(X, y, "Score")
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(yTrue, yPred)
}

// Evaluation は予測誤差の要約
type Evaluation struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
}

// Evaluate は X に対する予測を y と比較し、MSE・RMSE・MAE・R² をまとめて返す。
// y の分散が0のとき R² は定義されないのでエラーになる
func (t *PolyTree) Evaluate(X, y mat.Matrix) (Evaluation, error) {
	yTrue, yPred, err := t.predictColumn(X, y, "Evaluate")
	if err != nil {
		return Evaluation{}, err
	}

	var ev Evaluation
	if ev.MSE, err = metrics.MSE(yTrue, yPred); err != nil {
		return Evaluation{}, err
	}
	if ev.RMSE, err = metrics.RMSE(yTrue, yPred); err != nil {
		return Evaluation{}, err
	}
	if ev.MAE, err = metrics.MAE(yTrue, yPred); err != nil {
		return Evaluation{}, err
	}
	if ev.R2, err = metrics.R2Score(yTrue, yPred); err != nil {
		return Evaluation{}, err
	}

	log.GetLoggerWithName("tree.polytree").Debug("evaluated polynomial tree",
		log.OperationKey, log.OperationScore,
		log.SamplesKey, yTrue.Len(),
		log.RMSEKey, ev.RMSE,
		log.MAEKey, ev.MAE,
		log.R2ScoreKey, ev.R2,
	)
	return ev, nil
}

// predictColumn は X を予測し、1列の y と並べたベクトルを返す
func (t *PolyTree) predictColumn(X, y mat.Matrix, method string) (*mat.VecDense, *mat.VecDense, error) {
	pred, err := t.Predict(X)
	if err != nil {
		return nil, nil, err
	}
	rows, yCols := y.Dims()
	if yCols != 1 {
		return nil, nil, errors.NewDimensionError("PolyTree."+method, 1, yCols, 1)
	}
	predRows, _ := pred.Dims()
	if rows != predRows {
		return nil, nil, errors.NewDimensionError("PolyTree."+method, predRows, rows, 0)
	}
	yTrue := mat.NewVecDense(rows, mat.Col(nil, 0, y))
	yPred := mat.NewVecDense(rows, mat.Col(nil, 0, pred))
	return yTrue, yPred, nil
}

// GetParams はハイパーパラメータを返す
func (t *PolyTree) GetParams() map[string]interface{} {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return map[string]interface{}{
		"max_depth":        t.maxDepth,
		"min_samples_leaf": t.minSamplesLeaf,
		"order":            t.order,
		"basis":            string(t.basis),
		"search":           string(t.search),
		"samples":          t.samples,
		"logging":          t.logging,
		"n_jobs":           t.nJobs,
	}
}

// SetParams はハイパーパラメータを変更する。全体を検証してから反映するので、
// エラー時には何も変わらない。学習済みの木は次のFitまでそのまま
func (t *PolyTree) SetParams(params map[string]interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := &PolyTree{
		maxDepth:       t.maxDepth,
		minSamplesLeaf: t.minSamplesLeaf,
		order:          t.order,
		basis:          t.basis,
		search:         t.search,
		samples:        t.samples,
		logging:        t.logging,
		nJobs:          t.nJobs,
	}
	for key, value := range params {
		if err := next.setParam(key, value); err != nil {
			return err
		}
	}
	if err := next.validate(); err != nil {
		return err
	}

	t.maxDepth = next.maxDepth
	t.minSamplesLeaf = next.minSamplesLeaf
	t.order = next.order
	t.basis = next.basis
	t.search = next.search
	t.samples = next.samples
	t.logging = next.logging
	t.nJobs = next.nJobs
	return nil
}

func (t *PolyTree) setParam(key string, value interface{}) error {
	var ok bool
	switch key {
	case "max_depth":
		t.maxDepth, ok = value.(int)
	case "min_samples_leaf":
		t.minSamplesLeaf, ok = value.(int)
	case "order":
		t.order, ok = value.(int)
	case "samples":
		t.samples, ok = value.(int)
	case "n_jobs":
		t.nJobs, ok = value.(int)
	case "logging":
		t.logging, ok = value.(bool)
	case "basis":
		var s string
		if s, ok = value.(string); ok {
			t.basis = poly.Basis(s)
		}
	case "search":
		var s string
		if s, ok = value.(string); ok {
			t.search = Search(s)
		}
	default:
		return errors.NewValidationError(key, "unknown parameter", value)
	}
	if !ok {
		return errors.NewValidationError(key, fmt.Sprintf("unexpected type %T", value), value)
	}
	return nil
}
