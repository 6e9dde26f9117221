// Package polytree provides piecewise-polynomial regression trees for Go.
//
// A PolyTree recursively partitions the input space like a regression tree,
// but every leaf holds an orthogonal-polynomial least-squares fit on its own
// region instead of a constant. It is useful as a cheap surrogate model for
// functions that are smooth on pieces of the domain and change regime across
// thresholds.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/polytree/sklearn/tree"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(8, 1, []float64{0, 1, 2, 3, 10, 11, 12, 13})
//	    y := mat.NewDense(8, 1, []float64{0, 1, 2, 3, 110, 111, 112, 113})
//
//	    model, err := tree.NewPolyTree(
//	        tree.WithMaxDepth(2),
//	        tree.WithMinSamplesLeaf(2),
//	        tree.WithOrder(1),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := model.Predict(mat.NewDense(2, 1, []float64{1.5, 11.5}))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(pred))
//	}
//
// # Packages
//
//   - sklearn/tree: PolyTree estimator (Fit, Predict, Apply, Score, introspection)
//   - poly: Legendre bases, isotropic index sets and the least-squares fitter
//   - metrics: Evaluation metrics (MSE, RMSE, MAE, R²)
//   - core/model: Core interfaces and base types
//   - core/parallel: Parallel processing utilities
//   - pkg/errors: Structured errors on top of cockroachdb/errors
//   - pkg/log: Logger interface with a zerolog backend
//   - pkg/chart: gonum/plot rendering of one-dimensional fits
//
// # Configuration
//
// Hyperparameters can be given as functional options or loaded from YAML:
//
//	cfg, err := tree.LoadConfig(strings.NewReader("max_depth: 3\norder: 2\n"))
//	model, err := tree.NewFromConfig(cfg)
//
// # License
//
// polytree is released under the MIT License.
package polytree
