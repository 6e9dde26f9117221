package tree

import (
	"io"

	"github.com/YuminosukeSato/polytree/pkg/errors"
	"github.com/YuminosukeSato/polytree/poly"
	"gopkg.in/yaml.v3"
)

// Config は PolyTree のハイパーパラメータの YAML 表現
//
//	max_depth: 4
//	min_samples_leaf: 5
//	order: 2
//	basis: total-order
//	search: uniform
//	samples: 20
type Config struct {
	MaxDepth       int    `yaml:"max_depth"`
	MinSamplesLeaf int    `yaml:"min_samples_leaf"`
	Order          int    `yaml:"order"`
	Basis          string `yaml:"basis"`
	Search         string `yaml:"search"`
	Samples        int    `yaml:"samples"`
	Logging        bool   `yaml:"logging"`
	NJobs          int    `yaml:"n_jobs"`
}

// DefaultConfig はデフォルトのハイパーパラメータを返す
func DefaultConfig() Config {
	return Config{
		MaxDepth:       DefaultMaxDepth,
		MinSamplesLeaf: DefaultMinSamplesLeaf,
		Order:          DefaultOrder,
		Basis:          string(DefaultBasis),
		Search:         string(DefaultSearch),
		Samples:        DefaultSamples,
	}
}

// LoadConfig は DefaultConfig の上に YAML 文書をデコードする。未知のキーは
// エラーになり、空の文書ならデフォルトのまま
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "decoding polytree config")
	}
	return cfg, nil
}

// Options は設定をコンストラクタのオプションに変換する
func (c Config) Options() ([]Option, error) {
	basis, err := poly.ParseBasis(c.Basis)
	if err != nil {
		return nil, err
	}
	search, err := ParseSearch(c.Search)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithMaxDepth(c.MaxDepth),
		WithMinSamplesLeaf(c.MinSamplesLeaf),
		WithOrder(c.Order),
		WithBasis(basis),
		WithSearch(search),
		WithSamples(c.Samples),
		WithLogging(c.Logging),
		WithNJobs(c.NJobs),
	}, nil
}

// NewFromConfig は cfg から PolyTree を作る。追加のオプションは設定の後に
// 適用されるので優先される
func NewFromConfig(cfg Config, opts ...Option) (*PolyTree, error) {
	base, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return NewPolyTree(append(base, opts...)...)
}
