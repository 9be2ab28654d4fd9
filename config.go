// Copyright (c) 2024 The netsmith authors
//
// MIT License

package bdd

import (
	"fmt"

	yaml "gopkg.in/yaml.v2"
)

// configs stores the values of the different initialization parameters.
type configs struct {
	nodenum         int     // initial number of slots in the node table
	cachesize       int     // initial operator cache size
	cacheratio      int     // table slots per cache entry (0 if the size is fixed)
	minfree         float64 // post-GC free fraction under which the table grows
	increase        float64 // table growth multiplier
	maxnodesize     int     // maximum total number of nodes (0 if no limit)
	maxnodeincrease int     // maximum number of nodes added by one resize (0 if no limit)
}

func makeconfigs(nodenum, cachesize int) *configs {
	if nodenum < 4 {
		nodenum = 4
	}
	if cachesize <= 0 {
		cachesize = _DEFCACHESIZE
	}
	return &configs{
		nodenum:         nodenum,
		cachesize:       cachesize,
		minfree:         _DEFMINFREE,
		increase:        _DEFINCREASE,
		maxnodeincrease: _DEFNODEINC,
	}
}

// Option configures a factory at initialization time. Every option has a
// matching setter for later adjustments.
type Option func(*configs)

// MinFreeNodes sets the fraction of the table, in [0,1], that must be left
// free after a garbage collection. Values outside the range are ignored.
func MinFreeNodes(ratio float64) Option {
	return func(c *configs) {
		if ratio >= 0 && ratio <= 1 {
			c.minfree = ratio
		}
	}
}

// IncreaseFactor sets the multiplier applied to the node table size when a
// collection does not reclaim enough space. Values below 1 are ignored.
func IncreaseFactor(x float64) Option {
	return func(c *configs) {
		if x >= 1 {
			c.increase = x
		}
	}
}

// CacheRatio asks for one operator-cache entry per ratio node-table slots,
// so that caches grow with the table. The default (0) keeps the cache size
// fixed.
func CacheRatio(ratio int) Option {
	return func(c *configs) {
		if ratio >= 0 {
			c.cacheratio = ratio
		}
	}
}

// MaxNodeSize limits the total number of nodes in the table; 0 means no
// limit, in which case allocation can panic when the available memory is
// exhausted.
func MaxNodeSize(size int) Option {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// MaxNodeIncrease limits the number of slots added by a single resize. The
// default is about a million nodes; 0 removes the limit.
func MaxNodeIncrease(size int) Option {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Config is the initialization envelope recognized by InitConfig. The zero
// value of a field selects the engine default.
type Config struct {
	Package        string  `yaml:"package"`
	NodeNum        int     `yaml:"nodenum"`
	CacheSize      int     `yaml:"cachesize"`
	MinFreeNodes   float64 `yaml:"minfreenodes"`
	IncreaseFactor float64 `yaml:"increasefactor"`
	CacheRatio     int     `yaml:"cacheratio"`
	MaxNodeSize    int     `yaml:"maxnodesize"`
	VarNum         int     `yaml:"varnum"`
}

// ParseConfig decodes and validates a YAML configuration envelope.
func ParseConfig(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("cannot decode configuration: %v: %w", err, ErrConfiguration)
	}
	if c.MinFreeNodes < 0 || c.MinFreeNodes > 1 {
		return nil, fmt.Errorf("min free nodes (%g) outside [0,1]: %w", c.MinFreeNodes, ErrConfiguration)
	}
	if c.IncreaseFactor != 0 && c.IncreaseFactor < 1 {
		return nil, fmt.Errorf("increase factor (%g) below 1: %w", c.IncreaseFactor, ErrConfiguration)
	}
	if c.CacheRatio < 0 {
		return nil, fmt.Errorf("negative cache ratio (%d): %w", c.CacheRatio, ErrConfiguration)
	}
	if c.VarNum < 0 || int32(c.VarNum) > _MAXVAR {
		return nil, fmt.Errorf("bad number of variables (%d): %w", c.VarNum, ErrConfiguration)
	}
	return c, nil
}

// InitConfig builds a factory from a configuration envelope, typically one
// read from a YAML file with ParseConfig.
func InitConfig(c *Config) (*Factory, error) {
	opts := []Option{}
	if c.MinFreeNodes != 0 {
		opts = append(opts, MinFreeNodes(c.MinFreeNodes))
	}
	if c.IncreaseFactor != 0 {
		opts = append(opts, IncreaseFactor(c.IncreaseFactor))
	}
	if c.CacheRatio != 0 {
		opts = append(opts, CacheRatio(c.CacheRatio))
	}
	if c.MaxNodeSize != 0 {
		opts = append(opts, MaxNodeSize(c.MaxNodeSize))
	}
	f := Init(c.Package, c.NodeNum, c.CacheSize, opts...)
	if c.VarNum > 0 {
		if _, err := f.SetVarNum(c.VarNum); err != nil {
			return nil, err
		}
	}
	return f, nil
}
