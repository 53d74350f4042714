package tools

import (
	"github.com/usestring/jsontypegen/internal/cache"
	"github.com/usestring/jsontypegen/internal/config"
	"github.com/usestring/jsontypegen/pkg/sample"
	"github.com/usestring/jsontypegen/pkg/typegen"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config *config.Config
	Cache  *cache.ResultCache
}

// generate runs one cached generation and codes its failure.
func (d *Deps) generate(name string, opts typegen.Options, inputs []sample.Input) (*typegen.Result, bool, error) {
	res, cached, err := d.Cache.Generate(cache.Request{Name: name, Options: opts, Inputs: inputs})
	if err != nil {
		return nil, false, WrapGenerateError(err)
	}
	return res, cached, nil
}

// defaults returns the environment's generation options.
func (d *Deps) defaults() typegen.Options {
	if d.Config == nil {
		return typegen.Options{}
	}
	return d.Config.GenerateOptions()
}
