package mcpsrv

import (
	"github.com/usestring/jsontypegen/internal/cache"
	"github.com/usestring/jsontypegen/internal/config"
)

// Deps contains all dependencies available to custom tools.
// Custom tools share the builtin tools' configuration and result cache.
type Deps struct {
	Config *config.Config
	Cache  *cache.ResultCache
}
