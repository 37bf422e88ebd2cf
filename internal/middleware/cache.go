package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/cronograma-api/pkg/response"
)

const (
	cacheHitKey        = "cache_hit"
	datasetVersionKey  = "dataset_version"
	datasetVersionHead = "X-Dataset-Version"
)

type versionSource interface {
	Info() (string, bool)
}

// VersionFunc adapts a function to a dataset version source.
type VersionFunc func() (string, bool)

// Info returns the active version.
func (f VersionFunc) Info() (string, bool) { return f() }

// DatasetVersion stamps responses with the active dataset version so clients
// can tell when an import replaced the data.
func DatasetVersion(source versionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if version, ok := source.Info(); ok {
			c.Header(datasetVersionHead, version)
			response.SetMeta(c, datasetVersionKey, version)
		}
		c.Next()
	}
}

// SetCacheHit records cache hit information for the current response.
func SetCacheHit(c *gin.Context, hit bool) {
	response.SetMeta(c, cacheHitKey, hit)
}
