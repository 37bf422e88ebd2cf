package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/cronograma-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data  interface{}            `json:"data,omitempty"`
	Error *appErrors.Error       `json:"error,omitempty"`
	Meta  map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional metadata.
func JSON(c *gin.Context, status int, data interface{}, meta map[string]interface{}) {
	noStore(c)
	c.JSON(status, Envelope{Data: data, Meta: mergeMeta(c, meta)})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Accepted responds with HTTP 202 Accepted.
func Accepted(c *gin.Context, data interface{}) {
	JSON(c, http.StatusAccepted, data, nil)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// Attachment streams a file body with a download filename.
func Attachment(c *gin.Context, filename, contentType string, body []byte) {
	noStore(c)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}

// SetMeta stores a key that will be merged into the envelope meta of the
// current request.
func SetMeta(c *gin.Context, key string, value interface{}) {
	existing, _ := c.Get(metaContextKey)
	meta, ok := existing.(map[string]interface{})
	if !ok {
		meta = map[string]interface{}{}
	}
	meta[key] = value
	c.Set(metaContextKey, meta)
}

const metaContextKey = "response_meta"

func mergeMeta(c *gin.Context, meta map[string]interface{}) map[string]interface{} {
	existing, _ := c.Get(metaContextKey)
	stored, _ := existing.(map[string]interface{})
	if len(stored) == 0 {
		if len(meta) == 0 {
			return nil
		}
		return meta
	}
	merged := make(map[string]interface{}, len(stored)+len(meta))
	for k, v := range stored {
		merged[k] = v
	}
	for k, v := range meta {
		merged[k] = v
	}
	return merged
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
