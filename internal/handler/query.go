package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// listQuery reads a list parameter given either repeated (?g=A&g=B) or
// comma separated (?g=A,B).
func listQuery(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
