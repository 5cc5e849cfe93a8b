// Package docs embeds the OpenAPI description served at /openapi.yaml and
// rendered by the Swagger UI.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed openapi.yaml
var OpenAPI []byte

// Handler serves the raw OpenAPI document.
func Handler(c *gin.Context) {
	c.Data(http.StatusOK, "application/yaml", OpenAPI)
}
