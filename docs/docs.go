// Package docs embeds the OpenAPI description of the API.
package docs

import _ "embed"

//go:embed swagger.yml
var Swagger []byte
