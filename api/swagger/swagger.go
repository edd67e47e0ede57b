// Package swagger embeds the OpenAPI document served by the HTTP API.
package swagger

import _ "embed"

//go:embed user.swagger.json
var UserSpec []byte
