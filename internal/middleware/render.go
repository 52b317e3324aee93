package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/pkg/validation"
)

// Render executes an HTML template with the values every page expects:
// the current identity, pending flash messages and the request path.
func Render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if _, ok := data["Errors"]; !ok {
		data["Errors"] = validation.Errors(nil)
	}

	identity := CurrentIdentity(c)
	data["Identity"] = identity
	data["LoggedIn"] = identity.Authenticated()
	data["Path"] = c.Request.URL.Path
	data["Flashes"] = PopFlashes(c)

	c.HTML(status, name, data)
}
