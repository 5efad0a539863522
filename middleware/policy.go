package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alvinsyah/goblog/utils"
)

// AccessPolicy maps "METHOD /route/path" to the role names allowed to
// continue. Routes absent from the table are open to any authenticated user.
type AccessPolicy map[string][]string

// Authorize evaluates the access policy for the matched route. It must run
// after AuthRequired has attached an identity with a resolved role.
func Authorize(policy AccessPolicy) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		allowed, restricted := policy[ctx.Request.Method+" "+ctx.FullPath()]
		if !restricted {
			ctx.Next()
			return
		}

		role := RoleName(ctx)
		if role == "" {
			utils.Fail(ctx, http.StatusForbidden, "you do not have permission to access this resource")
			ctx.Abort()
			return
		}

		for _, name := range allowed {
			if name == role {
				ctx.Next()
				return
			}
		}

		utils.Fail(ctx, http.StatusForbidden, fmt.Sprintf("you do not have permission to access this resource (role: %s)", role))
		ctx.Abort()
	}
}
