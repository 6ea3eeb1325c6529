package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/catalog-backend/internal/http/response"
	"github.com/yungbote/catalog-backend/internal/platform/apierr"
	"github.com/yungbote/catalog-backend/internal/platform/ctxutil"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

// Recovery turns handler panics into the standard 500 error envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if log != nil {
			fields := append([]interface{}{"path", c.Request.URL.Path, "panic", fmt.Sprint(recovered)}, ctxutil.LogFields(c.Request.Context())...)
			log.Error("handler panic", fields...)
		}
		response.RespondError(c, http.StatusInternalServerError, apierr.CodeInternal, fmt.Errorf("internal server error"))
	})
}
