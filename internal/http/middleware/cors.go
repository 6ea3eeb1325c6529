package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// ExposedHeaders are readable by browser clients on cross-origin responses.
var ExposedHeaders = []string{
	"X-Total-Count",
	"X-Page",
	"X-Page-Size",
	HeaderTraceID,
	HeaderRequestID,
}

func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", HeaderRequestID, HeaderTraceID},
		ExposeHeaders:    ExposedHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
}
