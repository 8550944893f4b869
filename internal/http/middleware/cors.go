package middleware

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS opens every route to any origin; the quiz front end is served from
// several storefront domains.
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:              []string{"Origin", "Content-Type", "Accept", "X-Requested-With", headerRequestID, headerSessionID},
		ExposeHeaders:             []string{headerTraceID, headerRequestID, headerSessionID},
		OptionsResponseStatusCode: http.StatusOK,
	})
}

// Preflight answers any OPTIONS request that reached it with 200, including
// ones sent without an Origin header.
func Preflight() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
