package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidalaw/intake-api/app/core"
	v1 "github.com/vidalaw/intake-api/app/logic/v1"
	"github.com/vidalaw/intake-api/app/response"
	"github.com/vidalaw/intake-api/pkg/errors"
	"github.com/vidalaw/intake-api/pkg/i18n"
	"github.com/vidalaw/intake-api/pkg/security"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

const (
	SHARE_GRANT_HEADER_KEY = "X-Share-Grant"
)

// Authorization guards the staff surface. The identity provider is external;
// we only verify its signature and expose the principal to the logic layer.
func Authorization(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenValue := c.GetHeader(security.TOKEN_KEY)
		tokenValue = strings.TrimPrefix(tokenValue, "Bearer ")
		if tokenValue == "" {
			response.APIError(c, errors.New("middleware.Authorization.GetHeader", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		claims, err := security.VerifyToken(tokenValue, []byte(appCore.Cfg().Security.JWTSecret))
		if err != nil {
			response.APIError(c, errors.New("middleware.Authorization.VerifyToken", i18n.ERROR_UNAUTHORIZED, err).Code(http.StatusUnauthorized))
			return
		}

		c.Set(v1.TOKEN_CONTEXT_KEY, *claims)
	}
}

// ShareGrantRequired guards the token-holder surface. The grant is the proof
// that one link validation already happened; presenting it repeatedly never
// consumes further views.
func ShareGrantRequired(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		grantValue := c.GetHeader(SHARE_GRANT_HEADER_KEY)
		if grantValue == "" {
			response.APIError(c, errors.New("middleware.ShareGrantRequired.GetHeader", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
			return
		}

		grant, err := security.VerifyShareGrant(grantValue, []byte(appCore.Cfg().Security.JWTSecret))
		if err != nil {
			response.APIError(c, errors.New("middleware.ShareGrantRequired.VerifyShareGrant", i18n.ERROR_UNAUTHORIZED, err).Code(http.StatusUnauthorized))
			return
		}

		c.Set(v1.GRANT_CONTEXT_KEY, grant)
	}
}

func Cors(c *gin.Context) {
	method := c.Request.Method
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Share-Grant")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
	}
	c.Next()
}

// Observe times every request and counts error responses per route.
func Observe(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := appCore.Metrics().ApiResponseTimer(c.FullPath())
		c.Next()
		timer.ObserveDuration()

		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			appCore.Metrics().ApiErrorInc(c.Request.Method, c.FullPath(), status)
		}
	}
}

type LimiterFunc func(key string, opts ...core.LimitOption) gin.HandlerFunc

func UseLimit(appCore *core.Core, genKeyFunc func(c *gin.Context) string, opts ...core.LimitOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appCore.UseLimiter(genKeyFunc(c), opts...).Allow() {
			response.APIError(c, errors.New("middleware.limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}
