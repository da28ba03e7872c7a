package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	autherrors "go-presence/internal/auth/errors"
	"go-presence/internal/shared/contextutil"
	"go-presence/internal/shared/response"
	"go-presence/internal/shared/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TokenVerifier interface {
	Verify(tokenString string) (token.Claims, error)
}

// CurrentEmployee reports the employee id of the signed-in identity.
type CurrentEmployee func(ctx context.Context) (string, error)

// AuthMiddleware accepts a bearer token (or access_token cookie) issued to
// the signed-in employee. When current is set, a token for anyone else is
// forbidden.
func AuthMiddleware(verifier TokenVerifier, current CurrentEmployee) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, token.ErrExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		if current != nil {
			employeeID, err := current(c.Request.Context())
			if err != nil {
				e := autherrors.ErrNotAuthenticated
				response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
				c.Abort()
				return
			}
			if employeeID != claims.EmployeeID {
				e := autherrors.ErrForbidden
				response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("employee_id", claims.EmployeeID)
		c.Set("company_id", claims.CompanyID)

		ctx := contextutil.WithEmployeeID(c.Request.Context(), claims.EmployeeID)
		ctx = contextutil.WithLogger(ctx, contextutil.GetLogger(ctx, zap.L()).With(zap.String("employee_id", claims.EmployeeID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
