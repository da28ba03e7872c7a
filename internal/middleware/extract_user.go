package middleware

import (
	"go-presence/internal/shared/response"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ExtractEmployeeID requires AuthMiddleware to have run and pins the employee
// id under employee_id_validated for the middlewares that key on it.
func ExtractEmployeeID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		employeeID, exists := ctx.Get("employee_id")
		if !exists {
			response.Error(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "User tidak terautentikasi", nil)
			ctx.Abort()
			return
		}

		employeeIDStr, ok := employeeID.(string)
		if !ok || employeeIDStr == "" {
			response.Error(ctx, http.StatusUnauthorized, "INVALID_EMPLOYEE_ID", "Format employee_id tidak valid", nil)
			ctx.Abort()
			return
		}

		ctx.Set("employee_id_validated", employeeIDStr)
		ctx.Next()
	}
}
