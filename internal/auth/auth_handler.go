package auth

import (
	"net/http"
	"strings"

	"go-presence/internal/bootstrap"
	"go-presence/internal/shared/apperror"
	"go-presence/internal/shared/response"
	"go-presence/internal/shared/token"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service      Service
	issuer       *token.Issuer
	audit        bootstrap.AuditLogger
	secureCookie bool
}

func NewHandler(s Service, issuer *token.Issuer, audit bootstrap.AuditLogger, secureCookie bool) *Handler {
	return &Handler{service: s, issuer: issuer, audit: audit, secureCookie: secureCookie}
}

func isWebClient(c *gin.Context) bool {
	return strings.EqualFold(c.GetHeader("X-Client-Type"), "web")
}

func (ctrl *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", apperror.MapValidationError(err).Error())
		return
	}

	id, err := ctrl.service.Login(c.Request.Context(), req.Email, req.Password, req.CompanyID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	accessToken, expiresAt, err := ctrl.issuer.Issue(id.ID, id.ID, id.CompanyID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	if isWebClient(c) {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     "access_token",
			Value:    accessToken,
			Path:     "/",
			Expires:  expiresAt,
			HttpOnly: true,
			Secure:   ctrl.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}

	ctrl.audit.Log(c.Request.Context(), bootstrap.AuditLog{
		Action:  "LOGIN",
		Message: "Employee signed in",
		Meta:    map[string]any{"employee_id": id.ID, "company_id": id.CompanyID},
	})

	response.Success(c, http.StatusOK, LoginResponse{
		User:        id,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil)
}

func (ctrl *Handler) Me(c *gin.Context) {
	id, err := ctrl.service.Identity(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, id, nil)
}

func (ctrl *Handler) Logout(c *gin.Context) {
	err := ctrl.service.Logout(c.Request.Context())

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ctrl.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	ctrl.audit.Log(c.Request.Context(), bootstrap.AuditLog{
		Action:  "LOGOUT",
		Message: "Employee signed out",
		Meta:    map[string]any{"employee_id": c.GetString("employee_id")},
	})

	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Logout success.", nil)
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
