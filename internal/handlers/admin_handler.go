package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"intake_backend/internal/middleware"
	"intake_backend/internal/services"
)

type AdminHandler struct {
	*BaseHandler
	adminService     services.AdminService
	candidateService services.CandidateService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService, candidateService services.CandidateService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:      base,
		adminService:     adminService,
		candidateService: candidateService,
	}
}

func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.POST("/login", h.Login)
		admin.GET("/candidates", middleware.AdminAuthMiddleware(h.adminService), h.ListCandidates)
	}
}

// Login выдает JWT админ-сессии по фиксированным учетным данным.
func (h *AdminHandler) Login(c *gin.Context) {
	var input services.LoginInput
	if !h.BindAndValidate(c, &input) {
		return
	}

	token, expiresAt, err := h.adminService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt.Format(time.RFC3339),
	})
}

// ListCandidates возвращает все заявки для админ-портала.
func (h *AdminHandler) ListCandidates(c *gin.Context) {
	candidates, err := h.candidateService.List(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}
