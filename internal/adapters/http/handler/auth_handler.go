package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ogurasousui/manpower-clean-arch/internal/adapters/http/middleware"
	"github.com/ogurasousui/manpower-clean-arch/internal/core/identity"
	"go.uber.org/zap"
)

// AuthHandler は登録・認証系のエンドポイントを提供します。
type AuthHandler struct {
	auth   identity.UseCase
	logger *zap.Logger
}

// NewAuthHandler は AuthHandler を生成します。
func NewAuthHandler(auth identity.UseCase, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger.With(zap.String("handler", "auth"))}
}

type registerRequest struct {
	CompanyName string `json:"companyName"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerEmployeeRequest struct {
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     *string `json:"role"`
}

type userResponse struct {
	ID        string    `json:"id"`
	CompanyID *string   `json:"companyId,omitempty"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *identity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		FullName:  u.FullName,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// Register は会社(テナント)と管理者ユーザーを同時に登録します。
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.auth.Register(c.Request.Context(), identity.RegisterInput{
		CompanyName: req.CompanyName,
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, authResponse{User: toUserResponse(result.User), Token: result.Token})
}

// Login は資格情報を検証してトークンを発行します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.auth.Login(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusOK, authResponse{User: toUserResponse(result.User), Token: result.Token})
}

// RegisterEmployee は操作主体と同じテナントに社内ユーザーを追加します。
func (h *AuthHandler) RegisterEmployee(c *gin.Context) {
	actor, ok := middleware.IdentityFrom(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req registerEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	in := identity.RegisterEmployeeInput{
		Actor:    actor,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := identity.Role(*req.Role)
		in.Role = &role
	}

	created, err := h.auth.RegisterEmployee(c.Request.Context(), in)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	respondData(c, http.StatusCreated, toUserResponse(created))
}
