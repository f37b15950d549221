package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"identity-svc/internal/domain"
	"identity-svc/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
	}
}

type userView struct {
	ID             string  `json:"id"`
	UserName       string  `json:"user_name"`
	Email          string  `json:"email"`
	SecondaryEmail *string `json:"email_user_second"`
}

type loginView struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Email    string `json:"email"`
}

func newUserView(u domain.User) userView {
	return userView{ID: u.ID, UserName: u.UserName, Email: u.Email, SecondaryEmail: u.SecondaryEmail}
}

// Register maneja POST /api/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		UserName       string `json:"user_name"`
		Email          string `json:"email"`
		Password       string `json:"passw"`
		SecondaryEmail string `json:"email_user_second"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	user, err := h.userServ.Register(c.Request.Context(), service.RegisterInput{
		UserName:       req.UserName,
		Email:          req.Email,
		SecondaryEmail: req.SecondaryEmail,
		Password:       req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "invalid email format"})
		case errors.Is(err, service.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"message": "passw must be at most 72 bytes"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "user_name, email and passw are required"})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"message": "email already registered"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not register user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"user":    newUserView(user),
	})
}

// Login maneja POST /api/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"passw"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"user":    loginView{ID: user.ID, UserName: user.UserName, Email: user.Email},
	})
}

// ListUsers maneja GET /api/users. Un directorio vacío responde 404 por compatibilidad
// con los clientes existentes.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userServ.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not list users"})
		return
	}
	if len(users) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "no users found"})
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, newUserView(u))
	}
	c.JSON(http.StatusOK, views)
}
