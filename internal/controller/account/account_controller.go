package account

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examapp/internal/controller"
	"github.com/lshigami/examapp/internal/dto"
	"github.com/lshigami/examapp/internal/service"
)

type AccountController struct {
	authService service.AuthService
	userService service.UserService
}

func NewAccountController(authService service.AuthService, userService service.UserService) *AccountController {
	return &AccountController{authService: authService, userService: userService}
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Name, email and password"
// @Success 201 {object} dto.UserEnvelope
// @Failure 400 {object} dto.ErrorResponse "Missing or malformed fields"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (c *AccountController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.UserEnvelope{Status: "success", Message: "User registered successfully", User: *user})
}

// Login godoc
// @Summary Log in and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid password"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /auth/login [post]
func (c *AccountController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}

	resp, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListUsers godoc
// @Summary List all users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserListResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users [get]
func (c *AccountController) ListUsers(ctx *gin.Context) {
	resp, err := c.userService.ListUsers(ctx.Request.Context())
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateUser godoc
// @Summary Create a user without logging in
// @Tags Users
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Name, email and password"
// @Success 201 {object} dto.UserEnvelope
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users [post]
func (c *AccountController) CreateUser(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.RespondBindError(ctx, err)
		return
	}

	user, err := c.userService.CreateUser(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.UserEnvelope{Status: "success", Message: "User created successfully", User: *user})
}
