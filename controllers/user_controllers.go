package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/middlewares"
	"github.com/yeremiapane/floor-service/models"
	"github.com/yeremiapane/floor-service/services"
	"github.com/yeremiapane/floor-service/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

var errInvalidCredentials = &services.ServiceError{Kind: services.KindUnauthorized, Message: "invalid credentials"}

type userRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// Register creates a customer account and logs it in.
func (uc *UserController) Register(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := uc.createUser(req, models.RoleCustomer)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "generate token", Err: err})
		return
	}

	utils.InfoLogger.Printf("New user registered: %s (role=%s)", user.Email, user.Role)

	utils.RespondJSON(c, http.StatusCreated, "User registered", gin.H{
		"user":  user,
		"token": token,
	})
}

// CreateUser lets an admin create accounts of any role.
func (uc *UserController) CreateUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleStaff
	}
	if !models.IsValidRole(role) {
		respondServiceError(c, &services.ServiceError{Kind: services.KindValidation, Message: "unknown role " + role})
		return
	}

	user, err := uc.createUser(req, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("User created by admin: %s (role=%s)", user.Email, user.Role)
	utils.RespondJSON(c, http.StatusCreated, "User created", user)
}

func (uc *UserController) createUser(req userRequest, role string) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := uc.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, &services.ServiceError{Kind: services.KindStorage, Message: "check email", Err: err}
	}
	if count > 0 {
		return nil, &services.ServiceError{Kind: services.KindConflict, Message: "Email already registered"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, &services.ServiceError{Kind: services.KindStorage, Message: "hash password", Err: err}
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hashed),
		Role:     role,
	}
	if err := uc.DB.Create(&user).Error; err != nil {
		return nil, &services.ServiceError{Kind: services.KindStorage, Message: "create user", Err: err}
	}
	return &user, nil
}

// Login user -> return JWT
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	var user models.User
	err := uc.DB.Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondServiceError(c, errInvalidCredentials)
		return
	}
	if err != nil {
		respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "load user", Err: err})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		respondServiceError(c, errInvalidCredentials)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "generate token", Err: err})
		return
	}

	utils.InfoLogger.Printf("Login successful for user: %s, role: %s", user.Email, user.Role)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user_role": user.Role,
		"user":      user,
	})
}

// Logout revokes the presented token.
func (uc *UserController) Logout(c *gin.Context) {
	token := c.GetString(middlewares.ContextToken)
	if token == "" {
		respondServiceError(c, services.ErrUnauthorized)
		return
	}
	var expiry time.Time
	if exp, ok := c.Get(middlewares.ContextTokenExp); ok {
		expiry, _ = exp.(time.Time)
	}
	utils.BlacklistToken(token, expiry)
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

// GetProfile -> user dari JWT
func (uc *UserController) GetProfile(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var user models.User
	if err := uc.DB.First(&user, p.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondServiceError(c, &services.ServiceError{Kind: services.KindNotFound, Message: "User not found"})
			return
		}
		respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "load user", Err: err})
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Profile data retrieved successfully", user)
}

// GetAllUsers -> khusus staff
func (uc *UserController) GetAllUsers(c *gin.Context) {
	var users []models.User
	q := uc.DB.Order("id ASC")
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}
	if err := q.Find(&users).Error; err != nil {
		respondServiceError(c, &services.ServiceError{Kind: services.KindStorage, Message: "list users", Err: err})
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All users", users)
}
