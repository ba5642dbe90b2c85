package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"library-management-backend/app"
	"library-management-backend/models"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// GET /api/admin/users?q=&page=&size=
func (uc *UserController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Repo.ListUsers(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "users": res.Users})
}

type userInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN USER"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	IsActive *bool  `json:"isActive"`
}

// POST /api/admin/users
func (uc *UserController) Create(c *gin.Context) {
	var in userInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.Password == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "password is required"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		uc.fail(c, err)
		return
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
		FullName:     in.FullName,
		Phone:        in.Phone,
		Address:      in.Address,
		IsActive:     true,
	}
	if err := uc.Repo.CreateUser(c.Request.Context(), u); err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, app.H{"error": "username or email already taken"})
			return
		}
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// PUT /api/admin/users/:id
func (uc *UserController) Update(c *gin.Context) {
	var in userInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	newHash := ""
	if in.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			uc.fail(c, err)
			return
		}
		newHash = string(h)
	}

	u := &models.User{
		ID:       c.Param("id"),
		Username: in.Username,
		Email:    in.Email,
		Role:     role,
		FullName: in.FullName,
		Phone:    in.Phone,
		Address:  in.Address,
		IsActive: active,
	}
	if err := uc.Repo.UpdateUser(c.Request.Context(), u, newHash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
			return
		}
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, app.H{"error": "username or email already taken"})
			return
		}
		uc.fail(c, err)
		return
	}

	// a deactivated user must not keep a live session
	if !active {
		_ = uc.AppSess.RevokeAllForUser(c.Request.Context(), u.ID)
	}
	c.JSON(http.StatusOK, u)
}

// GET /api/users/:id/stats
func (uc *UserController) Stats(c *gin.Context) {
	userID := c.Param("id")
	if !canAccessUser(c, userID) {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}
	stats, err := uc.Flow.UserStats(c.Request.Context(), userID)
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/users/:id/transactions?status=
func (uc *UserController) Transactions(c *gin.Context) {
	userID := c.Param("id")
	if !canAccessUser(c, userID) {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return
	}
	rows, err := uc.Repo.ListUserTransactions(c.Request.Context(), userID, c.Query("status"), uc.Flow.FineRatePerDay())
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"transactions": rows})
}

// GET /api/admin/transactions?userId=&status=
func (uc *UserController) ListTransactions(c *gin.Context) {
	txns, err := uc.Repo.ListTransactions(c.Request.Context(), c.Query("userId"), c.Query("status"))
	if err != nil {
		uc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"transactions": txns})
}
