package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"library-management-backend/app"
	"library-management-backend/models"
)

type BookController struct{ *Srv }

func NewBookController(s *Srv) *BookController { return &BookController{Srv: s} }

// GET /api/books?q=  and  GET /api/admin/books?q=
func (bc *BookController) Search(c *gin.Context) {
	books, err := bc.Repo.SearchBooks(c.Request.Context(), c.Query("q"))
	if err != nil {
		bc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"books": books})
}

type bookInput struct {
	Title           string `json:"title" binding:"required"`
	Author          string `json:"author"`
	Genre           string `json:"genre"`
	PublishedYear   int    `json:"publishedYear"`
	AvailableCopies *int   `json:"availableCopies" binding:"omitempty,gte=0"`
}

// POST /api/admin/books
func (bc *BookController) Create(c *gin.Context) {
	var in bookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	copies := 1
	if in.AvailableCopies != nil {
		copies = *in.AvailableCopies
	}
	b := &models.Book{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Author:          in.Author,
		Genre:           in.Genre,
		PublishedYear:   in.PublishedYear,
		AvailableCopies: copies,
	}
	if err := bc.Repo.CreateBook(c.Request.Context(), b); err != nil {
		bc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// PUT /api/admin/books/:id
func (bc *BookController) Update(c *gin.Context) {
	var in bookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	copies := 0
	if in.AvailableCopies != nil {
		copies = *in.AvailableCopies
	}
	b := &models.Book{
		ID:              c.Param("id"),
		Title:           in.Title,
		Author:          in.Author,
		Genre:           in.Genre,
		PublishedYear:   in.PublishedYear,
		AvailableCopies: copies,
	}
	if err := bc.Repo.UpdateBook(c.Request.Context(), b); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "book not found"})
			return
		}
		bc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DELETE /api/admin/books/:id  (soft delete)
func (bc *BookController) Delete(c *gin.Context) {
	if err := bc.Repo.SoftDeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "book not found"})
			return
		}
		bc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/admin/issue-book
func (bc *BookController) Issue(c *gin.Context) {
	var in struct {
		BookID string `json:"bookId" binding:"required"`
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	txn, err := bc.Flow.IssueBook(c.Request.Context(), in.BookID, in.UserID)
	if err != nil {
		bc.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// POST /api/admin/return-book
func (bc *BookController) Return(c *gin.Context) {
	var in struct {
		TransactionID string `json:"transactionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	txn, err := bc.Flow.ReturnBook(c.Request.Context(), in.TransactionID)
	if err != nil {
		bc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}
