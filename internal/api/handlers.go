package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kitchenlog/dishdiary/internal/dishes"
	"github.com/kitchenlog/dishdiary/internal/types"
)

func (s *Server) listDishes(c *gin.Context) {
	filter := dishes.Filter{
		Category: types.Category(c.Query("category")),
		Query:    c.Query("q"),
	}
	if filter.Category == "all" {
		filter.Category = ""
	}

	list, err := s.repo.List(c.Request.Context(), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type createDishRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Image       string `json:"image"`
}

func (s *Server) createDish(c *gin.Context) {
	var req createDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dish, err := s.repo.Create(c.Request.Context(), dishes.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		Category:    types.Category(req.Category),
		Image:       req.Image,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dish)
}

func (s *Server) getDish(c *gin.Context) {
	id, ok := dishID(c)
	if !ok {
		return
	}
	detail, err := s.repo.Get(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

type updateDishRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Image       *string `json:"image"`
}

func (s *Server) updateDish(c *gin.Context) {
	id, ok := dishID(c)
	if !ok {
		return
	}
	var req updateDishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := dishes.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	}
	if req.Category != nil {
		cat := types.Category(*req.Category)
		upd.Category = &cat
	}

	if err := s.repo.Update(c.Request.Context(), id, upd); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) deleteDish(c *gin.Context) {
	id, ok := dishID(c)
	if !ok {
		return
	}
	if err := s.repo.Delete(c.Request.Context(), id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type orderRequest struct {
	DishID  int    `json:"dish_id" binding:"required"`
	User    string `json:"user" binding:"required"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (s *Server) recordOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.repo.RecordOrder(c.Request.Context(), req.DishID, req.User, req.Rating, req.Comment); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) listActivity(c *gin.Context) {
	entries, err := s.feed.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

type uploadImageRequest struct {
	Image string `json:"image" binding:"required"`
}

func (s *Server) uploadImage(c *gin.Context) {
	var req uploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	url, err := s.uploader.Upload(c.Request.Context(), req.Image)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// dishID parses the :id path parameter, answering 400 itself on garbage.
func dishID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dish id"})
		return 0, false
	}
	return id, true
}
