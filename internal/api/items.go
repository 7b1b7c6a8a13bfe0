package api

import (
	"fmt"
	"net/http"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/gin-gonic/gin"
)

type itemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId"`
}

type commentRequest struct {
	Text string `json:"text"`
}

func (s *HTTPServer) createItem(c *gin.Context) {
	ownerID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, s.logger, invalidBody(err))
		return
	}
	if req.Available == nil {
		writeError(c, s.logger, fmt.Errorf("%w: available must be set", domain.ErrValidation))
		return
	}

	item := &models.Item{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Available:   *req.Available,
		RequestID:   req.RequestID,
	}
	view, err := s.svc.Items.CreateItem(c.Request.Context(), ownerID, item)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) updateItem(c *gin.Context) {
	ownerID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	itemID, err := pathID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, s.logger, invalidBody(err))
		return
	}

	patch := models.ItemPatch{Name: req.Name, Description: req.Description, Available: req.Available}
	view, err := s.svc.Items.UpdateItem(c.Request.Context(), ownerID, itemID, patch)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) getItem(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	itemID, err := pathID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	view, err := s.svc.Items.GetItem(c.Request.Context(), userID, itemID)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) listOwnerItems(c *gin.Context) {
	ownerID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	page, err := s.page(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	views, err := s.svc.Items.ListOwnerItems(c.Request.Context(), ownerID, page)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *HTTPServer) searchItems(c *gin.Context) {
	page, err := s.page(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	views, err := s.svc.Items.Search(c.Request.Context(), c.Query("text"), page)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *HTTPServer) addComment(c *gin.Context) {
	authorID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	itemID, err := pathID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, s.logger, invalidBody(err))
		return
	}
	view, err := s.svc.Items.AddComment(c.Request.Context(), authorID, itemID, req.Text)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
