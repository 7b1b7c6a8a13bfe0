package api

import (
	"fmt"
	"net/http"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/gin-gonic/gin"
)

type userRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (s *HTTPServer) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, s.logger, invalidBody(err))
		return
	}
	user, err := s.svc.Users.CreateUser(c.Request.Context(), deref(req.Name), deref(req.Email))
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) listUsers(c *gin.Context) {
	users, err := s.svc.Users.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (s *HTTPServer) getUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	user, err := s.svc.Users.GetUser(c.Request.Context(), id)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) updateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, s.logger, invalidBody(err))
		return
	}
	user, err := s.svc.Users.UpdateUser(c.Request.Context(), id, models.UserPatch{Name: req.Name, Email: req.Email})
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *HTTPServer) deleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	if err := s.svc.Users.DeleteUser(c.Request.Context(), id); err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.Status(http.StatusOK)
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
