package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type itemRequestBody struct {
	Description string `json:"description"`
}

func (s *HTTPServer) createRequest(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	var req itemRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, s.logger, invalidBody(err))
		return
	}
	view, err := s.svc.Requests.CreateRequest(c.Request.Context(), userID, req.Description)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) listOwnRequests(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	views, err := s.svc.Requests.ListOwn(c.Request.Context(), userID)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *HTTPServer) listOtherRequests(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	page, err := s.page(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	views, err := s.svc.Requests.ListOthers(c.Request.Context(), userID, page)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *HTTPServer) getRequest(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	requestID, err := pathID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	view, err := s.svc.Requests.GetRequest(c.Request.Context(), userID, requestID)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
