package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/export"
	"shareit/internal/models"

	"github.com/gin-gonic/gin"
)

type bookingRequest struct {
	ItemID int64      `json:"itemId"`
	Start  *timestamp `json:"start"`
	End    *timestamp `json:"end"`
}

func (s *HTTPServer) createBooking(c *gin.Context) {
	bookerID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, s.logger, invalidBody(err))
		return
	}
	if req.Start == nil || req.End == nil {
		writeError(c, s.logger, fmt.Errorf("%w: start and end are required", domain.ErrValidation))
		return
	}

	view, err := s.svc.Bookings.CreateBooking(c.Request.Context(), bookerID, req.ItemID, req.Start.Time, req.End.Time)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) approveBooking(c *gin.Context) {
	ownerID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	bookingID, err := pathID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		writeError(c, s.logger, fmt.Errorf("%w: approved must be true or false", domain.ErrValidation))
		return
	}

	view, err := s.svc.Bookings.SetApproval(c.Request.Context(), ownerID, bookingID, approved)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) cancelBooking(c *gin.Context) {
	bookerID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	bookingID, err := pathID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	view, err := s.svc.Bookings.CancelBooking(c.Request.Context(), bookerID, bookingID)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) getBooking(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	bookingID, err := pathID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	view, err := s.svc.Bookings.GetBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *HTTPServer) listUserBookings(c *gin.Context) {
	s.listBookings(c, s.svc.Bookings.ListForUser)
}

func (s *HTTPServer) listOwnerBookings(c *gin.Context) {
	s.listBookings(c, s.svc.Bookings.ListForOwner)
}

type bookingLister func(ctx context.Context, userID int64, state models.State, page models.Page) ([]models.BookingView, error)

func (s *HTTPServer) listBookings(c *gin.Context, list bookingLister) {
	userID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	state, err := queryState(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	page, err := s.page(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	views, err := list(c.Request.Context(), userID, state, page)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// exportOwnerBookings streams every owner booking matching state as a
// spreadsheet.
func (s *HTTPServer) exportOwnerBookings(c *gin.Context) {
	ownerID, err := callerID(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	state, err := queryState(c)
	if err != nil {
		writeError(c, s.logger, err)
		return
	}
	views, err := s.svc.Bookings.ListForOwner(c.Request.Context(), ownerID, state, models.Page{})
	if err != nil {
		writeError(c, s.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBookings(&buf, views); err != nil {
		writeError(c, s.logger, err)
		return
	}
	filename := fmt.Sprintf("bookings_%d_%s.xlsx", ownerID, strings.ToLower(string(state)))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
