package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bitmark-inc/triage-api/dashboard"
	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/store"
)

func abortWithAlertError(c *gin.Context, err error) {
	switch err {
	case store.ErrAlertNotFound:
		abortWithEncoding(c, http.StatusNotFound, errorAlertNotFound, err)
	case store.ErrInvalidTransition:
		abortWithEncoding(c, http.StatusConflict, errorInvalidTransition, err)
	case store.ErrAlertResolved:
		abortWithEncoding(c, http.StatusConflict, errorAlertResolved, err)
	case store.ErrInvalidResolution:
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidResolution, err)
	default:
		shouldInterupt(err, c)
	}
}

// alertSource returns the alerts of the worker who sent the request
func (s *Server) alertSource(c *gin.Context) *dashboard.StoreSource {
	worker := c.MustGet("worker").(schema.Worker)
	return dashboard.NewStoreSource(s.alerts, worker.ID)
}

func alertID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("alertID"), 10, 64)
	if err != nil || id <= 0 {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return 0, false
	}
	return id, true
}

// alertList returns the alerts of a worker matching the status filter,
// together with the counts of every filter
func (s *Server) alertList(c *gin.Context) {
	filter := schema.StatusFilter(strings.ToUpper(c.DefaultQuery("status", string(schema.AlertNew))))

	board := dashboard.NewBoard(s.alertSource(c), 0)
	if err := board.SetFilter(filter); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidFilter, err)
		return
	}

	if err := board.Refresh(c.Request.Context()); shouldInterupt(err, c) {
		return
	}

	view := board.View()
	c.JSON(http.StatusOK, gin.H{
		"alerts": view.Alerts,
		"counts": view.Counts,
		"filter": view.Filter,
	})
}

func (s *Server) alertContacting(c *gin.Context) {
	id, ok := alertID(c)
	if !ok {
		return
	}

	alert, err := s.alertSource(c).Contact(c.Request.Context(), id)
	if err != nil {
		abortWithAlertError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

func (s *Server) alertResolve(c *gin.Context) {
	id, ok := alertID(c)
	if !ok {
		return
	}

	var req struct {
		Resolution schema.Resolution `json:"resolution"`
		Notes      string            `json:"notes"`
	}
	if err := c.BindJSON(&req); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	alert, err := s.alertSource(c).Resolve(c.Request.Context(), id, req.Resolution, strings.TrimSpace(req.Notes))
	if err != nil {
		abortWithAlertError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}
