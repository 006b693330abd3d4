package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"github.com/bitmark-inc/triage-api/geo"
	"github.com/bitmark-inc/triage-api/triage"
	"github.com/bitmark-inc/triage-api/utils"
)

var validationMessages = func() map[string]*i18n.Message {
	m := make(map[string]*i18n.Message)
	for _, msg := range triage.Messages() {
		m[msg.ID] = msg
	}
	return m
}()

type feedbackResponse struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// triageStateResponse is the wizard state with its texts rendered in the
// language of the request
type triageStateResponse struct {
	triage.State
	Messages        map[string]string `json:"messages"`
	PositionMessage string            `json:"position_message,omitempty"`
	Feedback        *feedbackResponse `json:"feedback,omitempty"`
}

func localizeFields(fields map[string]string, lang string) map[string]string {
	messages := make(map[string]string, len(fields))
	for f, id := range fields {
		if m, ok := validationMessages[id]; ok {
			messages[f] = utils.Localize(m, nil, lang)
		} else {
			messages[f] = id
		}
	}
	return messages
}

func localizeState(state triage.State, lang string) triageStateResponse {
	resp := triageStateResponse{
		State:    state,
		Messages: localizeFields(state.Errors, lang),
	}

	if state.PositionError != "" {
		resp.PositionMessage = utils.Localize(state.PositionError.Message(), nil, lang)
	}

	if state.Result != nil {
		if f, ok := triage.FeedbackFor(state.Result.RiskTier); ok {
			resp.Feedback = &feedbackResponse{
				Title:   utils.Localize(f.Title, nil, lang),
				Message: utils.Localize(f.Message, nil, lang),
			}
		}
	}
	return resp
}

func requestLanguage(c *gin.Context) string {
	return c.GetHeader("Accept-Language")
}

func (s *Server) respondState(c *gin.Context, code int, state triage.State) {
	c.JSON(code, gin.H{"state": localizeState(state, requestLanguage(c))})
}

// abortWithTriageError maps the errors of a wizard operation to a response
func abortWithTriageError(c *gin.Context, err error) {
	if verr, ok := err.(*triage.ValidationError); ok {
		resp := errorStepIncomplete
		resp.Errors = localizeFields(verr.Fields, requestLanguage(c))
		abortWithEncoding(c, http.StatusUnprocessableEntity, resp, err)
		return
	}

	switch err {
	case triage.ErrSessionNotFound:
		abortWithEncoding(c, http.StatusNotFound, errorTriageNotFound, err)
	case triage.ErrAlreadySubmitted:
		abortWithEncoding(c, http.StatusConflict, errorAlreadySubmitted, err)
	case triage.ErrClosed:
		abortWithEncoding(c, http.StatusGone, errorTriageClosed, err)
	default:
		log.WithError(err).Error("assessment failed")
		abortWithEncoding(c, http.StatusBadGateway, errorAssessmentFailed, err)
	}
}

// triageSessionMiddleware attaches the wizard of the session in the path
func (s *Server) triageSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := s.registry.Get(c.Param("id"))
		if err != nil {
			abortWithTriageError(c, err)
			return
		}

		c.Set("wizard", w)
		c.Next()
	}
}

func wizardFrom(c *gin.Context) *triage.Wizard {
	return c.MustGet("wizard").(*triage.Wizard)
}

func (s *Server) triageCreate(c *gin.Context) {
	w := s.registry.Create()
	state := w.State()

	c.JSON(http.StatusCreated, gin.H{
		"id":    state.ID,
		"state": localizeState(state, requestLanguage(c)),
	})
}

func (s *Server) triageState(c *gin.Context) {
	s.respondState(c, http.StatusOK, wizardFrom(c).State())
}

func (s *Server) triageUpdate(c *gin.Context) {
	var update triage.Update
	if err := c.BindJSON(&update); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	state, err := wizardFrom(c).Apply(update)
	if err != nil {
		abortWithTriageError(c, err)
		return
	}
	s.respondState(c, http.StatusOK, state)
}

func (s *Server) triageNext(c *gin.Context) {
	state, err := wizardFrom(c).Next()
	if err != nil {
		abortWithTriageError(c, err)
		return
	}
	s.respondState(c, http.StatusOK, state)
}

func (s *Server) triageBack(c *gin.Context) {
	state, err := wizardFrom(c).Back()
	if err != nil {
		abortWithTriageError(c, err)
		return
	}
	s.respondState(c, http.StatusOK, state)
}

func (s *Server) triageReset(c *gin.Context) {
	s.respondState(c, http.StatusOK, wizardFrom(c).Reset())
}

// triageActivity is called by clients on pointer, key, scroll and touch
// events to hold off the inactivity submission
func (s *Server) triageActivity(c *gin.Context) {
	wizardFrom(c).Touch()
	c.Status(http.StatusNoContent)
}

// triageGPS takes a position fix either from the body or from the
// Geo-Position header, or the reason the device could not get one
func (s *Server) triageGPS(c *gin.Context) {
	var req struct {
		Lat   *float64 `json:"lat"`
		Lng   *float64 `json:"lng"`
		Error string   `json:"error"`
	}

	if c.Request.ContentLength != 0 {
		if err := c.BindJSON(&req); err != nil {
			abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
			return
		}
	}

	if req.Lat == nil && req.Lng == nil && req.Error == "" {
		if gp := c.GetHeader("Geo-Position"); gp != "" {
			lat, lng, err := parseGeoPosition(gp)
			if err != nil {
				abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters, err)
				return
			}
			req.Lat, req.Lng = &lat, &lng
		}
	}

	w := wizardFrom(c)
	var state triage.State
	var err error
	switch {
	case req.Error != "":
		state, err = w.SetPositionError(geo.ParsePositionError(req.Error))
	case req.Lat != nil && req.Lng != nil:
		if !validCoordinates(*req.Lat, *req.Lng) {
			abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
			return
		}
		state, err = w.SetGPS(*req.Lat, *req.Lng)
	default:
		abortWithEncoding(c, http.StatusBadRequest, errorInvalidParameters)
		return
	}

	if err != nil {
		abortWithTriageError(c, err)
		return
	}
	s.respondState(c, http.StatusOK, state)
}

func (s *Server) triageManual(c *gin.Context) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BindJSON(&req); err != nil {
		abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
		return
	}

	state, err := wizardFrom(c).SetManual(req.Enabled)
	if err != nil {
		abortWithTriageError(c, err)
		return
	}
	s.respondState(c, http.StatusOK, state)
}

func (s *Server) triageSubmit(c *gin.Context) {
	var req struct {
		Emergency bool `json:"emergency"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.BindJSON(&req); err != nil {
			abortWithEncoding(c, http.StatusBadRequest, errorCannotParseRequest, err)
			return
		}
	}

	w := wizardFrom(c)
	if _, err := w.Submit(c.Request.Context(), req.Emergency); err != nil {
		abortWithTriageError(c, err)
		return
	}
	s.respondState(c, http.StatusOK, w.State())
}

func (s *Server) triageDelete(c *gin.Context) {
	if err := s.registry.Remove(c.Param("id")); err != nil {
		abortWithTriageError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
