package api

import (
	"context"
	"net/http"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/triage-api/logmodule"
	"github.com/bitmark-inc/triage-api/schema"
	"github.com/bitmark-inc/triage-api/session"
	"github.com/bitmark-inc/triage-api/store"
	"github.com/bitmark-inc/triage-api/triage"
)

var log *logrus.Entry

func init() {
	log = logrus.WithField("prefix", "gin")
}

// Server to run a http server instance
type Server struct {
	// Server instance
	server *http.Server

	// Open triage sessions
	registry *triage.Registry

	// Stores
	alerts  store.AlertStore
	workers store.WorkerStore
	pingers []store.Pinger

	// Worker sign in
	auth        *session.Authenticator
	authLimiter *visitorRateLimiter
}

// NewServer new instance of server. Every pinger is checked by the health endpoint.
func NewServer(
	registry *triage.Registry,
	alerts store.AlertStore,
	workers store.WorkerStore,
	auth *session.Authenticator,
	pingers ...store.Pinger) *Server {
	authRate := viper.GetFloat64("auth.rate")
	if authRate <= 0 {
		authRate = 1
	}
	authBurst := viper.GetInt("auth.burst")
	if authBurst <= 0 {
		authBurst = 5
	}

	return &Server{
		registry:    registry,
		alerts:      alerts,
		workers:     workers,
		pingers:     pingers,
		auth:        auth,
		authLimiter: newVisitorRateLimiter(rate.Limit(authRate), authBurst),
	}
}

// Run to run the server
func (s *Server) Run(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.setupRouter(),
	}

	return s.server.ListenAndServe()
}

func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         10 * time.Second,
	}))
	r.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", "Geo-Position"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowAllOrigins:  true,
		MaxAge:           12 * time.Hour,
	}))

	apiRoute := r.Group("/api")
	apiRoute.Use(logmodule.Ginrus("API"))
	apiRoute.GET("/information", s.information)
	apiRoute.GET("/regions", s.regions)

	triageRoute := apiRoute.Group("/triage")
	{
		triageRoute.POST("", s.triageCreate)
	}

	triageRoute.Use(s.triageSessionMiddleware())
	{
		triageRoute.GET("/:id", s.triageState)
		triageRoute.PATCH("/:id", s.triageUpdate)
		triageRoute.DELETE("/:id", s.triageDelete)
		triageRoute.POST("/:id/next", s.triageNext)
		triageRoute.POST("/:id/back", s.triageBack)
		triageRoute.POST("/:id/reset", s.triageReset)
		triageRoute.POST("/:id/activity", s.triageActivity)
		triageRoute.POST("/:id/location/gps", s.triageGPS)
		triageRoute.POST("/:id/location/manual", s.triageManual)
		triageRoute.POST("/:id/submit", s.triageSubmit)
	}

	authRoute := apiRoute.Group("/auth")
	authRoute.Use(s.authLimiter.middleware())
	{
		authRoute.POST("/login", s.login)
		authRoute.POST("/signup", s.signUp)
	}

	alertRoute := apiRoute.Group("/alerts")
	alertRoute.Use(s.authMiddleware())
	alertRoute.Use(s.recognizeWorkerMiddleware())
	{
		alertRoute.GET("", s.alertList)
		alertRoute.PATCH("/:alertID/contacting", s.alertContacting)
		alertRoute.POST("/:alertID/resolve", s.alertResolve)
	}

	r.GET("/healthz", s.healthz)

	return r
}

// Shutdown to shutdown the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// shouldInterupt sends error message and determine if it should interupt the current flow
func shouldInterupt(err error, c *gin.Context) bool {
	if err == nil {
		return false
	}

	log.Error(err)
	abortWithEncoding(c, http.StatusInternalServerError, errorInternalServer, err)
	return true
}

func (s *Server) healthz(c *gin.Context) {
	for _, p := range s.pingers {
		if shouldInterupt(p.Ping(), c) {
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"version": viper.GetString("server.version"),
	})
}

func (s *Server) information(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"information": map[string]interface{}{
			"server": map[string]interface{}{
				"version": viper.GetString("server.version"),
			},
			"system_version": "Cardiac Triage 0.1",
			"phone_prefix":   schema.PhoneCountryPrefix,
			"symptoms":       schema.Symptoms,
			"durations":      schema.Durations,
			"resolutions":    schema.Resolutions,
			"statuses":       schema.StatusFilters,
		},
	})
}

func responseWithEncoding(c *gin.Context, code int, obj ErrorResponse) {
	acceptEncoding := c.GetHeader("Accept-Encoding")
	switch acceptEncoding {
	default:
		c.JSON(code, obj)
	}
}

func abortWithEncoding(c *gin.Context, code int, obj ErrorResponse, errors ...error) {
	for _, err := range errors {
		c.Error(err)
	}
	responseWithEncoding(c, code, obj)
	c.Abort()
}
