package api

import (
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"kycflow/internal/errors"
	"kycflow/internal/requestid"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// RequestID reuses an incoming X-Request-ID or assigns a new one, echoes it back
// and stores it on the request context for outbound calls
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if id == "" {
			id = requestid.New()
		}
		c.Header(requestid.Header, id)
		c.Request = c.Request.WithContext(requestid.NewContext(c.Request.Context(), id))
		c.Next()
	}
}

// AccessLogger logs one line per request
func AccessLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		log.Info().
			Str("request_id", requestid.FromContext(c.Request.Context())).
			Msgf("[access] [%s] %s %s %d %v", c.ClientIP(), c.Request.Method, c.Request.URL.Path, c.Writer.Status(), latency)
	}
}

// Recovery turns a panic into a 500 JSON error
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Msgf("Panic occurred: %v\n%s", err, debug.Stack())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("%v", err)})
			}
		}()
		c.Next()
	}
}

// requestIDHandler is the net/http form of RequestID for chi routers
func requestIDHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" {
			id = requestid.New()
		}
		w.Header().Set(requestid.Header, id)
		next.ServeHTTP(w, r.WithContext(requestid.NewContext(r.Context(), id)))
	})
}

// accessLogHandler is the net/http form of AccessLogger for chi routers
func accessLogHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		latency := time.Since(startTime)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Info().
			Str("request_id", ww.Header().Get(requestid.Header)).
			Msgf("[access] [%s] %s %s %d %v", clientIP(r), r.Method, r.URL.Path, status, latency)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Registrar adds a group of routes to a router
type Registrar interface {
	Register(r gin.IRouter)
}

// NewRouter creates a gin engine with the common middleware and the given routes
func NewRouter(registrars ...Registrar) *gin.Engine {
	engine := gin.New()
	engine.Use(RequestID(), AccessLogger(), Recovery())
	for _, registrar := range registrars {
		registrar.Register(engine)
	}
	return engine
}

// abortWithError writes err as {"error": msg} with the status its code maps to
func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(errors.HTTPStatus(err), gin.H{"error": err.Error()})
}
