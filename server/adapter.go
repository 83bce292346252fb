package server

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/procureconcierge/portalbackend/models"
)

// AdapterParams binds a composed route list to a gin engine. Sessions is
// the only store the adapter itself needs: it resolves the cookie's session
// id to a live session before any handler runs.
type AdapterParams struct {
	Engine           *gin.Engine
	Routes           []Route
	Sessions         models.SessionStore
	CookieSecret     string
	TmpDir           string
	MaxMultipartSize int64
	Logger           zerolog.Logger
}

// Bind mounts every route onto the engine. The catch-all route maps to
// gin's NoRoute handler, keeping it last in matching order.
func Bind(params AdapterParams) {
	for _, route := range params.Routes {
		handler := makeGinHandler(route, params)
		switch {
		case route.Path == CatchAllPath:
			params.Engine.NoRoute(handler)
		case route.Method == MethodAny:
			params.Engine.Any(route.Path, handler)
		default:
			params.Engine.Handle(route.Method, route.Path, handler)
		}
	}
}

func parseBody(c *gin.Context, params AdapterParams) (any, error) {
	if c.Request.Method == http.MethodGet {
		return EmptyRequestBody{}, nil
	}
	contentType := c.ContentType()
	switch {
	case strings.Contains(contentType, "application/json"):
		raw, err := io.ReadAll(io.LimitReader(c.Request.Body, params.MaxMultipartSize))
		if err != nil {
			return nil, fmt.Errorf("read json body: %w", err)
		}
		return JSONRequestBody{Raw: raw}, nil
	case strings.Contains(contentType, "multipart/form-data"):
		fh, err := c.FormFile("file")
		if err != nil {
			// Multipart without a file field is treated as empty; the
			// resource decides whether that is acceptable.
			return EmptyRequestBody{}, nil
		}
		if fh.Size > params.MaxMultipartSize {
			return nil, fmt.Errorf("uploaded file exceeds %d bytes", params.MaxMultipartSize)
		}
		tmpPath := filepath.Join(params.TmpDir, uuid.New().String())
		if err := c.SaveUploadedFile(fh, tmpPath); err != nil {
			return nil, fmt.Errorf("save uploaded file: %w", err)
		}
		return FileRequestBody{
			Name:     fh.Filename,
			Path:     tmpPath,
			Metadata: []byte(c.PostForm("metadata")),
		}, nil
	default:
		return EmptyRequestBody{}, nil
	}
}

func makeGinHandler(route Route, params AdapterParams) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New()
		logger := params.Logger.With().Str("requestId", requestID.String()).Logger()

		// Any panic below becomes a fixed 500; it never takes the
		// process down and is always logged with its stack.
		defer func() {
			if r := recover(); r != nil {
				logger.Error().
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("unhandled panic while serving request")
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
			}
		}()

		ctx := c.Request.Context()

		cookieValue, _ := c.Cookie(SessionCookieName)
		sessionID := ParseSessionID(cookieValue, params.CookieSecret)
		session, err := params.Sessions.FindOrCreate(ctx, sessionID)
		if err != nil {
			logger.Error().Err(err).Msg("unable to resolve session")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
			return
		}

		body, err := parseBody(c, params)
		if err != nil {
			logger.Warn().Err(err).Msg("unable to parse request body")
			writeSessionCookie(c, session, params.CookieSecret)
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}

		routeParams := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			routeParams[p.Key] = p.Value
		}

		req := &Request{
			ID:      requestID,
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Params:  routeParams,
			Query:   c.Request.URL.Query(),
			Headers: c.Request.Header,
			Session: session,
			Body:    body,
			Logger:  logger,
		}

		if route.Handler.TransformRequest != nil {
			if err := route.Handler.TransformRequest(ctx, req); err != nil {
				logger.Error().Err(err).Msg("transform request failed")
				writeSessionCookie(c, session, params.CookieSecret)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
				return
			}
		}

		var hookState any
		if route.Hook != nil {
			hookState = route.Hook.Before(req)
		}

		resp, err := route.Handler.Respond(ctx, req)
		if err != nil {
			logger.Error().Err(err).Msg("respond failed")
			writeSessionCookie(c, session, params.CookieSecret)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
			return
		}

		if route.Hook != nil {
			route.Hook.After(hookState, req, &resp)
		}

		writeResponse(c, resp, params.CookieSecret)
	}
}

func writeSessionCookie(c *gin.Context, session *models.Session, secret string) {
	if session == nil {
		return
	}
	signed, err := SignSessionID(session.SessionID, secret)
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeResponse(c *gin.Context, resp Response, secret string) {
	for key, values := range resp.Headers {
		for _, v := range values {
			c.Writer.Header().Add(key, v)
		}
	}
	// The response carries whichever session should live in the cookie;
	// login/logout/signup swap sessions entirely.
	writeSessionCookie(c, resp.Session, secret)
	switch body := resp.Body.(type) {
	case JSONResponseBody:
		c.JSON(resp.Code, body.Value)
	case FileResponseBody:
		if body.ContentEncoding != "" {
			c.Writer.Header().Set("Content-Encoding", body.ContentEncoding)
		}
		if body.FileName != "" {
			c.Writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", body.FileName))
		}
		c.Data(resp.Code, body.ContentType, body.Buffer)
	case TextResponseBody:
		c.String(resp.Code, "%s", body.Value)
	case ErrorResponseBody:
		c.JSON(resp.Code, gin.H{"message": body.Err.Error()})
	default:
		c.Status(resp.Code)
	}
}

// CleanupTmpFile removes a multipart temp file; resources call this once
// the upload has been persisted or rejected.
func CleanupTmpFile(logger zerolog.Logger, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.Warn().Err(err).Str("path", path).Msg("unable to remove temp upload")
	}
}
