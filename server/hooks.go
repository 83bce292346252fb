package server

import (
	"time"

	"github.com/rs/zerolog"
)

// RouteHook runs cross-cutting logic around a route's handler without
// altering its business semantics. Before may return state that After
// receives once the response value is produced.
type RouteHook interface {
	Before(req *Request) any
	After(state any, req *Request, resp *Response)
}

type combinedHook struct {
	hooks []RouteHook
}

func CombineHooks(hooks ...RouteHook) RouteHook {
	return combinedHook{hooks: hooks}
}

func (c combinedHook) Before(req *Request) any {
	states := make([]any, len(c.hooks))
	for i, h := range c.hooks {
		states[i] = h.Before(req)
	}
	return states
}

func (c combinedHook) After(state any, req *Request, resp *Response) {
	states, ok := state.([]any)
	if !ok {
		return
	}
	for i, h := range c.hooks {
		h.After(states[i], req, resp)
	}
}

// LoggerHook emits one structured line per handled request.
type LoggerHook struct {
	Logger zerolog.Logger
}

func (h LoggerHook) Before(req *Request) any {
	h.Logger.Debug().
		Str("requestId", req.ID.String()).
		Str("method", req.Method).
		Str("path", req.Path).
		Msg("request received")
	return time.Now()
}

func (h LoggerHook) After(state any, req *Request, resp *Response) {
	start, ok := state.(time.Time)
	if !ok {
		return
	}
	h.Logger.Info().
		Str("requestId", req.ID.String()).
		Str("method", req.Method).
		Str("path", req.Path).
		Int("code", resp.Code).
		Dur("duration", time.Since(start)).
		Msg("request handled")
}
