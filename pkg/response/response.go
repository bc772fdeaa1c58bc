package response

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/driveline/driveline/pkg/errcode"
)

// FailurePayload is the structured error body sent to clients
type FailurePayload struct {
	Kind string `json:"error"`
	Msg  string `json:"message"`
}

// JSON sends a success response with the given payload as-is
func JSON(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 response with the given payload
func Created(ctx context.Context, c *app.RequestContext, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// Error sends a structured failure payload; unknown errors map to SERVER_ERROR
func Error(ctx context.Context, c *app.RequestContext, err error) {
	if e, ok := err.(*errcode.Error); ok {
		c.JSON(e.Status, FailurePayload{Kind: e.Kind, Msg: e.Msg})
		return
	}
	c.JSON(http.StatusInternalServerError, FailurePayload{
		Kind: errcode.ErrServer.Kind,
		Msg:  err.Error(),
	})
}

// ErrorWithCode sends a failure payload for a known error value
func ErrorWithCode(ctx context.Context, c *app.RequestContext, e *errcode.Error) {
	c.JSON(e.Status, FailurePayload{Kind: e.Kind, Msg: e.Msg})
}
