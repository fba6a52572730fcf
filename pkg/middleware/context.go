package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wayline/wayline/pkg/context"
)

// HeaderClientID identifies the calling application
const HeaderClientID = "X-Client-ID"

func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			clientID := req.Header.Get(HeaderClientID)

			ctx := req.Context()
			ctx = context.SetRequestID(ctx, requestID)
			ctx = context.SetMethod(ctx, req.Method)
			ctx = context.SetRoute(ctx, req.URL.Path)
			ctx = context.SetRemoteIP(ctx, c.RealIP())
			ctx = context.SetClientID(ctx, clientID)

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
