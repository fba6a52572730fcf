package context

import "context"

type ContextKey string

var (
	RequestIDKey = ContextKey("X-Request-Id")
	MethodKey    = ContextKey("X-Method")
	RouteKey     = ContextKey("X-Route")
	RemoteIPKey  = ContextKey("X-Remote-Ip")
	ClientIDKey  = ContextKey("X-Client-Id")
)

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	value, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, MethodKey, method)
}

func GetMethod(ctx context.Context) string {
	value, ok := ctx.Value(MethodKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, RouteKey, route)
}

func GetRoute(ctx context.Context) string {
	value, ok := ctx.Value(RouteKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRemoteIP(ctx context.Context, remoteIP string) context.Context {
	return context.WithValue(ctx, RemoteIPKey, remoteIP)
}

func GetRemoteIP(ctx context.Context) string {
	value, ok := ctx.Value(RemoteIPKey).(string)
	if !ok {
		return ""
	}
	return value
}

func SetClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ClientIDKey, clientID)
}

func GetClientID(ctx context.Context) string {
	value, ok := ctx.Value(ClientIDKey).(string)
	if !ok {
		return ""
	}
	return value
}
