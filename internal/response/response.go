package response

import "github.com/danilofortes/stackhabit/internal"

type APIResponse struct {
	Data  interface{}        `json:"data,omitempty"`
	Meta  map[string]any     `json:"meta,omitempty"`
	Error *internal.AppError `json:"error,omitempty"`
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta}
}

func BadRequest(msg string) APIResponse {
	return APIResponse{Error: internal.InvalidError(msg)}
}

func NotFound(msg string) APIResponse {
	return APIResponse{Error: internal.NotFoundError(msg)}
}

func Conflict(msg string) APIResponse {
	return APIResponse{Error: internal.ConflictError(msg)}
}

func Unauthorized(msg string) APIResponse {
	return APIResponse{Error: internal.UnauthorizedError(msg)}
}

func FromError(err error) APIResponse {
	return APIResponse{Error: internal.AsAppError(err)}
}
