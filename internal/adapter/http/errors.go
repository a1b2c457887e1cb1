package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// errorBody is the JSON shape of every failure response: a stable kind
// plus a human-readable message
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// httpStatusFor maps the service's status codes onto HTTP statuses
func httpStatusFor(code codes.Code) int {
	switch code {
	case codes.InvalidArgument, codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.NotFound:
		return http.StatusNotFound
	case codes.Aborted:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a JSON failure response. Errors without a
// status code become opaque 500s.
func writeError(c *fiber.Ctx, err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": errorBody{Kind: codes.Internal.String(), Message: "internal error"},
		})
	}
	return c.Status(httpStatusFor(st.Code())).JSON(fiber.Map{
		"error": errorBody{Kind: st.Code().String(), Message: st.Message()},
	})
}
