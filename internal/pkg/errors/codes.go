package errors

import "net/http"

var (
	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidMatrix = New(
		"INVALID_MATRIX",
		"Distance matrix must be square and match the number of points",
		http.StatusBadRequest,
	)

	ErrRouteNotFound = New(
		"ROUTE_NOT_FOUND",
		"No walking route found between the given points",
		http.StatusNotFound,
	)

	ErrMatrixUnavailable = New(
		"MATRIX_UNAVAILABLE",
		"Routing service could not provide a distance matrix",
		http.StatusBadGateway,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
