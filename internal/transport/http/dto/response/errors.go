package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrMealNotFound = ErrorResponse{
		Status:  "error",
		Error:   "meal_not_found",
		Details: "Meal not found",
	}

	ErrInvalidPassKey = ErrorResponse{
		Status:  "error",
		Error:   "invalid_pass_key",
		Details: "Invalid pass key",
	}

	ErrServerMisconfigured = ErrorResponse{
		Status:  "error",
		Error:   "server_configuration_error",
		Details: "Server configuration error",
	}
)
