package models

type ApiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    ErrorKind   `json:"kind,omitempty"`
	Total   int         `json:"total,omitempty"`
}

func SuccessResponse(data interface{}, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
	}
}

func ListResponse(data interface{}, total int, message string) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Message: message,
		Total:   total,
	}
}

func ErrorResponse(err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
	}
}

func KindErrorResponse(kind ErrorKind, err string) ApiResponse {
	return ApiResponse{
		Success: false,
		Error:   err,
		Kind:    kind,
	}
}
