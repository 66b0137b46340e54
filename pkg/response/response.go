package response

// JSONResponse is the envelope used by middleware and error paths that do not
// go through a handler's own response shape.
type JSONResponse struct {
	Status  string      `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(message string, data interface{}) JSONResponse {
	return JSONResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

func Error(code, message string, data interface{}) JSONResponse {
	return JSONResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		Data:    data,
	}
}
