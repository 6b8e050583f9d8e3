package server

// ErrorResponse is the failure body of the upload route.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// UploadData carries the stored asset URL.
type UploadData struct {
	URL string `json:"url"`
}

// UploadResponse is the success body of the upload route.
type UploadResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    *UploadData `json:"data,omitempty"`
}

// PaymentIntentRequest is the body of POST /create-payment-intent.
type PaymentIntentRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// PaymentIntentResponse is returned on success.
type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	ID           string `json:"id"`
}

// ProxyError is the failure body of the payment and inference routes.
type ProxyError struct {
	Error string `json:"error"`
}

// VersionInfo is reported by GET /version.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}
