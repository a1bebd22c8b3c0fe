package model

// Error codes carried in APIError.Code.
const (
	CodeAuthenticationRequired = "authentication_required"
	CodeNotFound               = "not_found"
	CodeValidationFailed       = "validation_failed"
	CodeRateLimited            = "rate_limited"
	CodeStoreFailure           = "store_failure"
)

// APIError is the JSON body of every non-2xx store response.
type APIError struct {
	Message string `json:"error"`
	Code    string `json:"code"`
}
