package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// StatusResponse reports the outcome of a single-record transition. Changed is
// false when the record was already in a terminal state and nothing happened.
type StatusResponse struct {
	Status  string `json:"status" example:"approved"`
	Changed bool   `json:"changed" example:"true"`
}
