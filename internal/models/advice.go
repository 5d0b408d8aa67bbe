package models

// AIAdviceResponse is the generated estimate for a service being logged.
type AIAdviceResponse struct {
	EstimatedCost         string   `json:"estimatedCost"`
	NextServiceSuggestion string   `json:"nextServiceSuggestion"`
	AdditionalTips        []string `json:"additionalTips"`
}

// AIDiagnosis is one possible cause of a reported problem.
type AIDiagnosis struct {
	PossibleCause string `json:"possibleCause"`
	EstimatedCost string `json:"estimatedCost"`
	Complexity    string `json:"complexity"`
}

type AIDiagnosisResponse struct {
	Analysis       []AIDiagnosis `json:"analysis"`
	Recommendation string        `json:"recommendation"`
}

// AdviceRequest asks for a cost estimate of a service type.
type AdviceRequest struct {
	ServiceType string `json:"serviceType" validate:"required"`
}

// DiagnosisRequest asks for likely causes of a problem description.
type DiagnosisRequest struct {
	Problem string `json:"problem" validate:"required"`
}
