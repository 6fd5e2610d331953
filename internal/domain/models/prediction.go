package models

// PredictRequest is the inbound prediction request body.
type PredictRequest struct {
	Symbol string `json:"symbol" validate:"required,min=1"`
}

// PredictionResult is the orchestrator's answer for one request.
type PredictionResult struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"predicted_price"`
	Saved  bool    `json:"saved"`
}

// RelayPayload is the body posted to the downstream predictions backend.
type RelayPayload struct {
	Symbol         string  `json:"symbol"`
	PredictedPrice float64 `json:"predictedPrice"`
}
