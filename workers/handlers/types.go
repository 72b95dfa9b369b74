package handlers

type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type APIQuoteResponse struct {
	Status    string `json:"status"`
	FeeBps    int64  `json:"feeBps"`
	FeeAmount string `json:"feeAmount"`
	NetAmount string `json:"netAmount"`
	Tier      string `json:"volumeTier"`
}

type APISubmitResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
	State         string `json:"state"`
	// set only when registration failed after the on-chain leg succeeded
	SourceSignature string `json:"sourceSignature,omitempty"`
	// seconds until the rate-limit window resets
	RetryAfterSeconds int64 `json:"retryAfterSeconds,omitempty"`
}

type APIStateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type APIHealthResponse struct {
	Status  string `json:"status"`
	Healthy bool   `json:"healthy"`
}
