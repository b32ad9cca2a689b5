package transaction

// Outcome is the result slot of one orchestration run. The State field tags
// which variant is populated: Completed carries the status payload fields
// verbatim, Failed carries only Message.
type Outcome struct {
	State             State  `json:"state"`
	Amount            string `json:"amount,omitempty"`
	Currency          string `json:"currency,omitempty"`
	Status            string `json:"status,omitempty"`
	ProviderReference string `json:"provider_reference,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	Message           string `json:"message,omitempty"`
}

// Idle returns the initial outcome
func Idle() Outcome {
	return Outcome{State: StateIdle}
}

// Pending returns the outcome reported the instant an orchestration run begins
func Pending() Outcome {
	return Outcome{State: StatePending}
}

// Completed builds the terminal success outcome from a polled status payload.
// Fields are copied unaltered; placeholder rendering for absent values is a
// display concern and happens at the API layer.
func Completed(amount, currency, status, providerReference, transactionID string) Outcome {
	return Outcome{
		State:             StateCompleted,
		Amount:            amount,
		Currency:          currency,
		Status:            status,
		ProviderReference: providerReference,
		TransactionID:     transactionID,
	}
}

// Failed builds the terminal failure outcome
func Failed(message string) Outcome {
	return Outcome{State: StateFailed, Message: message}
}
