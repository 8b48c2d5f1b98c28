package handler

// OpenAccountRequest represents a request to open a new account
type OpenAccountRequest struct {
	OwnerUserID string `json:"owner_user_id" binding:"required,uuid"`
	Currency    string `json:"currency" binding:"required,len=3"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID          string `json:"id"`
	OwnerUserID string `json:"owner_user_id"`
	State       string `json:"state"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// GrantAccessRequest represents a request to grant or update an access record
type GrantAccessRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Type   string `json:"type" binding:"required,oneof=OWNER OPERATOR VIEWER"`
}

// RevokeAccessRequest represents a request to revoke an access record
type RevokeAccessRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// AccessResponse represents an access record in API responses
type AccessResponse struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
	Type      string `json:"type"`
	State     string `json:"state"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// BalanceResponse represents a balance in API responses
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	UpdatedAt string `json:"updated_at"`
}

// MovementRequest represents a deposit or withdrawal request
type MovementRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	AccountID string `json:"account_id" binding:"required,uuid"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
	Currency  string `json:"currency" binding:"required,len=3"`
	Concept   string `json:"concept,omitempty"`
}

// TransferRequest represents a transfer request between two accounts
type TransferRequest struct {
	UserID        string `json:"user_id" binding:"required,uuid"`
	OriginID      string `json:"origin_account_id" binding:"required,uuid"`
	DestinationID string `json:"destination_account_id" binding:"required,uuid"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Currency      string `json:"currency" binding:"required,len=3"`
	Concept       string `json:"concept,omitempty"`
}

// TransactionResponse represents a transaction record in API responses
type TransactionResponse struct {
	ID        string `json:"id"`
	GroupID   string `json:"group_id"`
	UserID    string `json:"user_id"`
	AccountID string `json:"account_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
	State     string `json:"state"`
	Concept   string `json:"concept,omitempty"`
	CreatedAt string `json:"created_at"`
}

// TransferResponse represents the two legs created by a transfer
type TransferResponse struct {
	GroupID  string              `json:"group_id"`
	Outgoing TransactionResponse `json:"outgoing"`
	Incoming TransactionResponse `json:"incoming"`
}

// StatementEntryResponse represents an archived movement in API responses
type StatementEntryResponse struct {
	TransactionID string `json:"transaction_id"`
	GroupID       string `json:"group_id"`
	AccountID     string `json:"account_id"`
	Type          string `json:"type"`
	Direction     string `json:"direction"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	State         string `json:"state"`
	Concept       string `json:"concept,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}
