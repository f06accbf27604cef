package domain

// Request and response DTOs for the HTTP surface. Validation tags are
// enforced by the handlers before anything reaches the services.

// CreateJobRequest is the payload for creating a job
type CreateJobRequest struct {
	Title               string   `json:"title" validate:"required,max=200"`
	Description         string   `json:"description" validate:"max=5000"`
	Category            string   `json:"category" validate:"required"`
	Priority            string   `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH EMERGENCY"`
	IsEmergency         bool     `json:"isEmergency"`
	Street              string   `json:"street" validate:"max=200"`
	City                string   `json:"city" validate:"max=100"`
	PostalCode          string   `json:"postalCode" validate:"max=20"`
	Country             string   `json:"country" validate:"max=100"`
	RequestedDate       string   `json:"requestedDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime           string   `json:"startTime" validate:"omitempty,datetime=15:04"`
	EndTime             string   `json:"endTime" validate:"omitempty,datetime=15:04"`
	EstimatedDuration   string   `json:"estimatedDuration" validate:"max=100"`
	EstimatedBudget     *float64 `json:"estimatedBudget" validate:"omitempty,gt=0"`
	SpecialInstructions string   `json:"specialInstructions" validate:"max=5000"`
	AccessInstructions  string   `json:"accessInstructions" validate:"max=5000"`
	ContactNumber       string   `json:"contactNumber" validate:"max=50"`
	Attachments         []string `json:"attachments" validate:"max=20"`
}

// AssignVendorRequest is the payload for assigning a vendor to a pending job
type AssignVendorRequest struct {
	VendorID        string `json:"vendorId" validate:"required,uuid"`
	ExpectedVersion int    `json:"expectedVersion" validate:"required,gte=1"`
}

// UnassignVendorRequest is the payload for returning an assigned job to the pool
type UnassignVendorRequest struct {
	Reason          string `json:"reason" validate:"max=1000"`
	ExpectedVersion int    `json:"expectedVersion" validate:"required,gte=1"`
}

// RespondToAssignmentRequest is the vendor's accept/reject of an assignment
type RespondToAssignmentRequest struct {
	Accept          bool   `json:"accept"`
	Reason          string `json:"reason" validate:"max=1000"`
	ExpectedVersion int    `json:"expectedVersion" validate:"required,gte=1"`
}

// QuoteItemRequest is one breakdown line of a quote payload
type QuoteItemRequest struct {
	Item      string  `json:"item" validate:"required,max=200"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" validate:"required,gte=0"`
}

// SendQuoteRequest is the payload for sending (or resending) a quote.
// Either a non-empty breakdown or a direct amount must be supplied.
type SendQuoteRequest struct {
	Amount            *float64           `json:"amount" validate:"omitempty,gt=0"`
	Description       string             `json:"description" validate:"max=5000"`
	Items             []QuoteItemRequest `json:"items" validate:"omitempty,dive"`
	ValidUntil        string             `json:"validUntil" validate:"omitempty,datetime=2006-01-02T15:04:05Z"`
	Terms             string             `json:"terms" validate:"max=5000"`
	EstimatedDuration string             `json:"estimatedDuration" validate:"max=100"`
	Inclusions        []string           `json:"inclusions" validate:"max=50"`
	Exclusions        []string           `json:"exclusions" validate:"max=50"`
	ExpectedVersion   int                `json:"expectedVersion" validate:"required,gte=1"`
}

// QuoteDecisionRequest is the customer's accept or reject of a quote
type QuoteDecisionRequest struct {
	Reason          string `json:"reason" validate:"max=1000"`
	ExpectedVersion int    `json:"expectedVersion" validate:"required,gte=1"`
}

// ConfirmPaymentRequest is the payment collaborator's callback payload
type ConfirmPaymentRequest struct {
	QuoteID         string  `json:"quoteId" validate:"required,uuid"`
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentRef      string  `json:"paymentRef" validate:"max=200"`
	ExpectedVersion int     `json:"expectedVersion" validate:"required,gte=1"`
}

// StartWorkRequest is the vendor's payload for starting work on a paid job
type StartWorkRequest struct {
	ExpectedVersion int `json:"expectedVersion" validate:"required,gte=1"`
}

// PostProgressRequest is the vendor's payload for appending a progress update
type PostProgressRequest struct {
	Stage           string   `json:"stage" validate:"required"`
	Description     string   `json:"description" validate:"max=5000"`
	Images          []string `json:"images" validate:"max=20"`
	ExpectedVersion int      `json:"expectedVersion" validate:"required,gte=1"`
}

// CancelJobRequest is the customer's payload for cancelling a job
type CancelJobRequest struct {
	Reason          string `json:"reason" validate:"required,max=1000"`
	ExpectedVersion int    `json:"expectedVersion" validate:"required,gte=1"`
}

// PostMessageRequest is the payload for a chat message
type PostMessageRequest struct {
	Type           string `json:"type" validate:"required,oneof=TEXT QUOTE CONTACT_INFO"`
	Content        string `json:"content" validate:"max=10000"`
	QuoteID        string `json:"quoteId" validate:"omitempty,uuid"`
	ContactPayload string `json:"contactPayload" validate:"max=5000"`
	Priority       string `json:"priority" validate:"omitempty,oneof=NORMAL HIGH"`
}

// SubmitFeedbackRequest is the customer's rating of a completed job
type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=5000"`
}

// QuoteItemDTO is a breakdown line in API responses
type QuoteItemDTO struct {
	ID        string  `json:"id"`
	Item      string  `json:"item"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// QuoteDTO is the API representation of a quote
type QuoteDTO struct {
	ID                string         `json:"id"`
	JobID             string         `json:"jobId"`
	VendorID          string         `json:"vendorId"`
	Amount            float64        `json:"amount"`
	Description       string         `json:"description,omitempty"`
	Items             []QuoteItemDTO `json:"items"`
	ValidUntil        string         `json:"validUntil,omitempty"`
	Terms             string         `json:"terms,omitempty"`
	EstimatedDuration string         `json:"estimatedDuration,omitempty"`
	Inclusions        []string       `json:"inclusions,omitempty"`
	Exclusions        []string       `json:"exclusions,omitempty"`
	Status            string         `json:"status"`
	RejectReason      string         `json:"rejectReason,omitempty"`
	CreatedAt         string         `json:"createdAt"`
}

// JobDTO is the API representation of a job
type JobDTO struct {
	ID                  string    `json:"id"`
	JobNumber           string    `json:"jobNumber"`
	Title               string    `json:"title"`
	Description         string    `json:"description,omitempty"`
	Category            string    `json:"category"`
	Priority            string    `json:"priority"`
	Status              string    `json:"status"`
	IsEmergency         bool      `json:"isEmergency"`
	Street              string    `json:"street,omitempty"`
	City                string    `json:"city,omitempty"`
	PostalCode          string    `json:"postalCode,omitempty"`
	Country             string    `json:"country,omitempty"`
	RequestedDate       string    `json:"requestedDate,omitempty"`
	StartTime           string    `json:"startTime,omitempty"`
	EndTime             string    `json:"endTime,omitempty"`
	EstimatedDuration   string    `json:"estimatedDuration,omitempty"`
	EstimatedBudget     *float64  `json:"estimatedBudget,omitempty"`
	TotalAmount         *float64  `json:"totalAmount,omitempty"`
	Subtotal            *float64  `json:"subtotal,omitempty"`
	TaxAmount           *float64  `json:"taxAmount,omitempty"`
	SpecialInstructions string    `json:"specialInstructions,omitempty"`
	AccessInstructions  string    `json:"accessInstructions,omitempty"`
	ContactNumber       string    `json:"contactNumber,omitempty"`
	Attachments         []string  `json:"attachments,omitempty"`
	CustomerID          string    `json:"customerId"`
	CustomerName        string    `json:"customerName,omitempty"`
	VendorID            string    `json:"vendorId,omitempty"`
	VendorName          string    `json:"vendorName,omitempty"`
	ActiveQuote         *QuoteDTO `json:"activeQuote,omitempty"`
	CurrentStage        string    `json:"currentStage,omitempty"`
	CancelReason        string    `json:"cancelReason,omitempty"`
	RejectReason        string    `json:"rejectReason,omitempty"`
	Version             int       `json:"version"`
	CreatedAt           string    `json:"createdAt"`
	UpdatedAt           string    `json:"updatedAt"`
}

// MessageDTO is the API representation of a chat message
type MessageDTO struct {
	ID             string `json:"id"`
	JobID          string `json:"jobId"`
	Seq            int64  `json:"seq"`
	SenderID       string `json:"senderId,omitempty"`
	SenderName     string `json:"senderName,omitempty"`
	SenderRole     string `json:"senderRole,omitempty"`
	Type           string `json:"type"`
	Content        string `json:"content,omitempty"`
	QuoteID        string `json:"quoteId,omitempty"`
	ContactPayload string `json:"contactPayload,omitempty"`
	Priority       string `json:"priority"`
	CreatedAt      string `json:"createdAt"`
}

// ProgressUpdateDTO is the API representation of a progress update
type ProgressUpdateDTO struct {
	ID             string   `json:"id"`
	JobID          string   `json:"jobId"`
	Stage          string   `json:"stage"`
	Description    string   `json:"description,omitempty"`
	Images         []string `json:"images,omitempty"`
	AuthorID       string   `json:"authorId,omitempty"`
	AuthorName     string   `json:"authorName,omitempty"`
	IsSystemUpdate bool     `json:"isSystemUpdate"`
	CreatedAt      string   `json:"createdAt"`
}

// FeedbackDTO is the API representation of job feedback
type FeedbackDTO struct {
	ID         string `json:"id"`
	JobID      string `json:"jobId"`
	CustomerID string `json:"customerId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

// NotificationDTO is the API representation of a notification
type NotificationDTO struct {
	ID        string `json:"id"`
	JobID     string `json:"jobId,omitempty"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message,omitempty"`
	IsRead    bool   `json:"isRead"`
	CreatedAt string `json:"createdAt"`
}

// StoredFileDTO is the API representation of an uploaded attachment
type StoredFileDTO struct {
	ID          string `json:"id"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	CreatedAt   string `json:"createdAt"`
}

// JobListResponse wraps a page of jobs with pagination metadata
type JobListResponse struct {
	Jobs       []JobDTO `json:"jobs"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
}

// MessageListResponse wraps a cursor read of messages. LatestSeq is the
// highest sequence on the job so clients can pass it as the next cursor
// even when the page is empty.
type MessageListResponse struct {
	Messages  []MessageDTO `json:"messages"`
	LatestSeq int64        `json:"latestSeq"`
}

// ProgressListResponse wraps a job's progress history and current stage
type ProgressListResponse struct {
	Updates      []ProgressUpdateDTO `json:"updates"`
	CurrentStage string              `json:"currentStage,omitempty"`
}

// StatusSummaryResponse is the per-status job count read model
type StatusSummaryResponse struct {
	Counts map[string]int64 `json:"counts"`
	Total  int64            `json:"total"`
}
