package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the ID in the application rather than relying on a
// database default, so the models migrate cleanly onto sqlite test databases.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UserRoleType represents a platform role
type UserRoleType string

const (
	RoleCustomer   UserRoleType = "customer"
	RoleVendor     UserRoleType = "vendor"
	RoleAdmin      UserRoleType = "admin"
	RoleAPIService UserRoleType = "api_service"
)

// IsValid checks whether the role is one of the defined roles
func (r UserRoleType) IsValid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdmin, RoleAPIService:
		return true
	}
	return false
}

// User represents a platform account (customer, vendor or admin)
type User struct {
	BaseModel
	Name     string       `gorm:"type:varchar(200);not null"`
	Email    string       `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone    string       `gorm:"type:varchar(50)"`
	Role     UserRoleType `gorm:"type:varchar(50);not null;index"`
	IsActive bool         `gorm:"not null;default:true"`
}

// JobStatus represents the lifecycle status of a job
type JobStatus string

const (
	JobStatusPending       JobStatus = "PENDING"
	JobStatusAssigned      JobStatus = "ASSIGNED"
	JobStatusInDiscussion  JobStatus = "IN_DISCUSSION"
	JobStatusQuoteSent     JobStatus = "QUOTE_SENT"
	JobStatusQuoteAccepted JobStatus = "QUOTE_ACCEPTED"
	JobStatusPaid          JobStatus = "PAID"
	JobStatusInProgress    JobStatus = "IN_PROGRESS"
	JobStatusCompleted     JobStatus = "COMPLETED"
	JobStatusCancelled     JobStatus = "CANCELLED"
	JobStatusRejected      JobStatus = "REJECTED"
)

// IsValid checks whether the status is one of the defined statuses
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusAssigned, JobStatusInDiscussion,
		JobStatusQuoteSent, JobStatusQuoteAccepted, JobStatusPaid,
		JobStatusInProgress, JobStatusCompleted, JobStatusCancelled,
		JobStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether a job in this status accepts further transitions
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusCancelled, JobStatusRejected:
		return true
	}
	return false
}

// JobCategory represents the service category of a job
type JobCategory string

const (
	JobCategoryPlumbing        JobCategory = "plumbing"
	JobCategoryElectrical      JobCategory = "electrical"
	JobCategoryCarpentry       JobCategory = "carpentry"
	JobCategoryPainting        JobCategory = "painting"
	JobCategoryCleaning        JobCategory = "cleaning"
	JobCategoryApplianceRepair JobCategory = "appliance_repair"
	JobCategoryHVAC            JobCategory = "hvac"
	JobCategoryLandscaping     JobCategory = "landscaping"
	JobCategoryRoofing         JobCategory = "roofing"
	JobCategoryOther           JobCategory = "other"
)

// IsValid checks whether the category is one of the defined categories
func (c JobCategory) IsValid() bool {
	switch c {
	case JobCategoryPlumbing, JobCategoryElectrical, JobCategoryCarpentry,
		JobCategoryPainting, JobCategoryCleaning, JobCategoryApplianceRepair,
		JobCategoryHVAC, JobCategoryLandscaping, JobCategoryRoofing,
		JobCategoryOther:
		return true
	}
	return false
}

// JobPriority represents the urgency of a job
type JobPriority string

const (
	JobPriorityLow       JobPriority = "LOW"
	JobPriorityMedium    JobPriority = "MEDIUM"
	JobPriorityHigh      JobPriority = "HIGH"
	JobPriorityEmergency JobPriority = "EMERGENCY"
)

// IsValid checks whether the priority is one of the defined priorities
func (p JobPriority) IsValid() bool {
	switch p {
	case JobPriorityLow, JobPriorityMedium, JobPriorityHigh, JobPriorityEmergency:
		return true
	}
	return false
}

// Job represents a customer service request, the central lifecycle entity.
// Status is only ever mutated through the lifecycle service; the Version
// column is the optimistic-concurrency token checked on every update.
type Job struct {
	BaseModel
	JobNumber           string           `gorm:"type:varchar(30);uniqueIndex;not null"`
	Title               string           `gorm:"type:varchar(200);not null"`
	Description         string           `gorm:"type:text"`
	Category            JobCategory      `gorm:"type:varchar(50);not null;index"`
	Priority            JobPriority      `gorm:"type:varchar(20);not null;default:'MEDIUM';index"`
	Status              JobStatus        `gorm:"type:varchar(30);not null;default:'PENDING';index"`
	IsEmergency         bool             `gorm:"not null;default:false"`
	Street              string           `gorm:"type:varchar(200)"`
	City                string           `gorm:"type:varchar(100)"`
	PostalCode          string           `gorm:"type:varchar(20)"`
	Country             string           `gorm:"type:varchar(100)"`
	RequestedDate       *time.Time       `gorm:"index"`
	StartTime           string           `gorm:"type:varchar(10)"`
	EndTime             string           `gorm:"type:varchar(10)"`
	EstimatedDuration   string           `gorm:"type:varchar(100)"`
	EstimatedBudget     *float64         `gorm:"type:decimal(12,2)"`
	TotalAmount         *float64         `gorm:"type:decimal(12,2)"`
	Subtotal            *float64         `gorm:"type:decimal(12,2)"`
	TaxAmount           *float64         `gorm:"type:decimal(12,2)"`
	SpecialInstructions string           `gorm:"type:text"`
	AccessInstructions  string           `gorm:"type:text"`
	ContactNumber       string           `gorm:"type:varchar(50)"`
	Attachments         pq.StringArray   `gorm:"type:text[]"`
	CustomerID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	Customer            *User            `gorm:"foreignKey:CustomerID"`
	VendorID            *uuid.UUID       `gorm:"type:uuid;index"`
	Vendor              *User            `gorm:"foreignKey:VendorID"`
	ActiveQuoteID       *uuid.UUID       `gorm:"type:uuid"`
	CurrentStage        *ProgressStage   `gorm:"type:varchar(30)"`
	CancelReason        string           `gorm:"type:text"`
	RejectReason        string           `gorm:"type:text"`
	Version             int              `gorm:"not null;default:1"`
	Quotes              []Quote          `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	Messages            []Message        `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
	ProgressUpdates     []ProgressUpdate `gorm:"foreignKey:JobID;constraint:OnDelete:CASCADE"`
}

// QuoteStatus represents the lifecycle status of a quote
type QuoteStatus string

const (
	QuoteStatusPending    QuoteStatus = "pending"
	QuoteStatusAccepted   QuoteStatus = "accepted"
	QuoteStatusRejected   QuoteStatus = "rejected"
	QuoteStatusSuperseded QuoteStatus = "superseded"
	QuoteStatusExpired    QuoteStatus = "expired"
)

// Quote represents a vendor's priced proposal for a job.
// Superseded and rejected quotes are retained for history; only the quote
// referenced by Job.ActiveQuoteID may be accepted or rejected.
type Quote struct {
	BaseModel
	JobID             uuid.UUID      `gorm:"type:uuid;not null;index"`
	VendorID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	Amount            float64        `gorm:"type:decimal(12,2);not null"`
	Description       string         `gorm:"type:text"`
	Items             []QuoteItem    `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
	ValidUntil        *time.Time     `gorm:"index"`
	Terms             string         `gorm:"type:text"`
	EstimatedDuration string         `gorm:"type:varchar(100)"`
	Inclusions        pq.StringArray `gorm:"type:text[]"`
	Exclusions        pq.StringArray `gorm:"type:text[]"`
	Status            QuoteStatus    `gorm:"type:varchar(20);not null;default:'pending';index"`
	RejectReason      string         `gorm:"type:text"`
}

// QuoteItem is a single breakdown line on a quote
type QuoteItem struct {
	BaseModel
	QuoteID   uuid.UUID `gorm:"type:uuid;not null;index"`
	SortOrder int       `gorm:"not null;default:0"`
	Item      string    `gorm:"type:varchar(200);not null"`
	Quantity  float64   `gorm:"type:decimal(10,2);not null"`
	UnitPrice float64   `gorm:"type:decimal(12,2);not null"`
}

// MessageType represents the kind of a chat message
type MessageType string

const (
	MessageTypeText        MessageType = "TEXT"
	MessageTypeQuote       MessageType = "QUOTE"
	MessageTypeContactInfo MessageType = "CONTACT_INFO"
	MessageTypeSystem      MessageType = "SYSTEM"
)

// IsValid checks whether the message type is one of the defined types
func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeText, MessageTypeQuote, MessageTypeContactInfo, MessageTypeSystem:
		return true
	}
	return false
}

// MessagePriority represents the display priority of a message
type MessagePriority string

const (
	MessagePriorityNormal MessagePriority = "NORMAL"
	MessagePriorityHigh   MessagePriority = "HIGH"
)

// Message is an append-only chat-log entry on a job. Seq is assigned by the
// server inside the insert transaction and is strictly increasing per job;
// clients page with it instead of trusting timestamps.
type Message struct {
	BaseModel
	JobID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_messages_job_seq,priority:1"`
	Seq            int64           `gorm:"not null;uniqueIndex:idx_messages_job_seq,priority:2"`
	SenderID       *uuid.UUID      `gorm:"type:uuid;index"`
	Sender         *User           `gorm:"foreignKey:SenderID"`
	SenderRole     UserRoleType    `gorm:"type:varchar(50)"`
	Type           MessageType     `gorm:"type:varchar(20);not null;default:'TEXT'"`
	Content        string          `gorm:"type:text"`
	QuoteID        *uuid.UUID      `gorm:"type:uuid"`
	ContactPayload string          `gorm:"type:text"`
	Priority       MessagePriority `gorm:"type:varchar(10);not null;default:'NORMAL'"`
}

// ProgressStage represents one of the fixed work-execution checkpoints
type ProgressStage string

const (
	StagePaymentReceived  ProgressStage = "PAYMENT_RECEIVED"
	StageMaterialsOrdered ProgressStage = "MATERIALS_ORDERED"
	StageWorkScheduled    ProgressStage = "WORK_SCHEDULED"
	StageWorkInProgress   ProgressStage = "WORK_IN_PROGRESS"
	StageWorkCompleted    ProgressStage = "WORK_COMPLETED"
	StageCustomerApproval ProgressStage = "CUSTOMER_APPROVAL"
	StageJobClosed        ProgressStage = "JOB_CLOSED"
)

// stageOrder defines the canonical forward ordering of progress stages
var stageOrder = map[ProgressStage]int{
	StagePaymentReceived:  1,
	StageMaterialsOrdered: 2,
	StageWorkScheduled:    3,
	StageWorkInProgress:   4,
	StageWorkCompleted:    5,
	StageCustomerApproval: 6,
	StageJobClosed:        7,
}

// IsValid checks whether the stage is one of the defined stages
func (s ProgressStage) IsValid() bool {
	_, ok := stageOrder[s]
	return ok
}

// Rank returns the position of the stage in the canonical ordering,
// or 0 for an unknown stage.
func (s ProgressStage) Rank() int {
	return stageOrder[s]
}

// ProgressUpdate is an append-only work-log entry on a job. The stage
// sequence for a job never regresses; skipping ahead is permitted.
type ProgressUpdate struct {
	BaseModel
	JobID          uuid.UUID      `gorm:"type:uuid;not null;index"`
	Stage          ProgressStage  `gorm:"type:varchar(30);not null"`
	Description    string         `gorm:"type:text"`
	Images         pq.StringArray `gorm:"type:text[]"`
	AuthorID       *uuid.UUID     `gorm:"type:uuid"`
	Author         *User          `gorm:"foreignKey:AuthorID"`
	IsSystemUpdate bool           `gorm:"not null;default:false"`
}

// Feedback is the customer's rating of a completed job, one per job
type Feedback struct {
	BaseModel
	JobID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
}

// NotificationType categorizes a notification for client rendering
type NotificationType string

const (
	NotificationTypeAssignment NotificationType = "assignment"
	NotificationTypeQuote      NotificationType = "quote"
	NotificationTypePayment    NotificationType = "payment"
	NotificationTypeProgress   NotificationType = "progress"
	NotificationTypeStatus     NotificationType = "status"
)

// Notification is a per-user inbox entry emitted on lifecycle events
type Notification struct {
	BaseModel
	UserID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	JobID   *uuid.UUID       `gorm:"type:uuid;index"`
	Type    NotificationType `gorm:"type:varchar(30);not null"`
	Title   string           `gorm:"type:varchar(200);not null"`
	Message string           `gorm:"type:text"`
	IsRead  bool             `gorm:"not null;default:false;index"`
}

// StoredFile tracks an uploaded attachment and where its bytes live
type StoredFile struct {
	BaseModel
	FileName    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100);not null"`
	Size        int64      `gorm:"not null"`
	StoragePath string     `gorm:"type:varchar(500);not null"`
	UploadedBy  *uuid.UUID `gorm:"type:uuid"`
}
