package mapper

import (
	"time"

	"github.com/fixlane/marketplace-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ToJobDTO maps a job model to its API representation. The active quote is
// embedded when the quotes association contains it.
func ToJobDTO(job *domain.Job) domain.JobDTO {
	dto := domain.JobDTO{
		ID:                  job.ID.String(),
		JobNumber:           job.JobNumber,
		Title:               job.Title,
		Description:         job.Description,
		Category:            string(job.Category),
		Priority:            string(job.Priority),
		Status:              string(job.Status),
		IsEmergency:         job.IsEmergency,
		Street:              job.Street,
		City:                job.City,
		PostalCode:          job.PostalCode,
		Country:             job.Country,
		StartTime:           job.StartTime,
		EndTime:             job.EndTime,
		EstimatedDuration:   job.EstimatedDuration,
		EstimatedBudget:     job.EstimatedBudget,
		TotalAmount:         job.TotalAmount,
		Subtotal:            job.Subtotal,
		TaxAmount:           job.TaxAmount,
		SpecialInstructions: job.SpecialInstructions,
		AccessInstructions:  job.AccessInstructions,
		ContactNumber:       job.ContactNumber,
		Attachments:         job.Attachments,
		CustomerID:          job.CustomerID.String(),
		CancelReason:        job.CancelReason,
		RejectReason:        job.RejectReason,
		Version:             job.Version,
		CreatedAt:           formatTime(job.CreatedAt),
		UpdatedAt:           formatTime(job.UpdatedAt),
	}

	if job.RequestedDate != nil {
		dto.RequestedDate = job.RequestedDate.UTC().Format("2006-01-02")
	}
	if job.Customer != nil {
		dto.CustomerName = job.Customer.Name
	}
	if job.VendorID != nil {
		dto.VendorID = job.VendorID.String()
	}
	if job.Vendor != nil {
		dto.VendorName = job.Vendor.Name
	}
	if job.CurrentStage != nil {
		dto.CurrentStage = string(*job.CurrentStage)
	}
	if job.ActiveQuoteID != nil {
		for i := range job.Quotes {
			if job.Quotes[i].ID == *job.ActiveQuoteID {
				quoteDTO := ToQuoteDTO(&job.Quotes[i])
				dto.ActiveQuote = &quoteDTO
				break
			}
		}
	}
	return dto
}

// ToJobDTOs maps a slice of jobs
func ToJobDTOs(jobs []domain.Job) []domain.JobDTO {
	dtos := make([]domain.JobDTO, 0, len(jobs))
	for i := range jobs {
		dtos = append(dtos, ToJobDTO(&jobs[i]))
	}
	return dtos
}

// ToQuoteDTO maps a quote model to its API representation
func ToQuoteDTO(quote *domain.Quote) domain.QuoteDTO {
	dto := domain.QuoteDTO{
		ID:                quote.ID.String(),
		JobID:             quote.JobID.String(),
		VendorID:          quote.VendorID.String(),
		Amount:            quote.Amount,
		Description:       quote.Description,
		Items:             make([]domain.QuoteItemDTO, 0, len(quote.Items)),
		Terms:             quote.Terms,
		EstimatedDuration: quote.EstimatedDuration,
		Inclusions:        quote.Inclusions,
		Exclusions:        quote.Exclusions,
		Status:            string(quote.Status),
		RejectReason:      quote.RejectReason,
		CreatedAt:         formatTime(quote.CreatedAt),
	}
	if quote.ValidUntil != nil {
		dto.ValidUntil = formatTime(*quote.ValidUntil)
	}
	for i := range quote.Items {
		item := &quote.Items[i]
		dto.Items = append(dto.Items, domain.QuoteItemDTO{
			ID:        item.ID.String(),
			Item:      item.Item,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return dto
}

// ToQuoteDTOs maps a slice of quotes
func ToQuoteDTOs(quotes []domain.Quote) []domain.QuoteDTO {
	dtos := make([]domain.QuoteDTO, 0, len(quotes))
	for i := range quotes {
		dtos = append(dtos, ToQuoteDTO(&quotes[i]))
	}
	return dtos
}

// ToMessageDTO maps a message model to its API representation
func ToMessageDTO(msg *domain.Message) domain.MessageDTO {
	dto := domain.MessageDTO{
		ID:             msg.ID.String(),
		JobID:          msg.JobID.String(),
		Seq:            msg.Seq,
		SenderRole:     string(msg.SenderRole),
		Type:           string(msg.Type),
		Content:        msg.Content,
		ContactPayload: msg.ContactPayload,
		Priority:       string(msg.Priority),
		CreatedAt:      formatTime(msg.CreatedAt),
	}
	if msg.SenderID != nil {
		dto.SenderID = msg.SenderID.String()
	}
	if msg.Sender != nil {
		dto.SenderName = msg.Sender.Name
	}
	if msg.QuoteID != nil {
		dto.QuoteID = msg.QuoteID.String()
	}
	return dto
}

// ToMessageDTOs maps a slice of messages
func ToMessageDTOs(messages []domain.Message) []domain.MessageDTO {
	dtos := make([]domain.MessageDTO, 0, len(messages))
	for i := range messages {
		dtos = append(dtos, ToMessageDTO(&messages[i]))
	}
	return dtos
}

// ToProgressUpdateDTO maps a progress update model to its API representation
func ToProgressUpdateDTO(update *domain.ProgressUpdate) domain.ProgressUpdateDTO {
	dto := domain.ProgressUpdateDTO{
		ID:             update.ID.String(),
		JobID:          update.JobID.String(),
		Stage:          string(update.Stage),
		Description:    update.Description,
		Images:         update.Images,
		IsSystemUpdate: update.IsSystemUpdate,
		CreatedAt:      formatTime(update.CreatedAt),
	}
	if update.AuthorID != nil {
		dto.AuthorID = update.AuthorID.String()
	}
	if update.Author != nil {
		dto.AuthorName = update.Author.Name
	}
	return dto
}

// ToProgressUpdateDTOs maps a slice of progress updates
func ToProgressUpdateDTOs(updates []domain.ProgressUpdate) []domain.ProgressUpdateDTO {
	dtos := make([]domain.ProgressUpdateDTO, 0, len(updates))
	for i := range updates {
		dtos = append(dtos, ToProgressUpdateDTO(&updates[i]))
	}
	return dtos
}

// ToFeedbackDTO maps a feedback model to its API representation
func ToFeedbackDTO(feedback *domain.Feedback) domain.FeedbackDTO {
	return domain.FeedbackDTO{
		ID:         feedback.ID.String(),
		JobID:      feedback.JobID.String(),
		CustomerID: feedback.CustomerID.String(),
		Rating:     feedback.Rating,
		Comment:    feedback.Comment,
		CreatedAt:  formatTime(feedback.CreatedAt),
	}
}

// ToNotificationDTO maps a notification model to its API representation
func ToNotificationDTO(notification *domain.Notification) domain.NotificationDTO {
	dto := domain.NotificationDTO{
		ID:        notification.ID.String(),
		Type:      string(notification.Type),
		Title:     notification.Title,
		Message:   notification.Message,
		IsRead:    notification.IsRead,
		CreatedAt: formatTime(notification.CreatedAt),
	}
	if notification.JobID != nil {
		dto.JobID = notification.JobID.String()
	}
	return dto
}

// ToNotificationDTOs maps a slice of notifications
func ToNotificationDTOs(notifications []domain.Notification) []domain.NotificationDTO {
	dtos := make([]domain.NotificationDTO, 0, len(notifications))
	for i := range notifications {
		dtos = append(dtos, ToNotificationDTO(&notifications[i]))
	}
	return dtos
}

// ToStoredFileDTO maps a stored file model to its API representation
func ToStoredFileDTO(file *domain.StoredFile) domain.StoredFileDTO {
	return domain.StoredFileDTO{
		ID:          file.ID.String(),
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Size:        file.Size,
		CreatedAt:   formatTime(file.CreatedAt),
	}
}
