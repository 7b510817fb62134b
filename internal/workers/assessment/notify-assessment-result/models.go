// internal/workers/assessment/notify-assessment-result/models.go
package notifyassessmentresult

import "career-guidance-workers/internal/models"

type Input struct {
	AssessmentID    string                        `json:"assessmentId"`
	StudentName     string                        `json:"studentName,omitempty"`
	ContactEmail    string                        `json:"contactEmail,omitempty"`
	ContactPhone    string                        `json:"contactPhone,omitempty"`
	Recommendations []models.CareerRecommendation `json:"recommendations"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"`
	Channels       []string `json:"channels"`
	SentAt         string   `json:"sentAt"`
}

const (
	StatusSent     = "sent"
	StatusPartial  = "partial"
	StatusDisabled = "disabled"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
