package services

import (
	"context"
	"fmt"

	"github.com/nithinv16/DukaaOnWebsite/internal/events"
	"github.com/nithinv16/DukaaOnWebsite/internal/models"
	"github.com/nithinv16/DukaaOnWebsite/pkg/email"
)

// EnquiryMailer is the SMTP side of pkg/email
type EnquiryMailer interface {
	SendEnquiryNotification(to string, n email.EnquiryNotification) error
}

// TopicPusher is the FCM side of pkg/firebase
type TopicPusher interface {
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}

// EventPublisher is the Kafka side of internal/events
type EventPublisher interface {
	PublishEnquiryCreated(ctx context.Context, evt events.EnquiryCreated) error
}

// EmailNotifier mails every enquiry to the admin inbox
type EmailNotifier struct {
	mailer EnquiryMailer
	to     string
}

func NewEmailNotifier(mailer EnquiryMailer, to string) *EmailNotifier {
	return &EmailNotifier{mailer: mailer, to: to}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) NotifyEnquiry(ctx context.Context, e *models.EnquiryMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.mailer.SendEnquiryNotification(n.to, email.EnquiryNotification{
		EnquiryID:       e.ID.String(),
		VisitorName:     e.VisitorName,
		Email:           e.VisitorEmail,
		Phone:           FormatPhoneNumber(e.VisitorPhone),
		Location:        e.VisitorLocation,
		EnquiryType:     e.EnquiryType,
		StakeholderType: deref(e.StakeholderType),
		SellerID:        deref(e.SellerID),
		Message:         e.Message,
	})
}

// PushNotifier sends an FCM topic push to the admin app
type PushNotifier struct {
	pusher TopicPusher
	topic  string
}

func NewPushNotifier(pusher TopicPusher, topic string) *PushNotifier {
	return &PushNotifier{pusher: pusher, topic: topic}
}

func (n *PushNotifier) Name() string { return "fcm" }

func (n *PushNotifier) NotifyEnquiry(ctx context.Context, e *models.EnquiryMessage) error {
	title := fmt.Sprintf("New %s enquiry", e.EnquiryType)
	body := fmt.Sprintf("%s from %s", e.VisitorName, e.VisitorLocation)
	return n.pusher.SendToTopic(ctx, n.topic, title, body, map[string]string{
		"enquiryId":   e.ID.String(),
		"enquiryType": e.EnquiryType,
	})
}

// EventNotifier publishes enquiry.created; no visitor contact details leave the service
type EventNotifier struct {
	publisher EventPublisher
}

func NewEventNotifier(p EventPublisher) *EventNotifier {
	return &EventNotifier{publisher: p}
}

func (n *EventNotifier) Name() string { return "kafka" }

func (n *EventNotifier) NotifyEnquiry(ctx context.Context, e *models.EnquiryMessage) error {
	return n.publisher.PublishEnquiryCreated(ctx, events.EnquiryCreated{
		EnquiryID:       e.ID.String(),
		EnquiryType:     e.EnquiryType,
		SellerID:        deref(e.SellerID),
		StakeholderType: deref(e.StakeholderType),
		VisitorLocation: e.VisitorLocation,
		CreatedAt:       e.CreatedAt,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
