// services/reminder_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"salonpro-api/models"
)

const (
	ChannelSMS      = "sms"
	ChannelWhatsApp = "whatsapp"
)

// MessageSender delivers one text message and returns the provider id.
type MessageSender interface {
	Send(ctx context.Context, channel, to, body string) (string, error)
}

// TwilioSender sends SMS or WhatsApp messages through the Twilio REST API.
type TwilioSender struct {
	client       *twilio.RestClient
	smsFrom      string
	whatsAppFrom string
}

func NewTwilioSender(accountSID, authToken, smsFrom, whatsAppFrom string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		smsFrom:      smsFrom,
		whatsAppFrom: whatsAppFrom,
	}
}

func (s *TwilioSender) Send(ctx context.Context, channel, to, body string) (string, error) {
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	if channel == ChannelWhatsApp {
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + s.whatsAppFrom)
	} else {
		params.SetTo(to)
		params.SetFrom(s.smsFrom)
	}

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if resp.Sid == nil {
		return "", nil
	}
	return *resp.Sid, nil
}

// LogSender only logs messages. Used when Twilio is not configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, channel, to, body string) (string, error) {
	s.Logger.Info("message not sent, no provider configured", "channel", channel, "to", to, "body", body)
	return "", nil
}

type ReminderStore interface {
	LoyaltyRewardCandidates(ctx context.Context, threshold int) ([]models.Customer, error)
	CreateNotificationLog(ctx context.Context, entry *models.NotificationLog) error
	ListNotificationLogs(ctx context.Context, limit int) ([]models.NotificationLog, error)
}

// ReminderService tells customers who reached the loyalty threshold that
// their next visit is free. Each customer is messaged at most once per
// visit: a sent notification newer than lastVisit suppresses the next one.
type ReminderService struct {
	store     ReminderStore
	sender    MessageSender
	threshold int
	logger    *slog.Logger
	cron      *cron.Cron
}

func NewReminderService(store ReminderStore, sender MessageSender, threshold int, logger *slog.Logger) *ReminderService {
	return &ReminderService{store: store, sender: sender, threshold: threshold, logger: logger}
}

// Start schedules SendLoyaltyReminders with a standard five-field cron spec.
func (s *ReminderService) Start(schedule string) error {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.SendLoyaltyReminders(ctx); err != nil {
			s.logger.Error("loyalty reminders failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("reminder scheduler started", "schedule", schedule)
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
}

func loyaltyMessage(c models.Customer) string {
	return fmt.Sprintf("Hi %s, thank you for your %d visits! Your next treatment with us is on the house.",
		c.Name, c.LoyaltyVisits)
}

// channelFor picks WhatsApp for E.164 numbers, SMS otherwise.
func channelFor(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return ChannelWhatsApp
	}
	return ChannelSMS
}

// SendLoyaltyReminders messages every pending loyalty candidate and returns
// how many messages were sent successfully. Failed sends are logged with
// status failed and retried on the next run.
func (s *ReminderService) SendLoyaltyReminders(ctx context.Context) (int, error) {
	customers, err := s.store.LoyaltyRewardCandidates(ctx, s.threshold)
	if err != nil {
		return 0, err
	}
	s.logger.Info("processing loyalty reminders", "candidates", len(customers))

	sent := 0
	for _, customer := range customers {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		message := loyaltyMessage(customer)
		channel := channelFor(customer.Phone)
		entry := models.NotificationLog{
			CustomerID: customer.ID,
			Type:       models.NotificationLoyaltyReward,
			Message:    message,
			Channel:    channel,
			Status:     models.NotificationSent,
			SentAt:     time.Now().UTC(),
		}

		sid, err := s.sender.Send(ctx, channel, customer.Phone, message)
		if err != nil {
			s.logger.Warn("failed to send loyalty reminder", "customer_id", customer.ID, "error", err)
			entry.Status = models.NotificationFailed
			entry.ErrorMessage = err.Error()
		} else {
			sent++
			s.logger.Info("loyalty reminder sent", "customer_id", customer.ID, "channel", channel, "sid", sid)
		}

		if err := s.store.CreateNotificationLog(ctx, &entry); err != nil {
			s.logger.Error("failed to log notification", "customer_id", customer.ID, "error", err)
		}
	}
	return sent, nil
}

// History returns the latest notification attempts, newest first.
func (s *ReminderService) History(ctx context.Context, limit int) ([]models.NotificationLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.store.ListNotificationLogs(ctx, limit)
}
