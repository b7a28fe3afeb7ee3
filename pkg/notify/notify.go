// Package notify delivers best-effort assignment notifications to doctors.
// Dispatch fans out concurrently and collects one result per recipient;
// a failed delivery never affects other recipients or the schedule itself.
package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/pkg/db"
)

// Message is one notification payload.
type Message struct {
	Title string
	Body  string
}

// Request pairs a recipient with the message to deliver.
type Request struct {
	Doctor  db.Doctor
	Message Message
}

// Result reports the delivery outcome for one recipient.
type Result struct {
	DoctorID   string
	DoctorName string
	Err        error
}

// Notifier delivers a single notification over some channel.
type Notifier interface {
	Notify(ctx context.Context, doctor db.Doctor, msg Message) error
}

// Dispatch sends all requests concurrently and waits for every delivery
// attempt to finish. Results preserve request order.
func Dispatch(ctx context.Context, notifier Notifier, logger *zap.Logger, requests []Request) []Result {
	results := make([]Result, len(requests))

	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			err := notifier.Notify(ctx, req.Doctor, req.Message)
			results[i] = Result{
				DoctorID:   req.Doctor.ID,
				DoctorName: req.Doctor.Name,
				Err:        err,
			}
			if err != nil {
				logger.Warn("Notification delivery failed",
					zap.String("doctor_id", req.Doctor.ID),
					zap.Error(err))
			}
		}(i, req)
	}
	wg.Wait()

	return results
}

// EmailSender sends one email. The gmail client satisfies this.
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// EmailNotifier delivers notifications to a doctor's email address.
type EmailNotifier struct {
	sender EmailSender
}

// NewEmailNotifier creates an email-backed notifier.
func NewEmailNotifier(sender EmailSender) *EmailNotifier {
	return &EmailNotifier{sender: sender}
}

// Notify sends the message to the doctor's email address. Doctors without
// one are silently skipped; the roster itself records the assignment.
func (n *EmailNotifier) Notify(ctx context.Context, doctor db.Doctor, msg Message) error {
	if doctor.Email == "" {
		return nil
	}
	return n.sender.SendEmail(doctor.Email, msg.Title, msg.Body)
}
