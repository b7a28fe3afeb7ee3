package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ashwinpillai/duty-roster/internal/config"
	"github.com/ashwinpillai/duty-roster/pkg/core/roster"
	"github.com/ashwinpillai/duty-roster/pkg/db"
	"github.com/ashwinpillai/duty-roster/pkg/grid"
)

// SendStore is the persistence surface the send service needs.
type SendStore interface {
	GetDutiesByDepartment(ctx context.Context, department string) ([]db.Duty, error)
	GetDoctorsByDepartment(ctx context.Context, department string) ([]db.Doctor, error)
	GetScheduleByWindow(ctx context.Context, start, end, department string) ([]db.ScheduleEntry, error)
	MarkEntriesSent(ctx context.Context, ids []string) error
}

// HTMLMailer sends one HTML email. The gmail client satisfies this.
type HTMLMailer interface {
	SendHTMLEmail(to, subject, htmlBody string) error
}

// SendFailure records one recipient the schedule could not be delivered to.
type SendFailure struct {
	DoctorID   string
	DoctorName string
	Reason     string
}

// SendResult reports the delivery outcome for one window.
type SendResult struct {
	WindowStart string
	WindowEnd   string
	Recipients  int
	Sent        int
	Failures    []SendFailure
	Marked      bool
}

// SendSchedule emails the window's schedule grid to every doctor who
// appears in it. Entries are marked sent only when every delivery
// succeeded, so a partial failure leaves the window eligible for a retry.
func SendSchedule(
	ctx context.Context,
	store SendStore,
	mailer HTMLMailer,
	cfg *config.Config,
	logger *zap.Logger,
	anchorDate, department string,
) (*SendResult, error) {
	if department == "" {
		return nil, fmt.Errorf("department is required")
	}

	anchor, err := parseDate(anchorDate)
	if err != nil {
		return nil, err
	}

	calendar := calendarFromConfig(cfg)
	start := calendar.WindowStart(anchor)
	days := calendar.Days(start)
	startKey := roster.DateKey(start)
	endKey := roster.DateKey(days[len(days)-1])

	entries, err := store.GetScheduleByWindow(ctx, startKey, endKey, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	var unsentIDs []string
	for _, entry := range entries {
		if entry.IsGenerated && !entry.IsSent {
			unsentIDs = append(unsentIDs, entry.ID)
		}
	}
	if len(unsentIDs) == 0 {
		return nil, fmt.Errorf("no unsent generated schedule for window %s to %s", startKey, endKey)
	}

	duties, err := store.GetDutiesByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get duties: %w", err)
	}

	doctors, err := store.GetDoctorsByDepartment(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctors: %w", err)
	}

	recipients := scheduleRecipients(entries, doctors)
	if len(recipients) == 0 {
		return nil, fmt.Errorf("schedule for window %s to %s names no known doctors", startKey, endKey)
	}

	html, err := renderScheduleEmail(grid.Build(entries, duties, doctors, days), department)
	if err != nil {
		return nil, err
	}
	subject := emailSubject(department, start, days[len(days)-1])

	logger.Info("Sending schedule",
		zap.String("window_start", startKey),
		zap.String("window_end", endKey),
		zap.Int("recipients", len(recipients)))

	result := &SendResult{
		WindowStart: startKey,
		WindowEnd:   endKey,
		Recipients:  len(recipients),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, doc := range recipients {
		if doc.Email == "" {
			result.Failures = append(result.Failures, SendFailure{
				DoctorID:   doc.ID,
				DoctorName: doc.Name,
				Reason:     "no email address on record",
			})
			continue
		}

		wg.Add(1)
		go func(doc db.Doctor) {
			defer wg.Done()
			err := mailer.SendHTMLEmail(doc.Email, subject, html)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn("Failed to send schedule",
					zap.String("doctor_id", doc.ID), zap.Error(err))
				result.Failures = append(result.Failures, SendFailure{
					DoctorID:   doc.ID,
					DoctorName: doc.Name,
					Reason:     err.Error(),
				})
				return
			}
			result.Sent++
		}(doc)
	}
	wg.Wait()

	if len(result.Failures) > 0 {
		logger.Warn("Schedule partially delivered, entries left unsent",
			zap.Int("sent", result.Sent),
			zap.Int("failed", len(result.Failures)))
		return result, nil
	}

	if err := store.MarkEntriesSent(ctx, unsentIDs); err != nil {
		return nil, fmt.Errorf("failed to mark entries sent: %w", err)
	}
	result.Marked = true

	logger.Info("Schedule sent", zap.Int("recipients", result.Sent))
	return result, nil
}

// scheduleRecipients collects the distinct doctors appearing in the
// window, primaries and proxies alike, in department list order.
func scheduleRecipients(entries []db.ScheduleEntry, doctors []db.Doctor) []db.Doctor {
	appearing := make(map[string]bool)
	for _, entry := range entries {
		if entry.DoctorID != "" {
			appearing[entry.DoctorID] = true
		}
		if entry.ProxyDoctorID != "" {
			appearing[entry.ProxyDoctorID] = true
		}
	}

	var recipients []db.Doctor
	for _, doc := range doctors {
		if appearing[doc.ID] {
			recipients = append(recipients, doc)
		}
	}
	return recipients
}
