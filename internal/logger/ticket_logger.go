package logger

import (
	"github.com/sirupsen/logrus"
)

// TicketLogger provides an audit trail for simulated and submitted tickets.
type TicketLogger struct {
	*logrus.Entry
}

// NewTicketLogger creates a new ticket logger.
func NewTicketLogger(baseLogger *logrus.Logger) *TicketLogger {
	return &TicketLogger{
		Entry: baseLogger.WithField("component", "ticket"),
	}
}

// LogTicketSimulated logs a ticket placed against the simulated bankroll.
func (tl *TicketLogger) LogTicketSimulated(ticketID, mode string, legs int, stake, cost, bankrollAfter string) {
	tl.WithFields(logrus.Fields{
		"ticket_id":      ticketID,
		"mode":           mode,
		"legs":           legs,
		"stake":          stake,
		"cost":           cost,
		"bankroll_after": bankrollAfter,
	}).Info("Ticket simulated")
}

// LogTicketRejected logs a ticket that could not be simulated or submitted.
func (tl *TicketLogger) LogTicketRejected(mode string, legs int, reason string) {
	tl.WithFields(logrus.Fields{
		"mode":   mode,
		"legs":   legs,
		"reason": reason,
	}).Warn("Ticket rejected")
}

// LogTicketSubmitted logs a ticket accepted by the backend.
func (tl *TicketLogger) LogTicketSubmitted(requestID, mode string, legs int, ticketIDs []string) {
	tl.WithFields(logrus.Fields{
		"request_id": requestID,
		"mode":       mode,
		"legs":       legs,
		"ticket_ids": ticketIDs,
	}).Info("Ticket submitted")
}
