package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ticket outcomes
const (
	TicketSimulated = "simulated"
	TicketSubmitted = "submitted"
	TicketRejected  = "rejected"
)

// Slip metrics
var (
	TicketsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_total",
		Help:      "Total number of tickets by mode and outcome",
	}, []string{"mode", "outcome"})
	SlipLegs = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "slip_legs",
		Help:      "Number of picks on the slip",
	})
	SlipRiskScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "slip_risk_score",
		Help:      "Heuristic slip risk score, 0 to 100",
	})
	Bankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "bankroll",
		Help:      "Simulated bankroll in currency units",
	})
)

// RecordTicket records a ticket outcome.
func RecordTicket(mode, outcome string) {
	TicketsTotal.WithLabelValues(mode, outcome).Inc()
}

// UpdateSlip updates the slip gauges.
func UpdateSlip(legs, riskScore int, bankroll float64) {
	SlipLegs.Set(float64(legs))
	SlipRiskScore.Set(float64(riskScore))
	Bankroll.Set(bankroll)
}
