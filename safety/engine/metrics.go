package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var contentCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name: "jewel_safety_check_duration_sec",
	Help: "Duration of content classification calls",
})

var contentCheckCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jewel_safety_checks",
	Help: "Number of content checks processed",
}, []string{"category", "outcome"})

var accountEscalationCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jewel_safety_account_escalations",
	Help: "Number of account escalations persisted",
}, []string{"status"})

var emergencyEventCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jewel_safety_emergency_events",
	Help: "Number of emergency events detected",
}, []string{"type"})

var refusalCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "jewel_safety_refusals",
	Help: "Number of agency refusals allowed",
}, []string{"reason"})
