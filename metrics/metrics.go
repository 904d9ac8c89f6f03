package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var WorkflowTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flowdesk_workflow_transitions_total",
	Help: "Workflow step transitions by action.",
}, []string{"action"})

var SchedulerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "flowdesk_scheduler_runs_total",
	Help: "Scheduled report runs by result.",
}, []string{"result"})

var ReportDeliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "flowdesk_report_delivery_failures_total",
	Help: "Report mail deliveries that failed or had no recipients.",
})
