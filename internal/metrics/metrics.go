// Package metrics defines the Prometheus instrumentation for the core
// membership and messaging workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wandermate_messages_sent_total",
		Help: "Group chat messages accepted and persisted.",
	})

	MessagesRateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wandermate_messages_rate_limited_total",
		Help: "Message sends rejected by the per-user rate limiter.",
	})

	JoinRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wandermate_join_requests_total",
		Help: "Join requests created or re-opened after rejection.",
	})

	MembersApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wandermate_members_approved_total",
		Help: "Join requests approved by group creators.",
	})

	ApprovalsAtCapacity = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wandermate_approvals_at_capacity_total",
		Help: "Approvals rejected because the group was full.",
	})

	GroupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wandermate_groups_created_total",
		Help: "Travel groups created.",
	})

	WebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wandermate_websocket_clients",
		Help: "Currently connected websocket clients.",
	})
)
