// Package metrics defines and registers all custom Prometheus metrics for the
// trading journal API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation; HTTP request metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trading"

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordMutationsTotal counts successful trading record mutations.
// Labels:
//   - op: "create", "update" or "delete"
//   - transaction_type: "buy", "sell", or "" for deletes
var RecordMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "record_mutations_total",
		Help:      "Total number of trading record mutations, by operation.",
	},
	[]string{"op", "transaction_type"},
)

// IdempotentReplaysTotal counts creates answered from a stored Idempotency-Key.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of record creates served from an idempotency key.",
	},
)

// ── Identity metrics ──────────────────────────────────────────────────────────

// AuthAttemptsTotal counts identity provider calls.
// Labels:
//   - action: "signup", "signin" or "signout"
//   - result: "ok" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of sign-up, sign-in and sign-out attempts.",
	},
	[]string{"action", "result"},
)

// ── Role metrics ──────────────────────────────────────────────────────────────

// RoleFallbacksTotal counts role lookups that fell back to the default role.
// Label:
//   - reason: "no_row" or "lookup_error"
var RoleFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_fallbacks_total",
		Help:      "Total number of role resolutions that defaulted to the user role.",
	},
	[]string{"reason"},
)

// RoleChangesTotal counts role assignments made by administrators.
// Label:
//   - role: the role that was assigned
var RoleChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_changes_total",
		Help:      "Total number of role assignments, by assigned role.",
	},
	[]string{"role"},
)
