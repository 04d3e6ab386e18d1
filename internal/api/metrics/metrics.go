// Package metrics defines the Prometheus metrics for the registration API.
// Metrics register with the default registry on package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pyconafrica/registration/internal/core/domain"
)

const namespace = "registration"

// ── Registration metrics ─────────────────────────────────────────────────────

// RegistrationsTotal counts sign-up submissions.
// Label:
//   - result: "created", "rejected" (field errors) or "error" (store or verifier failure)
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of sign-up submissions, by result.",
	},
	[]string{"result"},
)

// ValidationFailuresTotal counts rejected fields across every form.
// Labels:
//   - field: the rejected field (e.g. "email")
//   - code: the rejection code (e.g. "banned_email_domain")
var ValidationFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Total number of rejected form fields, by field and code.",
	},
	[]string{"field", "code"},
)

// ActivationsTotal counts activation attempts.
// Label:
//   - result: "activated" or "invalid"
var ActivationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activations_total",
		Help:      "Total number of account activation attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "inactive" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AccountChangesTotal counts successful self-service changes.
// Label:
//   - kind: "profile", "account" or "password"
var AccountChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_changes_total",
		Help:      "Total number of saved profile, account and password changes.",
	},
	[]string{"kind"},
)

// ObserveValidation records every field in verr.
func ObserveValidation(verr *domain.ValidationError) {
	for _, f := range verr.Fields {
		ValidationFailuresTotal.WithLabelValues(f.Field, string(f.Code)).Inc()
	}
}
