// Package metrics exposes scoring activity as prometheus counters.
package metrics

import (
	"quizshow-scoreboard/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder receives scoring activity.
type Recorder interface {
	ActionApplied(format domain.Format, action domain.Action)
	ActionBlocked(format domain.Format)
	Undo(cohort string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) ActionApplied(domain.Format, domain.Action) {}
func (Nop) ActionBlocked(domain.Format)                {}
func (Nop) Undo(string)                                {}

// Prometheus records into counters registered on a registry.
type Prometheus struct {
	actions *prometheus.CounterVec
	blocked *prometheus.CounterVec
	undos   *prometheus.CounterVec
}

func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoreboard",
			Name:      "actions_total",
			Help:      "Operator actions applied, by format and action.",
		}, []string{"format", "action"}),
		blocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoreboard",
			Name:      "blocked_actions_total",
			Help:      "Actions ignored because the player was suspended or out.",
		}, []string{"format"}),
		undos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scoreboard",
			Name:      "undo_total",
			Help:      "Undo steps taken, by cohort.",
		}, []string{"cohort"}),
	}
	reg.MustRegister(p.actions, p.blocked, p.undos)
	return p
}

func (p *Prometheus) ActionApplied(format domain.Format, action domain.Action) {
	p.actions.WithLabelValues(string(format), string(action)).Inc()
}

func (p *Prometheus) ActionBlocked(format domain.Format) {
	p.blocked.WithLabelValues(string(format)).Inc()
}

func (p *Prometheus) Undo(cohort string) {
	p.undos.WithLabelValues(cohort).Inc()
}
