package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores del ciclo de vida de invitaciones, expuestos en /metrics.
var (
	InvitationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "galeria_invitations_created_total",
		Help: "Invitaciones creadas.",
	})

	InvitationsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "galeria_invitations_accepted_total",
		Help: "Invitaciones aceptadas con éxito.",
	})

	InvitationsSweptExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "galeria_invitations_expired_swept_total",
		Help: "Invitaciones pendientes marcadas expired por el barrido.",
	})

	InvitationAcceptConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "galeria_invitation_accept_conflicts_total",
		Help: "Intentos de aceptación que perdieron la carrera o llegaron tarde.",
	})
)
