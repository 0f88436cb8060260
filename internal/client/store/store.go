package store

import (
	"github.com/dmitrijs2005/medscribe/internal/client/services"
	"github.com/dmitrijs2005/medscribe/internal/client/session"
	"github.com/dmitrijs2005/medscribe/internal/logging"
)

// Store is the client state: one slice per domain.
type Store struct {
	Auth       *Auth
	Patients   *Patients
	Encounters *Encounters
	Checklist  *Checklist
	Analytics  *Analytics
}

// New wires every slice. The auth slice subscribes to the session's
// hard-logout hook. A nil notifier sends notifications to the logger.
func New(svc *services.Services, sess *session.Manager, n Notifier, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Nop()
	}
	if n == nil {
		n = LogNotifier{Logger: logger}
	}
	return &Store{
		Auth:       newAuth(svc.Auth, sess, n, logger),
		Patients:   newPatients(svc.Patients, n, logger),
		Encounters: newEncounters(svc.Encounters, n, logger),
		Checklist:  newChecklist(svc.Checklist, n, logger),
		Analytics:  newAnalytics(svc.Analytics, n, logger),
	}
}
