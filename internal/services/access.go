package services

import "github.com/farellandr/eventreg/internal/auth"

func requireActor(actor *auth.Actor) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	return nil
}

// requirePrivileged guards every category and event write.
func requirePrivileged(actor *auth.Actor) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.IsSuperuser {
		return ErrForbidden
	}
	return nil
}
