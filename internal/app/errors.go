package app

import "tranquidescanso/internal/domain"

// writeErr turns an unexpected store fault on a write path into a conflict,
// which the boundary reports as a client error after the rollback.
func writeErr(entity string, err error) error {
	if err == nil || domain.IsDomain(err) {
		return err
	}
	return domain.Conflict(entity, "write rejected", err)
}

// storageErr is used by read paths and deletes.
func storageErr(entity string, err error) error {
	if err == nil || domain.IsDomain(err) {
		return err
	}
	return domain.Storage(entity, err)
}
