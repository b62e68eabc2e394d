// Package authz holds the access decision logic for stored files. It is a
// pure function over the requester, the operation and the target file; it
// performs no I/O and never mutates its inputs.
//
// Denial policy for resource-scoped operations:
//   - the file does not exist           -> ErrNotFound (regardless of auth)
//   - private file, no credentials      -> ErrUnauthenticated
//   - private file, authenticated other -> ErrForbidden
//
// A nonexistent id always reads as not-found so that probing cannot
// distinguish missing files from private ones.
package authz

import (
	"errors"

	"github.com/spec-kit/file-vault-service/internal/domain"
)

// Operation enumerates the actions subject to authorization.
type Operation string

const (
	OpUpload     Operation = "upload"
	OpListMine   Operation = "list_mine"
	OpListPublic Operation = "list_public"
	OpDownload   Operation = "download"
	OpDelete     Operation = "delete"
)

// Decision errors returned on deny.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("file not found")
)

// Requester is the identity attempting an operation, possibly anonymous.
type Requester struct {
	ID            domain.UserID
	Authenticated bool
}

// Anonymous returns a requester with no credentials.
func Anonymous() Requester {
	return Requester{}
}

// Authenticated returns a requester for a verified user id.
func Authenticated(id domain.UserID) Requester {
	return Requester{ID: id, Authenticated: true}
}

// Authorize decides whether the requester may perform op. For download and
// delete the target file must be passed; nil means the record does not
// exist. A nil error means ALLOW.
func Authorize(requester Requester, op Operation, file *domain.File) error {
	switch op {
	case OpUpload, OpListMine:
		if !requester.Authenticated {
			return ErrUnauthenticated
		}
		return nil

	case OpListPublic:
		return nil

	case OpDownload:
		if file == nil {
			return ErrNotFound
		}
		if file.IsPublic() {
			return nil
		}
		if !requester.Authenticated {
			return ErrUnauthenticated
		}
		if !file.OwnedBy(requester.ID) {
			return ErrForbidden
		}
		return nil

	case OpDelete:
		if file == nil {
			return ErrNotFound
		}
		if !requester.Authenticated {
			return ErrUnauthenticated
		}
		if !file.OwnedBy(requester.ID) {
			return ErrForbidden
		}
		return nil

	default:
		return ErrForbidden
	}
}
