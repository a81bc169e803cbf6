// Package access holds the single ownership rule gating reads and
// transitions: the caller must be the record's sender. The sign transition
// is exempt because the shareable link itself is the recipient's
// credential; that trust boundary is deliberate.
package access

import (
	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
)

type Guard struct{}

func NewGuard() Guard {
	return Guard{}
}

// Allow returns ErrPermissionDenied when the actor does not own the
// record. The error never carries record contents.
func (Guard) Allow(actorID string, inv *invoice.Invoice, action invoice.Action) error {
	if action == invoice.ActionSign {
		return nil
	}

	if actorID == "" || actorID != inv.SenderID {
		return invoice.ErrPermissionDenied
	}

	return nil
}
