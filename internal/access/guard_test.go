package access_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/NANDHINI7390/signify-invoice/internal/access"
	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
)

func TestGuard_Allow(t *testing.T) {
	inv := &invoice.Invoice{
		ID:       uuid.New(),
		SenderID: "owner",
		Status:   invoice.StatusPending,
	}

	type testCase struct {
		name    string
		actorID string
		action  invoice.Action
		wantErr error
	}

	tests := []testCase{
		{name: "OwnerReads", actorID: "owner", action: invoice.ActionRead},
		{name: "OwnerTransitions", actorID: "owner", action: invoice.ActionTransition},
		{name: "StrangerRead", actorID: "stranger", action: invoice.ActionRead, wantErr: invoice.ErrPermissionDenied},
		{name: "StrangerTransition", actorID: "stranger", action: invoice.ActionTransition, wantErr: invoice.ErrPermissionDenied},
		{name: "AnonymousRead", actorID: "", action: invoice.ActionRead, wantErr: invoice.ErrPermissionDenied},
		// Signing rides on link possession, not identity.
		{name: "StrangerSigns", actorID: "stranger", action: invoice.ActionSign},
		{name: "AnonymousSigns", actorID: "", action: invoice.ActionSign},
	}

	guard := access.NewGuard()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.Allow(tt.actorID, inv, tt.action)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}
