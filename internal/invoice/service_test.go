package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/NANDHINI7390/signify-invoice/internal/access"
	"github.com/NANDHINI7390/signify-invoice/internal/invoice"
	"github.com/NANDHINI7390/signify-invoice/internal/signature"
)

func newService(repo *invoice.MockRepository, notifier invoice.Notifier, links invoice.LinkBuilder) *invoice.Service {
	return invoice.NewService(repo, access.NewGuard(), notifier, links)
}

type stubLinks struct{}

func (stubLinks) SignURL(id uuid.UUID) (string, error) {
	return "http://localhost:8080/sign/" + id.String(), nil
}

type stubNotifier struct {
	sent []invoice.Notification
}

func (n *stubNotifier) SendSignRequest(_ context.Context, notif invoice.Notification) error {
	n.sent = append(n.sent, notif)
	return nil
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    invoice.CreateParams
		setupMock func(m *invoice.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams(),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					NumberExists(gomock.Any(), "user-1", gomock.Any()).
					Return(false, nil)
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = uuid.New()
						inv.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "ValidationFailure",
			params: func() invoice.CreateParams {
				p := validParams()
				p.Description = ""
				return p
			}(),
			setupMock: func(m *invoice.MockRepository) {},
			wantErr:   &invoice.ValidationError{},
		},
		{
			name:   "NumberCollisionRetries",
			params: validParams(),
			setupMock: func(m *invoice.MockRepository) {
				gomock.InOrder(
					m.EXPECT().NumberExists(gomock.Any(), "user-1", gomock.Any()).Return(true, nil),
					m.EXPECT().NumberExists(gomock.Any(), "user-1", gomock.Any()).Return(false, nil),
				)
				m.EXPECT().
					CreateInvoice(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, inv *invoice.Invoice) error {
						inv.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:   "GenerationExhausted",
			params: validParams(),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().
					NumberExists(gomock.Any(), "user-1", gomock.Any()).
					Return(true, nil).
					Times(5)
			},
			wantErr: invoice.ErrGenerationExhausted,
		},
		{
			name:   "StoreFailure",
			params: validParams(),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().NumberExists(gomock.Any(), "user-1", gomock.Any()).Return(false, nil)
				m.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErr: &invoice.PersistenceError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := newService(repo, &stubNotifier{}, stubLinks{})
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				switch want := tt.wantErr.(type) {
				case *invoice.ValidationError:
					var verr *invoice.ValidationError
					assert.ErrorAs(t, err, &verr)
				case *invoice.PersistenceError:
					var perr *invoice.PersistenceError
					assert.ErrorAs(t, err, &perr)
				default:
					assert.ErrorIs(t, err, want)
				}

				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, invoice.StatusDraft, got.Status)
			assert.Regexp(t, `^INV-\d{4}-\d{4}$`, got.Number)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func pendingInvoice(id uuid.UUID) *invoice.Invoice {
	return &invoice.Invoice{
		ID:             id,
		Number:         "INV-2026-0042",
		SenderID:       "user-1",
		SenderName:     "Acme Consulting",
		SenderEmail:    "billing@acme.test",
		RecipientName:  "Jane Doe",
		RecipientEmail: "jane@example.test",
		Amount:         validParams().Amount,
		Currency:       "USD",
		Description:    "Consulting services",
		InvoiceDate:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:         invoice.StatusPending,
		CreatedAt:      time.Now(),
	}
}

func draftInvoice(id uuid.UUID) *invoice.Invoice {
	inv := pendingInvoice(id)
	inv.Status = invoice.StatusDraft

	return inv
}

func TestService_Dispatch(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		actorID   string
		setupMock func(m *invoice.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:    "Success",
			actorID: "user-1",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(draftInvoice(id), nil)
				m.EXPECT().MarkPending(gomock.Any(), id).Return(nil)
			},
		},
		{
			name:    "NotOwner",
			actorID: "intruder",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(draftInvoice(id), nil)
			},
			wantErr: invoice.ErrPermissionDenied,
		},
		{
			name:    "AlreadyPending",
			actorID: "user-1",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(pendingInvoice(id), nil)
			},
			wantErr: invoice.ErrInvalidTransition,
		},
		{
			name:    "NotFound",
			actorID: "user-1",
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(nil, invoice.ErrNotFound)
			},
			wantErr: invoice.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			tt.setupMock(repo)

			notifier := &stubNotifier{}
			svc := newService(repo, notifier, stubLinks{})

			got, err := svc.Dispatch(context.Background(), id, tt.actorID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				assert.Empty(t, notifier.sent)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, invoice.StatusPending, got.Status)

			require.Len(t, notifier.sent, 1)
			sent := notifier.sent[0]
			assert.Equal(t, "jane@example.test", sent.RecipientEmail)
			assert.Equal(t, "INV-2026-0042", sent.InvoiceNumber)
			assert.Equal(t, "$100.00", sent.Amount)
			assert.Contains(t, sent.SignLink, "/sign/")
		})
	}
}

func TestService_Sign(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name      string
		artifact  signature.Artifact
		setupMock func(m *invoice.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:     "Success",
			artifact: signature.Typed("Jane Doe"),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(pendingInvoice(id), nil)
				m.EXPECT().
					MarkSigned(gomock.Any(), id, gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:      "EmptyArtifact",
			artifact:  signature.Typed("   "),
			setupMock: func(m *invoice.MockRepository) {},
			wantErr:   invoice.ErrEmptySignature,
		},
		{
			name:     "OnDraft",
			artifact: signature.Typed("Jane Doe"),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(draftInvoice(id), nil)
			},
			wantErr: invoice.ErrInvalidTransition,
		},
		{
			name:     "AlreadySigned",
			artifact: signature.Typed("Jane Doe"),
			setupMock: func(m *invoice.MockRepository) {
				inv := pendingInvoice(id)
				inv.Status = invoice.StatusSigned
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(inv, nil)
			},
			wantErr: invoice.ErrAlreadySigned,
		},
		{
			name:     "LostRace",
			artifact: signature.Typed("Jane Doe"),
			setupMock: func(m *invoice.MockRepository) {
				m.EXPECT().GetInvoice(gomock.Any(), id).Return(pendingInvoice(id), nil)
				m.EXPECT().
					MarkSigned(gomock.Any(), id, gomock.Any(), gomock.Any()).
					Return(invoice.ErrAlreadySigned)
			},
			wantErr: invoice.ErrAlreadySigned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := invoice.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := newService(repo, &stubNotifier{}, stubLinks{})
			got, err := svc.Sign(context.Background(), id, tt.artifact)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, invoice.StatusSigned, got.Status)
			require.NotNil(t, got.Signature)
			assert.Equal(t, invoice.SignatureTyped, got.Signature.Kind)
			assert.Equal(t, "Jane Doe", string(got.Signature.Payload))
			require.NotNil(t, got.SignedAt)
		})
	}
}

func TestService_Get_PermissionDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(pendingInvoice(id), nil)

	svc := newService(repo, &stubNotifier{}, stubLinks{})

	got, err := svc.Get(context.Background(), id, "intruder")
	assert.ErrorIs(t, err, invoice.ErrPermissionDenied)
	assert.Nil(t, got)
	// The error must not leak record contents.
	assert.NotContains(t, err.Error(), "Jane Doe")
	assert.NotContains(t, err.Error(), "INV-2026-0042")
}

func TestService_GetForSigning_SkipsOwnershipCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().GetInvoice(gomock.Any(), id).Return(pendingInvoice(id), nil)

	svc := newService(repo, &stubNotifier{}, stubLinks{})

	got, err := svc.GetForSigning(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPending, got.Status)
}

func TestService_List_BoundsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := invoice.NewMockRepository(ctrl)
	repo.EXPECT().ListInvoices(gomock.Any(), "user-1", 50).Return(nil, nil)

	svc := newService(repo, &stubNotifier{}, stubLinks{})

	_, err := svc.List(context.Background(), "user-1", -3)
	require.NoError(t, err)
}
