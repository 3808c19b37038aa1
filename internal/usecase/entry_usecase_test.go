package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

func TestEntryUseCase_PostManual(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.ManualPostingInput
		wantErr     error
		wantBalance string
	}{
		{
			name:        "adjust up",
			input:       usecase.ManualPostingInput{Amount: money("10"), Currency: "ARS", DocumentType: "adjust_up", Concept: "bonificación"},
			wantBalance: "110.00",
		},
		{
			name:        "adjust down",
			input:       usecase.ManualPostingInput{Amount: money("30.25"), Currency: "ARS", DocumentType: "ADJUST_DOWN"},
			wantBalance: "69.75",
		},
		{
			name:        "investment",
			input:       usecase.ManualPostingInput{Amount: money("150"), Currency: "ARS", DocumentType: "investment", InvestmentID: ptr("inv-9")},
			wantBalance: "-50.00",
		},
		{
			name:        "adjustment tied to operator due",
			input:       usecase.ManualPostingInput{Amount: money("5"), Currency: "ARS", DocumentType: "adjust_up", OperatorDueID: ptr("due-3")},
			wantBalance: "105.00",
		},
		{
			name:    "investment without id",
			input:   usecase.ManualPostingInput{Amount: money("150"), Currency: "ARS", DocumentType: "investment"},
			wantErr: domain.ErrInvalidDocumentRef,
		},
		{
			name:    "investment tied to operator due",
			input:   usecase.ManualPostingInput{Amount: money("150"), Currency: "ARS", DocumentType: "investment", OperatorDueID: ptr("due-3")},
			wantErr: domain.ErrInvalidDocumentRef,
		},
		{
			name: "both references",
			input: usecase.ManualPostingInput{Amount: money("1"), Currency: "ARS", DocumentType: "adjust_up",
				InvestmentID: ptr("inv-1"), OperatorDueID: ptr("due-1")},
			wantErr: domain.ErrInvalidDocumentRef,
		},
		{
			name:    "receipt entries come from receipts",
			input:   usecase.ManualPostingInput{Amount: money("1"), Currency: "ARS", DocumentType: "receipt"},
			wantErr: domain.ErrDocumentTypeNotAllowed,
		},
		{
			name:    "unknown type",
			input:   usecase.ManualPostingInput{Amount: money("1"), Currency: "ARS", DocumentType: "refund"},
			wantErr: domain.ErrUnknownDocumentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.seedAccount("acc-1", agencyA, domain.SubjectOperator, "ARS", "0")
			postFor(t, h, agencyA, "acc-1", "ARS", "100", "adjust_up", domain.OperatorDueRef("due-0"))

			in := tt.input
			in.AccountID = "acc-1"
			result, err := h.entryUC.PostManual(bg, principalA, in)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, "100.00", h.balance(t, "acc-1"))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, result.Balance.String())
			assert.Equal(t, tt.wantBalance, h.balance(t, "acc-1"))
			assert.Equal(t, "user-a", result.Entry.CreatedBy)
			h.requireInvariant(t, "acc-1")
		})
	}
}

func TestEntryUseCase_ReverseInvestment(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("op-1", agencyA, domain.SubjectOperator, "USD", "500")
	h.seedAccount("op-2", agencyA, domain.SubjectOperator, "USD", "500")

	for _, acc := range []string{"op-1", "op-2"} {
		_, err := h.entryUC.PostManual(bg, principalA, usecase.ManualPostingInput{
			AccountID: acc, Amount: money("120"), Currency: "USD", DocumentType: "investment", InvestmentID: ptr("inv-1"),
		})
		require.NoError(t, err)
	}
	assert.Equal(t, "380.00", h.balance(t, "op-1"))

	// Another agency cannot touch it.
	other, err := h.entryUC.ReverseInvestment(bg, principalB, "inv-1")
	require.NoError(t, err)
	assert.Empty(t, other.Entries)

	result, err := h.entryUC.ReverseInvestment(bg, principalA, "inv-1")
	require.NoError(t, err)
	assert.Len(t, result.Entries, 2)
	assert.Equal(t, "500.00", h.balance(t, "op-1"))
	assert.Equal(t, "500.00", h.balance(t, "op-2"))
}

func TestEntryUseCase_ListEntries(t *testing.T) {
	h := newHarness(t)
	h.seedAccount("acc-1", agencyA, domain.SubjectClient, "ARS", "0")

	for i := 0; i < 3; i++ {
		postFor(t, h, agencyA, "acc-1", "ARS", "10", "adjust_up", domain.OperatorDueRef("due-1"))
	}

	entries, err := h.entryUC.ListEntries(bg, usecase.ListEntriesInput{AgencyID: agencyA, AccountID: "acc-1"})
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	page, err := h.entryUC.ListEntries(bg, usecase.ListEntriesInput{AgencyID: agencyA, AccountID: "acc-1", Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	_, err = h.entryUC.ListEntries(bg, usecase.ListEntriesInput{AgencyID: agencyB, AccountID: "acc-1"})
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
