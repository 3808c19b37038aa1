package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agencydesk/creditledger/internal/domain"
	"github.com/agencydesk/creditledger/internal/usecase"
)

func TestAccountFromDomain_BalanceIsFixedPointString(t *testing.T) {
	acc := &domain.CreditAccount{
		ID: "acc-1", SubjectType: domain.SubjectClient, SubjectID: "c-1",
		Currency: "ARS", Balance: domain.MustParseMoney("33.335"), Enabled: true,
	}

	data, err := json.Marshal(AccountFromDomain(acc))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"balance":"33.34"`)
	assert.Contains(t, string(data), `"subject_type":"client"`)
}

func TestReceiptFromDomain(t *testing.T) {
	account := "acc-1"
	r := &domain.Receipt{
		ID: "r-1", Concept: "pago", Amount: domain.MustParseMoney("100"), Currency: "ARS",
		IssuedAt: time.Now(),
		Lines: []domain.ReceiptPaymentLine{
			{ID: "l-1", Amount: domain.MustParseMoney("100"), PaymentMethod: "credit", CreditAccountID: &account, Position: 1},
		},
	}

	resp := ReceiptFromDomain(r)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "acc-1", *resp.Payments[0].CreditAccountID)
	assert.Equal(t, 1, resp.Payments[0].Position)
}

func TestReversalFromResult(t *testing.T) {
	res := &usecase.ReversalResult{
		Source:  domain.InvestmentRef("inv-1"),
		Entries: []*domain.CreditEntry{{ID: "e-1"}, {ID: "e-2"}},
		Deltas:  map[string]domain.Money{"acc-1": domain.MustParseMoney("80")},
	}

	resp := ReversalFromResult(res)
	assert.Equal(t, 2, resp.EntriesRemoved)
	assert.Equal(t, "80.00", resp.Deltas["acc-1"].String())
	assert.Equal(t, domain.InvestmentRef("inv-1").String(), resp.Source)
}
