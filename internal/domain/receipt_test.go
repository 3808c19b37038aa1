package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validReceipt() *Receipt {
	acc := "acc-1"
	return &Receipt{
		AgencyID: "ag-1",
		Concept:  "Saldo paquete Bariloche",
		Amount:   MustParseMoney("150.00"),
		Currency: "ARS",
		Lines: []ReceiptPaymentLine{
			{Amount: MustParseMoney("100.00"), PaymentMethod: "cash", Position: 1},
			{Amount: MustParseMoney("50.00"), PaymentMethod: "credit", CreditAccountID: &acc, Position: 2},
		},
	}
}

func TestReceipt_Validate(t *testing.T) {
	usd := "USD"
	base := MustParseMoney("0.15")
	empty := ""

	tests := []struct {
		name    string
		mutate  func(r *Receipt)
		wantErr error
	}{
		{name: "valid", mutate: func(r *Receipt) {}},
		{name: "no lines", mutate: func(r *Receipt) { r.Lines = nil }},
		{name: "missing concept", mutate: func(r *Receipt) { r.Concept = " " }, wantErr: ErrInvalidReceipt},
		{name: "long concept", mutate: func(r *Receipt) { r.Concept = strings.Repeat("x", MaxConceptLen+1) }, wantErr: ErrInvalidReceipt},
		{name: "zero amount", mutate: func(r *Receipt) { r.Amount = ZeroMoney }, wantErr: ErrInvalidAmount},
		{name: "bad currency", mutate: func(r *Receipt) { r.Currency = "ZZZ" }, wantErr: ErrInvalidCurrency},
		{name: "lines do not add up", mutate: func(r *Receipt) { r.Amount = MustParseMoney("151.00") }, wantErr: ErrReceiptAmountMismatch},
		{name: "non positive line", mutate: func(r *Receipt) { r.Lines[0].Amount = ZeroMoney }, wantErr: ErrInvalidPaymentLine},
		{name: "line without method", mutate: func(r *Receipt) { r.Lines[0].PaymentMethod = "" }, wantErr: ErrInvalidPaymentLine},
		{name: "blank account reference", mutate: func(r *Receipt) { r.Lines[0].CreditAccountID = &empty }, wantErr: ErrInvalidPaymentLine},
		{name: "half base pair", mutate: func(r *Receipt) { r.BaseCurrency = &usd }, wantErr: ErrInvalidReceipt},
		{name: "full base pair", mutate: func(r *Receipt) { r.BaseCurrency = &usd; r.BaseAmount = &base }},
		{name: "half counter pair", mutate: func(r *Receipt) { r.CounterAmount = &base }, wantErr: ErrInvalidReceipt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReceipt()
			tt.mutate(r)

			err := r.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReceipt_CreditLines(t *testing.T) {
	lines := validReceipt().CreditLines()
	if len(lines) != 1 || lines[0].Position != 2 {
		t.Fatalf("expected only the credit line, got %+v", lines)
	}
}

func TestClientPayment_Reopen(t *testing.T) {
	receipt := "r-1"
	paidAt := time.Now()
	p := &ClientPayment{ID: "cp-1", Status: ClientPaymentPaid, PaidAt: &paidAt, ReceiptID: &receipt}

	from, to, err := p.Reopen(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from != ClientPaymentPaid || to != ClientPaymentPending {
		t.Fatalf("unexpected transition %s -> %s", from, to)
	}
	if p.ReceiptID != nil || p.PaidAt != nil {
		t.Fatal("expected receipt link and paid date to be cleared")
	}

	cancelled := &ClientPayment{ID: "cp-2", Status: ClientPaymentCancelled}
	if _, _, err := cancelled.Reopen(time.Now()); !errors.Is(err, ErrInvalidStatusChange) {
		t.Fatalf("expected ErrInvalidStatusChange, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	if l, o := ValidatePagination(0, -3); l != 50 || o != 0 {
		t.Fatalf("expected defaults, got %d %d", l, o)
	}
	if l, _ := ValidatePagination(5000, 0); l != 1000 {
		t.Fatalf("expected cap at 1000, got %d", l)
	}
}
