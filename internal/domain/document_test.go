package domain

import (
	"errors"
	"testing"
)

func TestResolveSign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "receipt", want: 1},
		{input: "investment", want: -1},
		{input: "adjust_up", want: 1},
		{input: "adjust_down", want: -1},
		{input: "  RECEIPT ", want: 1},
		{input: "Investment", want: -1},
		{input: "credit_note", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveSign(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownDocumentType) {
					t.Fatalf("expected ErrUnknownDocumentType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestSignedAmount(t *testing.T) {
	t.Parallel()

	in, err := SignedAmount(MoneyFromInt(100), DocumentTypeReceipt)
	if err != nil || in.String() != "100.00" {
		t.Fatalf("receipt: got %s, %v", in, err)
	}

	out, err := SignedAmount(MoneyFromInt(50), DocumentTypeInvestment)
	if err != nil || out.String() != "-50.00" {
		t.Fatalf("investment: got %s, %v", out, err)
	}
}

func TestDocumentRef_Validate(t *testing.T) {
	t.Parallel()

	if err := ReceiptRef("r-1").Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ReceiptRef(" ").Validate(); !errors.Is(err, ErrInvalidDocumentRef) {
		t.Fatalf("expected ErrInvalidDocumentRef, got %v", err)
	}
	if err := (DocumentRef{Kind: "booking", ID: "b-1"}).Validate(); !errors.Is(err, ErrInvalidDocumentRef) {
		t.Fatalf("expected ErrInvalidDocumentRef, got %v", err)
	}
	if got := InvestmentRef("i-9").String(); got != "investment:i-9" {
		t.Fatalf("unexpected string %q", got)
	}
}
