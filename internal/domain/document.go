package domain

import (
	"fmt"
	"strings"
)

// DocumentType tags what produced a credit entry. Entries store magnitudes;
// the type decides the polarity applied to the account balance.
type DocumentType string

const (
	DocumentTypeReceipt    DocumentType = "receipt"
	DocumentTypeInvestment DocumentType = "investment"
	DocumentTypeAdjustUp   DocumentType = "adjust_up"
	DocumentTypeAdjustDown DocumentType = "adjust_down"
)

var documentSigns = map[DocumentType]int{
	DocumentTypeReceipt:    1,
	DocumentTypeInvestment: -1,
	DocumentTypeAdjustUp:   1,
	DocumentTypeAdjustDown: -1,
}

// ParseDocumentType trims and lower-cases s and checks it against the sign table.
func ParseDocumentType(s string) (DocumentType, error) {
	dt := DocumentType(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := documentSigns[dt]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDocumentType, s)
	}
	return dt, nil
}

// ResolveSign maps a document type to +1 or -1. Unknown types are rejected
// instead of defaulting to +1.
func ResolveSign(documentType string) (int, error) {
	dt, err := ParseDocumentType(documentType)
	if err != nil {
		return 0, err
	}
	return documentSigns[dt], nil
}

// Sign returns the polarity of t.
func (t DocumentType) Sign() (int, error) {
	return ResolveSign(string(t))
}

// SignedAmount is amount times the polarity of documentType.
func SignedAmount(amount Money, documentType DocumentType) (Money, error) {
	sign, err := documentType.Sign()
	if err != nil {
		return Money{}, err
	}
	return amount.MulInt(int64(sign)), nil
}

// SourceKind identifies which foreign key of an entry groups it with its siblings.
type SourceKind string

const (
	SourceReceipt     SourceKind = "receipt"
	SourceInvestment  SourceKind = "investment"
	SourceOperatorDue SourceKind = "operator_due"
)

// DocumentRef points at the source document whose entries are posted and
// reversed together.
type DocumentRef struct {
	Kind SourceKind
	ID   string
}

func ReceiptRef(id string) DocumentRef     { return DocumentRef{Kind: SourceReceipt, ID: id} }
func InvestmentRef(id string) DocumentRef  { return DocumentRef{Kind: SourceInvestment, ID: id} }
func OperatorDueRef(id string) DocumentRef { return DocumentRef{Kind: SourceOperatorDue, ID: id} }

// Validate checks the kind is known and the id is present.
func (r DocumentRef) Validate() error {
	switch r.Kind {
	case SourceReceipt, SourceInvestment, SourceOperatorDue:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidDocumentRef, r.Kind)
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: empty %s id", ErrInvalidDocumentRef, r.Kind)
	}
	return nil
}

func (r DocumentRef) String() string {
	return string(r.Kind) + ":" + r.ID
}
