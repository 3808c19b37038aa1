package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/agencydesk/creditledger/internal/domain"
)

// EntryUseCase serves entry listings and the manual postings that do not come
// from receipts: adjustments and payments to operators.
type EntryUseCase struct {
	accountRepo CreditAccountRepository
	entryRepo   CreditEntryRepository
	posting     *PostingUseCase
	reversal    *ReversalUseCase
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(
	accountRepo CreditAccountRepository,
	entryRepo CreditEntryRepository,
	posting *PostingUseCase,
	reversal *ReversalUseCase,
) *EntryUseCase {
	return &EntryUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		posting:     posting,
		reversal:    reversal,
	}
}

// ListEntriesInput represents input for listing entries.
type ListEntriesInput struct {
	AgencyID  string
	AccountID string
	Limit     int
	Offset    int
}

// ListEntries lists entries for an account of the agency, newest first.
func (uc *EntryUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.CreditEntry, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AgencyID, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	return uc.entryRepo.ListByAccount(ctx, input.AgencyID, input.AccountID, limit, offset)
}

// ManualPostingInput is an adjustment or an operator payment entered by hand.
type ManualPostingInput struct {
	AccountID     string
	Amount        domain.Money
	Currency      string
	DocumentType  string
	InvestmentID  *string
	OperatorDueID *string
	Concept       string
}

// PostManual posts adjust_up, adjust_down or investment entries. Receipt
// entries only come from the receipt workflow.
func (uc *EntryUseCase) PostManual(ctx context.Context, principal domain.Principal, input ManualPostingInput) (*PostResult, error) {
	if err := principal.Validate(); err != nil {
		return nil, err
	}

	docType, err := domain.ParseDocumentType(input.DocumentType)
	if err != nil {
		return nil, err
	}

	var source *domain.DocumentRef
	switch {
	case input.InvestmentID != nil && input.OperatorDueID != nil:
		return nil, fmt.Errorf("%w: both investment and operator due given", domain.ErrInvalidDocumentRef)
	case input.InvestmentID != nil:
		ref := domain.InvestmentRef(strings.TrimSpace(*input.InvestmentID))
		source = &ref
	case input.OperatorDueID != nil:
		ref := domain.OperatorDueRef(strings.TrimSpace(*input.OperatorDueID))
		source = &ref
	}

	switch docType {
	case domain.DocumentTypeAdjustUp, domain.DocumentTypeAdjustDown:
	case domain.DocumentTypeInvestment:
		if source == nil || source.Kind != domain.SourceInvestment {
			return nil, fmt.Errorf("%w: investment entries need an investment id", domain.ErrInvalidDocumentRef)
		}
	default:
		return nil, fmt.Errorf("%w: %s entries are posted by their document workflow", domain.ErrDocumentTypeNotAllowed, docType)
	}

	return uc.posting.Post(ctx, principal.AgencyID, PostInput{
		AccountID:    input.AccountID,
		Amount:       input.Amount,
		Currency:     input.Currency,
		DocumentType: string(docType),
		Source:       source,
		Concept:      strings.TrimSpace(input.Concept),
		CreatedBy:    principal.UserID,
	})
}

// ReverseInvestment removes every entry an investment posted.
func (uc *EntryUseCase) ReverseInvestment(ctx context.Context, principal domain.Principal, investmentID string) (*ReversalResult, error) {
	if err := principal.Validate(); err != nil {
		return nil, err
	}
	return uc.reversal.ReverseForDocument(ctx, principal.AgencyID, domain.InvestmentRef(investmentID))
}
