package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrPollNotOpen   = fmt.Errorf("%w: poll is not open for voting", ErrValidation)
	ErrPollNotFound  = fmt.Errorf("%w: poll not found", ErrPollNotOpen)
	ErrInvalidOption = fmt.Errorf("%w: option does not belong to poll", ErrValidation)
	ErrOptionsLocked = fmt.Errorf("%w: options can only change while the poll is a draft", ErrValidation)
	ErrTransition    = fmt.Errorf("%w: poll status transition not allowed", ErrValidation)

	ErrDuplicateVote    = errors.New("voter already cast a ballot in this poll")
	ErrLedgerContention = errors.New("ledger contention: append retries exhausted")
	ErrIntegrity        = errors.New("vote chain integrity violation")

	ErrReceiptNotFound  = errors.New("receipt not found")
	ErrAmbiguousReceipt = errors.New("receipt matches more than one vote")
)
