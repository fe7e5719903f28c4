package apperrors

import "errors"

// ErrNotFound indicates that a requested campaign, account or milestone could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates an account balance is too low for the requested debit.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInsufficientDeposit indicates a creator deposit offer is below the required milestone deposit.
var ErrInsufficientDeposit = errors.New("insufficient deposit")

// ErrCampaignOverfunded indicates a contribution would push the current milestone past its target.
var ErrCampaignOverfunded = errors.New("campaign overfunded")

// ErrCampaignNotAcceptingFunds indicates the campaign is terminal or its current milestone's
// fate is undecided.
var ErrCampaignNotAcceptingFunds = errors.New("campaign not accepting funds")

// ErrInvalidTransition indicates the attempted state transition is not legal from the current state.
var ErrInvalidTransition = errors.New("invalid transition")

// ErrUnderflow indicates amount arithmetic would produce a negative value.
var ErrUnderflow = errors.New("amount underflow")

// ErrLockTimeout indicates the per-campaign lock could not be acquired within the bounded wait.
// This is the only error callers are expected to retry.
var ErrLockTimeout = errors.New("lock timeout")

// ErrConflict indicates a versioned compare-and-set write lost a race; callers should
// re-read before retrying.
var ErrConflict = errors.New("version conflict")

// ErrCorrupted indicates the conservation invariant was violated for a campaign.
// The campaign is frozen pending external reconciliation and never silently patched.
var ErrCorrupted = errors.New("campaign ledger corrupted")
