package goVault

import "errors"

var (
	// ErrInvalidAmount is an exported constant or variable used by the vault engine.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrInvalidAddress is an exported constant or variable used by the vault engine.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrFeeExceedsMaximum is an exported constant or variable used by the vault engine.
	ErrFeeExceedsMaximum = errors.New("fee exceeds maximum")
	// ErrWithdrawalLimitExceeded is an exported constant or variable used by the vault engine.
	ErrWithdrawalLimitExceeded = errors.New("withdrawal limit exceeded")
	// ErrWithdrawalTooSoon is an exported constant or variable used by the vault engine.
	ErrWithdrawalTooSoon = errors.New("withdrawal timelock not elapsed")
	// ErrInsufficientBalance is an exported constant or variable used by the vault engine.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrUnauthorized is an exported constant or variable used by the vault engine.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAlreadyOperator is an exported constant or variable used by the vault engine.
	ErrAlreadyOperator = errors.New("already an operator")
	// ErrNotOperator is an exported constant or variable used by the vault engine.
	ErrNotOperator = errors.New("not an operator")
	// ErrCannotRemoveOwner is an exported constant or variable used by the vault engine.
	ErrCannotRemoveOwner = errors.New("owner cannot be removed from operator set")
	// ErrPaused is an exported constant or variable used by the vault engine.
	ErrPaused = errors.New("vault paused")
	// ErrReentrantCall is an exported constant or variable used by the vault engine.
	ErrReentrantCall = errors.New("reentrant call rejected")
	// ErrTransferFailed is an exported constant or variable used by the vault engine.
	ErrTransferFailed = errors.New("token transfer failed")
	// ErrVaultNotReady is an exported constant or variable used by the vault engine.
	ErrVaultNotReady = errors.New("vault not initialized")
	// ErrReceiptsDisabled is an exported constant or variable used by the vault engine.
	ErrReceiptsDisabled = errors.New("operation receipts disabled")
)
