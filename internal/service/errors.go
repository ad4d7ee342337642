package service

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrNotAdmin           = errors.New("access denied: admins only")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")
	ErrEmailDelivery      = errors.New("failed to send email")
	ErrUserNotFound       = errors.New("user not found")
	ErrIncorrectPassword  = errors.New("Current password is incorrect")
	ErrSamePassword       = errors.New("new password must differ from the current one")
	ErrInvalidTone        = errors.New("invalid tone")
	ErrEntryNotFound      = errors.New("journal entry not found")
	ErrInvalidDateRange   = errors.New("invalid date range")
	ErrModifySelf         = errors.New("admins cannot block or delete their own account")
	ErrInvalidStatus      = errors.New("invalid user status")
)
