package leave

import "errors"

var (
	ErrInvalidLeaveRecord = errors.New("leave record must name an employee and exactly one of date or weekday")
	ErrUnknownWeekday     = errors.New("unknown weekday label")
	ErrRegistryReadOnly   = errors.New("leave registry is read-only")
)
