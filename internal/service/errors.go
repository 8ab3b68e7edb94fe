package service

import "errors"

var (
	ErrZoneNotFound     = errors.New("zone not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrZoneLocked       = errors.New("water pressure too low to activate zone")
	ErrInvalidZoneName  = errors.New("zone name is required")
	ErrInvalidStartTime = errors.New("start time must be HH:MM")
	ErrInvalidDuration  = errors.New("duration must be between 1 and 180 minutes")
	ErrInvalidDays      = errors.New("days must be a non-empty set of 0 (Sunday) .. 6 (Saturday)")
	ErrInvalidMode      = errors.New("operation mode must be automatic or online")
	ErrInvalidPressure  = errors.New("water pressure must be a finite number")
	ErrInvalidSession   = errors.New("session end must not precede start and water usage must be non-negative")
	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrInvalidOGImage   = errors.New("ogImage must not be empty")
	ErrReadBackup       = errors.New("read backup file")
	ErrBackupTooLarge   = errors.New("backup file too large")
)

// IsValidation reports whether err is caused by bad caller input.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidZoneName, ErrInvalidStartTime, ErrInvalidDuration, ErrInvalidDays,
		ErrInvalidMode, ErrInvalidPressure, ErrInvalidSession, ErrInvalidTimeRange, ErrInvalidOGImage,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
