package models

const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

const (
	// MaxBookingHours ограничивает длительность одной брони
	MaxBookingHours = 12

	// MinCancellationHours минимальный запас до начала брони для отмены
	MinCancellationHours = 2.0

	// PeakMultiplier множитель тарифа в пиковые часы
	PeakMultiplier = 1.5

	// DefaultTimezone референсная таймзона для всех расчётов политик
	DefaultTimezone = "Asia/Kolkata"
)
