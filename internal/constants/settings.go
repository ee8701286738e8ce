package constants

const (
	// Reminder slot names, also used as keys of the persisted "times" object
	SlotMorning   = "morning"
	SlotAfternoon = "afternoon"
	SlotEvening   = "evening"

	// Default reminder settings
	DefaultRemindersEnabled  = true
	DefaultMorningTime       = "09:00"
	DefaultAfternoonTime     = "14:00"
	DefaultEveningTime       = "20:00"
	DefaultActivityIcon      = "🎯"
	DefaultActivityColor     = "#FF6B35"
	ReminderPendingNameLimit = 3
)
