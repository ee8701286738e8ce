package constants

import "time"

const (
	AppName            = "consistency"
	DefaultKeyringUser = "store-connection"
	DefaultConfigPath  = "~/.config/consistency/data.json"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DocumentVersion is the schema version written into every persisted document
	DocumentVersion = 1

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "consistency-"

	// Notify constants
	NotifierLockfileName   = "consistency-notifier.lock"
	NotificationDurationMs = 5000
	TrayAppIdentifier      = "com.julianstephens.consistency"
	TrayProcessPrefix      = "consistency-tray"

	// Log file rotation
	LogDirName    = "logs"
	LogFileName   = "consistency.log"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3
	LogMaxAgeDays = 28

	// Reminder polling
	DefaultPollInterval = time.Minute

	// Server
	DefaultServerAddr = "127.0.0.1:8787"

	// Redis
	RedisDocumentKey = "consistency:document"
)
