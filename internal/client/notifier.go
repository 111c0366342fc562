package client

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notifier shows short-lived messages to the user.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) {
	f(level, message)
}

const (
	msgAdded         = "User added successfully"
	msgAddFailed     = "Failed to add user"
	msgUpdated       = "User updated successfully"
	msgUpdateFailed  = "Failed to update user"
	msgDeleted       = "User deleted successfully"
	msgDeleteFailed  = "Failed to delete user"
	msgLoadFailed    = "Failed to load users"
	msgFormIncorrect = "Please fix the form errors"
)
