package admin

// Notifier receives user-facing outcomes of store operations.
// It is injected at construction; there is no package-level instance.
type Notifier interface {
	Success(title, detail string)
	Info(title, detail string)
	Warn(title, detail string)
	// Error accepts an error (including *apperror.TransportError) or a string.
	Error(title string, err any)
}
