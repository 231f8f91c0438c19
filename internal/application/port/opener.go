package port

// URLOpener hands a URL to the user's default external handler.
// Fire-and-forget: failures are logged, never surfaced.
type URLOpener interface {
	OpenExternal(url string)
}
