package ports

// URLOpener defines the interface for opening a bookmark in the system
// browser.
type URLOpener interface {
	// OpenURL opens the given address with the platform's default handler.
	OpenURL(url string) error
}
