// Package client is the client side of the user directory: an HTTP API
// client and State, the view model behind the terminal UI. State loads the
// directory once, filters and paginates it locally, and keeps the local list
// in step with the records the server returns after each mutation.
package client
