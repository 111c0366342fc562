// Command userdir serves the user directory HTTP API.
//
// Settings come from flags, environment variables or a JSON file; see
// internal/config. Storage is chosen by what is configured: DATABASE_DSN
// selects PostgreSQL, SQLITE_PATH SQLite, FILE_STORAGE_PATH a JSON file,
// otherwise records live in memory.
package main

import (
	"github.com/patric-chuzhbe/userdir/internal/app"
)

func main() {
	application, err := app.New()
	if err != nil {
		panic(err)
	}
	defer application.Close()

	if err := application.Run(); err != nil {
		panic(err)
	}
}
