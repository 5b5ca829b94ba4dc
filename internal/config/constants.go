package config

const (
	// DefaultDatabasePath is the default SQLite file for the API server
	DefaultDatabasePath = "./focusmode.db"

	// DefaultClientDataPath is the default local cache used by the CLI client
	DefaultClientDataPath = "./focusmode-client.db"

	// DefaultAPIURL is where the CLI client looks for the API server
	DefaultAPIURL = "http://localhost:3001/api"
)
