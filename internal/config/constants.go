package config

// DefaultDatabasePath is the default path for the sqlite database file.
const DefaultDatabasePath = "./estante.db"
