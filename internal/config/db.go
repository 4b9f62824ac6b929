package config

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string // postgres, mysql or sqlite
	SQLitePath string // database file of the sqlite engine
	LogLevel   string // gorm log level: silent, error, warn or info
}
