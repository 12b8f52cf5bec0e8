package shared

const (
	SQLITE_DRIVER   = "sqlite"
	POSTGRES_DRIVER = "postgres"
)

type ServerConfig struct {
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	MediLink MediLinkConfig `mapstructure:"medilink" validate:"required"`
	Google   GoogleConfig   `mapstructure:"google"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase"`
	Dir        string `mapstructure:"dir"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type MediLinkConfig struct {
	PrivateKeyPem string         `mapstructure:"privateKeyPem" validate:"required"`
	LogLevel      string         `mapstructure:"logLevel" validate:"omitempty,oneof=debug info warn error"`
	Listener      ListenerConfig `mapstructure:"listener" validate:"required"`
	Session       SessionConfig  `mapstructure:"session"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

type SessionConfig struct {
	CookieName string `mapstructure:"cookieName"`
}

type GoogleConfig struct {
	ApplicationCredentials string        `mapstructure:"applicationCredentials"`
	Storage                StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}
