package config

const (
	FlagConfigPath   = "config-path"
	FlagConfigDbPass = "db-pass"

	DBDialectMysql   = "mysql"
	DBDialectSqlite3 = "sqlite3"

	SchemeEcies    = "ecies"
	SchemePaillier = "paillier"

	DefaultOtpCodeLength            = 6
	DefaultOtpTTLSeconds            = 300
	DefaultOtpResendCooldownSeconds = 30

	DefaultSessionTTLSeconds            = 1800
	DefaultBiometricChallengeTTLSeconds = 120

	DefaultCastTimeoutSeconds = 10
	DefaultPaillierBits       = 2048
)
