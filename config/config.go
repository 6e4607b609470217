package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	ServerConfig   ServerConfig   `json:"server_config"`
	ElectionConfig ElectionConfig `json:"election_config"`
	OtpConfig      OtpConfig      `json:"otp_config"`
	AuthConfig     AuthConfig     `json:"auth_config"`
	AdminConfig    AdminConfig    `json:"admin_config"`
	LogConfig      LogConfig      `json:"log_config"`
	AlertConfig    AlertConfig    `json:"alert_config"`
	DBConfig       DBConfig       `json:"db_config"`
	MetricsConfig  MetricsConfig  `json:"metrics_config"`
}

type ServerConfig struct {
	Port               int `json:"port"`
	CastTimeoutSeconds int `json:"cast_timeout_seconds"`
}

func (cfg *ServerConfig) Validate() {
	if cfg.Port <= 0 {
		panic("server port should be larger than 0")
	}
}

func (cfg *ServerConfig) GetCastTimeoutSeconds() int {
	if cfg.CastTimeoutSeconds <= 0 {
		return DefaultCastTimeoutSeconds
	}
	return cfg.CastTimeoutSeconds
}

type ElectionConfig struct {
	// Scheme selects the ballot encryption scheme, ecies or paillier.
	Scheme string `json:"scheme"`
	// TallyPrivateKey is the hex-encoded election private key. Only the
	// tally engine is handed the decrypting side of it.
	TallyPrivateKey string `json:"tally_private_key"`
	PaillierBits    int    `json:"paillier_bits"`
}

func (cfg *ElectionConfig) Validate() {
	if cfg.Scheme != SchemeEcies && cfg.Scheme != SchemePaillier {
		panic(fmt.Sprintf("only %s and %s schemes supported", SchemeEcies, SchemePaillier))
	}
	if cfg.Scheme == SchemeEcies && cfg.TallyPrivateKey == "" {
		panic("tally_private_key should not be empty for the ecies scheme")
	}
}

func (cfg *ElectionConfig) GetPaillierBits() int {
	if cfg.PaillierBits <= 0 {
		return DefaultPaillierBits
	}
	return cfg.PaillierBits
}

type OtpConfig struct {
	CodeLength            int    `json:"code_length"`
	TTLSeconds            int    `json:"ttl_seconds"`
	ResendCooldownSeconds int    `json:"resend_cooldown_seconds"`
	SmsGatewayUrl         string `json:"sms_gateway_url"`
	SmsApiKey             string `json:"sms_api_key"`
	UseDevSender          bool   `json:"use_dev_sender"`
}

func (cfg *OtpConfig) Validate() {
	if !cfg.UseDevSender && cfg.SmsGatewayUrl == "" {
		panic("sms_gateway_url should not be empty unless use_dev_sender is set")
	}
}

func (cfg *OtpConfig) GetCodeLength() int {
	if cfg.CodeLength <= 0 {
		return DefaultOtpCodeLength
	}
	return cfg.CodeLength
}

func (cfg *OtpConfig) GetTTLSeconds() int {
	if cfg.TTLSeconds <= 0 {
		return DefaultOtpTTLSeconds
	}
	return cfg.TTLSeconds
}

func (cfg *OtpConfig) GetResendCooldownSeconds() int {
	if cfg.ResendCooldownSeconds <= 0 {
		return DefaultOtpResendCooldownSeconds
	}
	return cfg.ResendCooldownSeconds
}

type AuthConfig struct {
	SessionTTLSeconds            int `json:"session_ttl_seconds"`
	BiometricChallengeTTLSeconds int `json:"biometric_challenge_ttl_seconds"`
}

func (cfg *AuthConfig) GetSessionTTLSeconds() int {
	if cfg.SessionTTLSeconds <= 0 {
		return DefaultSessionTTLSeconds
	}
	return cfg.SessionTTLSeconds
}

func (cfg *AuthConfig) GetBiometricChallengeTTLSeconds() int {
	if cfg.BiometricChallengeTTLSeconds <= 0 {
		return DefaultBiometricChallengeTTLSeconds
	}
	return cfg.BiometricChallengeTTLSeconds
}

// AdminConfig seeds the election administrator account at startup.
type AdminConfig struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (cfg *AdminConfig) Validate() {
	if cfg.Phone == "" || cfg.Password == "" {
		panic("admin phone and password should not be empty")
	}
}

type LogConfig struct {
	Level                        string `json:"level"`
	Filename                     string `json:"filename"`
	MaxFileSizeInMB              int    `json:"max_file_size_in_mb"`
	MaxBackupsOfLogFiles         int    `json:"max_backups_of_log_files"`
	MaxAgeToRetainLogFilesInDays int    `json:"max_age_to_retain_log_files_in_days"`
	UseConsoleLogger             bool   `json:"use_console_logger"`
	UseFileLogger                bool   `json:"use_file_logger"`
	Compress                     bool   `json:"compress"`
}

func (cfg *LogConfig) Validate() {
	if cfg.UseFileLogger {
		if cfg.Filename == "" {
			panic("filename should not be empty if use file logger")
		}
		if cfg.MaxFileSizeInMB <= 0 {
			panic("max_file_size_in_mb should be larger than 0 if use file logger")
		}
		if cfg.MaxBackupsOfLogFiles <= 0 {
			panic("max_backups_off_log_files should be larger than 0 if use file logger")
		}
	}
}

type DBConfig struct {
	Dialect      string `json:"dialect"`
	DBPath       string `json:"db_path"`
	Password     string `json:"password"`
	Username     string `json:"username"`
	MaxIdleConns int    `json:"max_idle_conns"`
	MaxOpenConns int    `json:"max_open_conns"`
	DebugMode    bool   `json:"debug_mode"`
}

func (cfg *DBConfig) Validate() {
	if cfg.Dialect != DBDialectMysql && cfg.Dialect != DBDialectSqlite3 {
		panic(fmt.Sprintf("only %s and %s supported", DBDialectMysql, DBDialectSqlite3))
	}
	if cfg.DBPath == "" {
		panic("db config is not correct")
	}
	if cfg.Dialect == DBDialectMysql && cfg.Username == "" {
		panic("db username should not be empty for mysql")
	}
}

type MetricsConfig struct {
	Port int `json:"port"`
}

type AlertConfig struct {
	Identity       string `json:"identity"`
	TelegramBotId  string `json:"telegram_bot_id"`
	TelegramChatId string `json:"telegram_chat_id"`
}

func (cfg *Config) Validate() {
	cfg.ServerConfig.Validate()
	cfg.ElectionConfig.Validate()
	cfg.OtpConfig.Validate()
	cfg.AdminConfig.Validate()
	cfg.LogConfig.Validate()
	cfg.DBConfig.Validate()
}

func ParseConfigFromJson(content string) *Config {
	var config Config
	if err := json.Unmarshal([]byte(content), &config); err != nil {
		panic(err)
	}
	return &config
}

func ParseConfigFromFile(filePath string) *Config {
	bz, err := os.ReadFile(filePath)
	if err != nil {
		panic(err)
	}

	var config Config
	if err := json.Unmarshal(bz, &config); err != nil {
		panic(err)
	}

	config.Validate()

	return &config
}
