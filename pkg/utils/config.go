package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Email    EmailConfig
	Storage  StorageConfig
	PayPal   PayPalConfig
	Google   OAuthProviderConfig
	Apple    AppleConfig
	Upload   UploadConfig
}

type AppConfig struct {
	Name      string
	Port      string
	Debug     bool
	LogPath   string
	ClientURL string
}

type DatabaseConfig struct {
	URI     string
	Name    string
	Timeout int
}

type JWTConfig struct {
	Secret             string
	SessionExpiryDays  int
	ChallengeExpiryMin int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

type StorageConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type PayPalConfig struct {
	ClientID string
	Secret   string
	APIBase  string
}

type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

type AppleConfig struct {
	ClientID    string
	TeamID      string
	KeyID       string
	PrivateKey  string
	CallbackURL string
}

type UploadConfig struct {
	MaxSizeBytes int64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("DB_NAME", "safari")
	viper.SetDefault("DB_TIMEOUT_SECONDS", 10)
	viper.SetDefault("JWT_SESSION_EXPIRY_DAYS", 7)
	viper.SetDefault("JWT_CHALLENGE_EXPIRY_MINUTES", 5)
	viper.SetDefault("PAYPAL_API_BASE", "https://api-m.sandbox.paypal.com")
	viper.SetDefault("UPLOAD_MAX_SIZE_BYTES", 5*1024*1024)
	viper.SetDefault("STORAGE_FOLDER", "guest-documents")
	viper.SetDefault("CLIENT_URL", "http://localhost:3000")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:      viper.GetString("APP_NAME"),
			Port:      viper.GetString("PORT"),
			Debug:     viper.GetBool("DEBUG"),
			LogPath:   viper.GetString("LOG_PATH"),
			ClientURL: viper.GetString("CLIENT_URL"),
		},
		Database: DatabaseConfig{
			URI:     viper.GetString("MONGODB_URI"),
			Name:    viper.GetString("DB_NAME"),
			Timeout: viper.GetInt("DB_TIMEOUT_SECONDS"),
		},
		JWT: JWTConfig{
			Secret:             viper.GetString("JWT_SECRET"),
			SessionExpiryDays:  viper.GetInt("JWT_SESSION_EXPIRY_DAYS"),
			ChallengeExpiryMin: viper.GetInt("JWT_CHALLENGE_EXPIRY_MINUTES"),
		},
		Email: EmailConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
			FromName: viper.GetString("EMAIL_FROM_NAME"),
		},
		Storage: StorageConfig{
			CloudName: viper.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    viper.GetString("CLOUDINARY_API_KEY"),
			APISecret: viper.GetString("CLOUDINARY_API_SECRET"),
			Folder:    viper.GetString("STORAGE_FOLDER"),
		},
		PayPal: PayPalConfig{
			ClientID: viper.GetString("PAYPAL_CLIENT_ID"),
			Secret:   viper.GetString("PAYPAL_SECRET"),
			APIBase:  viper.GetString("PAYPAL_API_BASE"),
		},
		Google: OAuthProviderConfig{
			ClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			CallbackURL:  viper.GetString("GOOGLE_CALLBACK_URL"),
		},
		Apple: AppleConfig{
			ClientID:    viper.GetString("APPLE_CLIENT_ID"),
			TeamID:      viper.GetString("APPLE_TEAM_ID"),
			KeyID:       viper.GetString("APPLE_KEY_ID"),
			PrivateKey:  viper.GetString("APPLE_PRIVATE_KEY"),
			CallbackURL: viper.GetString("APPLE_CALLBACK_URL"),
		},
		Upload: UploadConfig{
			MaxSizeBytes: viper.GetInt64("UPLOAD_MAX_SIZE_BYTES"),
		},
	}

	return config, nil
}
