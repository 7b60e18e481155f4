package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Telemetry TelemetryConfig
	Display   DisplayConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

// BackendConfig points at the tracking backend that owns the report API.
type BackendConfig struct {
	BaseURL       string
	SessionCookie string
	Timeout       time.Duration
}

type TelemetryConfig struct {
	Broker               string
	ClientID             string
	Username             string
	Password             string
	DeviceTopic          string
	PositionTopic        string
	QoS                  byte
	KeepAlive            int
	ConnectTimeout       int
	MaxReconnectInterval time.Duration
}

// DisplayConfig carries the fallback display preferences used when neither a
// device attribute nor a user preference overrides them.
type DisplayConfig struct {
	DistanceUnit    string
	VolumeUnit      string
	SpeedUnit       string
	DevicePrimary   string
	DeviceSecondary string
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	viper.SetDefault("BACKEND_TIMEOUT_SECONDS", 30)
	viper.SetDefault("MQTT_KEEPALIVE_SECONDS", 30)
	viper.SetDefault("MQTT_CONNECT_TIMEOUT_SECONDS", 10)
	viper.SetDefault("MQTT_MAX_RECONNECT_SECONDS", 60)
	viper.SetDefault("MQTT_QOS", 1)
	viper.SetDefault("DISTANCE_UNIT", "km")
	viper.SetDefault("VOLUME_UNIT", "ltr")
	viper.SetDefault("SPEED_UNIT", "kmh")
	viper.SetDefault("DEVICE_PRIMARY", "name")

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Backend: BackendConfig{
			BaseURL:       viper.GetString("BACKEND_BASE_URL"),
			SessionCookie: viper.GetString("BACKEND_SESSION_COOKIE"),
			Timeout:       time.Duration(viper.GetInt("BACKEND_TIMEOUT_SECONDS")) * time.Second,
		},
		Telemetry: TelemetryConfig{
			Broker:               viper.GetString("MQTT_BROKER"),
			ClientID:             viper.GetString("MQTT_CLIENT_ID"),
			Username:             viper.GetString("MQTT_USERNAME"),
			Password:             viper.GetString("MQTT_PASSWORD"),
			DeviceTopic:          viper.GetString("MQTT_DEVICE_TOPIC"),
			PositionTopic:        viper.GetString("MQTT_POSITION_TOPIC"),
			QoS:                  byte(viper.GetUint("MQTT_QOS")),
			KeepAlive:            viper.GetInt("MQTT_KEEPALIVE_SECONDS"),
			ConnectTimeout:       viper.GetInt("MQTT_CONNECT_TIMEOUT_SECONDS"),
			MaxReconnectInterval: time.Duration(viper.GetInt("MQTT_MAX_RECONNECT_SECONDS")) * time.Second,
		},
		Display: DisplayConfig{
			DistanceUnit:    viper.GetString("DISTANCE_UNIT"),
			VolumeUnit:      viper.GetString("VOLUME_UNIT"),
			SpeedUnit:       viper.GetString("SPEED_UNIT"),
			DevicePrimary:   viper.GetString("DEVICE_PRIMARY"),
			DeviceSecondary: viper.GetString("DEVICE_SECONDARY"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	return config, nil
}
