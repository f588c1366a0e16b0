package config

import "github.com/spf13/viper"

func Load() error {
	// API configuration
	viper.SetDefault("API_ADDR", ":8080")

	// Document store
	viper.SetDefault("DATA_PATH", "./data/grid.json")

	// Simulated telemetry feed
	viper.SetDefault("MQTT_BROKER", "tcp://localhost:1883")
	viper.SetDefault("MQTT_TOPIC", "grid/telemetry")
	viper.SetDefault("MQTT_ENABLED", "false")

	// Chat completion API (deployment configuration)
	viper.SetDefault("CHAT_API_URL", "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions")
	viper.SetDefault("CHAT_API_KEY", "")
	viper.SetDefault("CHAT_MODEL", "qwen-flash")
	viper.SetDefault("CHAT_TIMEOUT_SECONDS", 30)

	viper.AutomaticEnv()
	return nil
}

func APIAddr() string { return viper.GetString("API_ADDR") }

func DataPath() string { return viper.GetString("DATA_PATH") }

func MQTTBroker() string { return viper.GetString("MQTT_BROKER") }

func MQTTTopic() string { return viper.GetString("MQTT_TOPIC") }

func MQTTEnabled() bool { return viper.GetBool("MQTT_ENABLED") }

func ChatAPIURL() string { return viper.GetString("CHAT_API_URL") }

func ChatAPIKey() string { return viper.GetString("CHAT_API_KEY") }

func ChatModel() string { return viper.GetString("CHAT_MODEL") }

func ChatTimeoutSeconds() int { return viper.GetInt("CHAT_TIMEOUT_SECONDS") }
