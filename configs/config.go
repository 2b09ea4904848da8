package configs

import (
	"log"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config struct
type Config struct {
	App    `mapstructure:"app"`
	Line   `mapstructure:"line"`
	OpenAI `mapstructure:"openai"`
	Reply  `mapstructure:"reply"`
}

// App struct
type App struct {
	Debug bool   `mapstructure:"debug"`
	Env   string `mapstructure:"env"`
	Port  string `mapstructure:"port" validate:"required"`
}

// Line struct - LINE channel credentials and API location
type Line struct {
	ChannelID     string `mapstructure:"channel_id"`
	ChannelSecret string `mapstructure:"channel_secret"`
	Endpoint      string `mapstructure:"endpoint" validate:"omitempty,url"`
	Timeout       int    `mapstructure:"timeout" validate:"gte=0"`
}

// OpenAI struct - chat completion service settings
type OpenAI struct {
	APIKey       string   `mapstructure:"api_key"`
	Organization string   `mapstructure:"organization"`
	BaseURL      string   `mapstructure:"base_url" validate:"omitempty,url"`
	Model        string   `mapstructure:"model"`
	Temperature  *float64 `mapstructure:"temperature" validate:"omitempty,gte=0,lte=2"`
	Timeout      int      `mapstructure:"timeout" validate:"gte=0"`
	SystemPrompt string   `mapstructure:"system_prompt"`
}

// Reply struct - selects how replies are generated
type Reply struct {
	Mode       string `mapstructure:"mode" validate:"omitempty,oneof=echo static completion"`
	StaticText string `mapstructure:"static_text"`
	EchoFormat string `mapstructure:"echo_format"`
}

// DefaultTemperature applies when openai.temperature is absent from every source
const DefaultTemperature = 0.7

var config Config

// InitViper func
func InitViper(path, env string) {
	getConfig(path, env)
}

// GetViper func
func GetViper() *Config {
	return &config
}

func getConfig(path, env string) {
	viper.SetConfigName("config")
	viper.AddConfigPath(path)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.SetDefault("openai.temperature", DefaultTemperature)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Println("Config file has changed: ", e.Name)
	})
	err = viper.Unmarshal(&config)
	if err != nil {
		log.Fatalln(err)
	}
	if env != "" && config.App.Env == "" {
		config.App.Env = env
	}
}
