package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Push struct {
		VAPIDSubject    string `mapstructure:"vapid_subject"`
		VAPIDPublicKey  string `mapstructure:"vapid_public_key"`
		VAPIDPrivateKey string `mapstructure:"vapid_private_key"`
		TTLSeconds      int    `mapstructure:"ttl_seconds"`
	} `mapstructure:"push"`

	Reminders struct {
		Horizons        []int         `mapstructure:"horizons"`
		Workers         int           `mapstructure:"workers"`
		DeliveryTimeout time.Duration `mapstructure:"delivery_timeout"`
	} `mapstructure:"reminders"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// Секреты (DSN, VAPID-ключи) переопределяем через ENV (APP_*).
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
