package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gharapp/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	secret = configVar[string]{
		envKey:       "SERVER_SECRET",
		flagKey:      "secret",
		defaultValue: "",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
	cloudinaryCloudName = configVar[string]{
		envKey:       "CLOUDINARY_CLOUD_NAME",
		flagKey:      "cloudinary-cloud-name",
		defaultValue: "",
	}
	cloudinaryUploadPreset = configVar[string]{
		envKey:       "CLOUDINARY_UPLOAD_PRESET",
		flagKey:      "cloudinary-upload-preset",
		defaultValue: "",
	}
	maxUploadSize = configVar[int]{
		envKey:       "SERVER_MAX_UPLOAD_SIZE",
		flagKey:      "max-upload-size",
		defaultValue: 10 << 20,
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(secret.flagKey, secret.defaultValue, "Server secret")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.String(cloudinaryCloudName.flagKey, cloudinaryCloudName.defaultValue, "Cloudinary cloud name")
	pflag.String(cloudinaryUploadPreset.flagKey, cloudinaryUploadPreset.defaultValue, "Cloudinary unsigned upload preset")
	pflag.Int(maxUploadSize.flagKey, maxUploadSize.defaultValue, "Maximum photo upload size in bytes")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(secret.flagKey, secret.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)
	viper.BindEnv(cloudinaryCloudName.flagKey, cloudinaryCloudName.envKey)
	viper.BindEnv(cloudinaryUploadPreset.flagKey, cloudinaryUploadPreset.envKey)
	viper.BindEnv(maxUploadSize.flagKey, maxUploadSize.envKey)

	viper.SetDefault(secret.flagKey, secret.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)
	viper.SetDefault(cloudinaryCloudName.flagKey, cloudinaryCloudName.defaultValue)
	viper.SetDefault(cloudinaryUploadPreset.flagKey, cloudinaryUploadPreset.defaultValue)
	viper.SetDefault(maxUploadSize.flagKey, maxUploadSize.defaultValue)

	return &app.AppConfig{
		Secret:                 viper.GetString(secret.flagKey),
		Host:                   viper.GetString(host.flagKey),
		Port:                   viper.GetInt(port.flagKey),
		LogLevel:               viper.GetString(logLevel.flagKey),
		RedisHost:              viper.GetString(redisHost.flagKey),
		RedisPort:              viper.GetInt(redisPort.flagKey),
		RedisPassword:          viper.GetString(redisPassword.flagKey),
		CloudinaryCloudName:    viper.GetString(cloudinaryCloudName.flagKey),
		CloudinaryUploadPreset: viper.GetString(cloudinaryUploadPreset.flagKey),
		MaxUploadSize:          viper.GetInt64(maxUploadSize.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatal(err)
	}

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
