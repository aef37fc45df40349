package config

import (
	"flag"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	DSN         string            `yaml:"dsn" env:"DSN" env-required:"true"`
	HTTP        HTTPConfig        `yaml:"http"`
	FileStorage FileStorageConfig `yaml:"file_storage"`
	Admin       AdminConfig       `yaml:"admin"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port" env-default:"8080"`
}

// FileStorageConfig selects the image storage driver.
// "local" keeps files on disk and serves them statically,
// "s3" targets an S3-compatible bucket.
type FileStorageConfig struct {
	Driver  string   `yaml:"driver" env:"FILE_STORAGE_DRIVER" env-default:"local"`
	BaseDir string   `yaml:"base_dir" env-default:"./uploads"`
	BaseURL string   `yaml:"base_url" env-default:"http://localhost:8080/uploads"`
	S3      S3Config `yaml:"s3"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket" env:"S3_BUCKET"`
	Region   string `yaml:"region" env:"S3_REGION"`
	Endpoint string `yaml:"endpoint" env:"S3_ENDPOINT"`
	BaseURL  string `yaml:"base_url" env:"S3_BASE_URL"`
}

type AdminConfig struct {
	// PassKey guards the soft-delete action. Left empty, the delete
	// endpoint reports a server configuration error.
	PassKey string `yaml:"pass_key" env:"DELETE_MEAL_PASS_KEY"`
}

func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

func fetchConfigPath() string {
	var res string

	// --config="path/to/config.yaml"
	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
