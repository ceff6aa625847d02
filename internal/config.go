package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

type Config struct {
	UsersFilepath         string        `env:"USERS_FILEPATH,default=files/users" validate:"required"`
	ConversationsFilepath string        `env:"CONVS_FILEPATH,default=files/convs" validate:"required"`
	MessagesFilepath      string        `env:"MSGS_FILEPATH,default=files/msgs" validate:"required"`
	RelationshipsFilepath string        `env:"RELS_FILEPATH,default=files/rels" validate:"required"`
	Host                  string        `env:"HOST,default=127.0.0.1" validate:"required,ip|hostname"`
	Port                  int           `env:"PORT,default=8080" validate:"min=1,max=65535"`
	ConnectionBufferSize  int           `env:"CONNECTION_BUFFER_SIZE,default=1024" validate:"gt=0"`
	RestartInterval       time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	LogLevel              string        `env:"LOG_LEVEL,default=INFO" validate:"required"`
	// Empty disables the message archive
	ArchiveFilepath string `env:"ARCHIVE_FILEPATH"`
	LimitMessages   *int   `env:"LIMIT_MESSAGES" validate:"omitempty,gt=0"`
}

// LoadConfig reads an optional .env file, then the environment, and validates the result.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
