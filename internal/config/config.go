package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TypeHTTP  = "http"
	TypeTCP   = "tcp"
	TypeMongo = "mongo"
	TypeNats  = "nats"
)

const (
	defaultAddr       = "127.0.0.1:8080"
	defaultDelay      = Duration(time.Second)
	defaultHTTPMethod = http.MethodGet
	defaultHTTPStatus = http.StatusOK
	defaultIOTimeout  = Duration(time.Second)
)

func Load(configFileName string) (*Config, error) {
	configFile, err := os.ReadFile(configFileName)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %v", err)
	}
	config := &Config{}
	if err = yaml.Unmarshal(configFile, config); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %v", err)
	}
	if err = validateAndSetDefaults(config); err != nil {
		return nil, fmt.Errorf("invalid config: %v", err)
	}
	return config, nil
}

func validateAndSetDefaults(config *Config) error {
	if config.WaitFor == nil {
		return errors.New("waitfor section is missing")
	}

	if config.WaitFor.Server.Addr == "" {
		if addr, found := os.LookupEnv("SERVER_ADDR"); found {
			config.WaitFor.Server.Addr = addr
		} else {
			config.WaitFor.Server.Addr = defaultAddr
		}
	}

	if len(config.WaitFor.Targets) == 0 {
		return errors.New("at least one target must be configured")
	}

	names := make(map[string]struct{}, len(config.WaitFor.Targets))
	for _, target := range config.WaitFor.Targets {
		if target.Name == "" {
			return errors.New("name property is missing")
		}
		if _, dup := names[target.Name]; dup {
			return fmt.Errorf("duplicate target name %q", target.Name)
		}
		names[target.Name] = struct{}{}

		switch target.Type {
		case TypeHTTP:
			if target.Url == "" {
				return fmt.Errorf("target %q: url property is missing", target.Name)
			}
			if target.Method == "" {
				target.Method = defaultHTTPMethod
			}
			if target.Status == 0 {
				target.Status = defaultHTTPStatus
			}
		case TypeTCP:
			if target.Addr == "" {
				return fmt.Errorf("target %q: addr property is missing", target.Name)
			}
			if target.IOTimeout == nil {
				defVal := defaultIOTimeout
				target.IOTimeout = &defVal
			}
		case TypeMongo:
			if target.Uri == "" {
				return fmt.Errorf("target %q: uri property is missing", target.Name)
			}
		case TypeNats:
			if target.Url == "" {
				return fmt.Errorf("target %q: url property is missing", target.Name)
			}
		case "":
			return fmt.Errorf("target %q: type property is missing", target.Name)
		default:
			return fmt.Errorf("target %q: unknown type %q", target.Name, target.Type)
		}

		// a nil timeout means wait forever
		if target.Timeout != nil && *target.Timeout < 0 {
			return fmt.Errorf("target %q: timeout cannot be negative", target.Name)
		}
		if target.Delay == nil {
			defVal := defaultDelay
			target.Delay = &defVal
		} else if *target.Delay < 0 {
			return fmt.Errorf("target %q: delay cannot be negative", target.Name)
		}
	}

	return nil
}

type Config struct {
	WaitFor *WaitFor `yaml:"waitfor"`
}

type WaitFor struct {
	Log     Log       `yaml:"log"`
	Server  Server    `yaml:"server"`
	Targets []*Target `yaml:"targets"`
}

type Log struct {
	Level string `yaml:"level"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Target struct {
	Name      string    `yaml:"name,omitempty"`
	Type      string    `yaml:"type,omitempty"`
	Url       string    `yaml:"url,omitempty"`
	Uri       string    `yaml:"uri,omitempty"`
	Addr      string    `yaml:"addr,omitempty"`
	Method    string    `yaml:"method,omitempty"`
	Status    int       `yaml:"status,omitempty"`
	Content   string    `yaml:"content,omitempty"`
	Send      string    `yaml:"send,omitempty"`
	Expect    string    `yaml:"expect,omitempty"`
	IOTimeout *Duration `yaml:"ioTimeout,omitempty"`
	Timeout   *Duration `yaml:"timeout,omitempty"`
	Delay     *Duration `yaml:"delay,omitempty"`
}

// Duration is a time.Duration that unmarshals from yaml strings such as
// "500ms" or "1m30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("could not parse duration %q: %v", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
