package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string // YAML key: "database"
	}
	RabbitMQ struct {
		Host     string
		Port     int
		User     string
		Password string
	}
	Redis struct {
		Host       string
		Port       int
		Password   string
		DB         int
		SessionTTL int // minutes; sliding expiry for idle conversations
	}
	WhatsApp struct {
		Token         string // env override: WHATSAPP_TOKEN
		PhoneNumberID string // env override: PHONE_NUMBER_ID
		VerifyToken   string // env override: VERIFY_TOKEN
		APIVersion    string
	}
	// Catalog maps product code to "Display Name, unit price" entries.
	Catalog map[string]string
}

// LoadFromFile loads config from a YAML file to a Config struct, applies
// defaults and env overrides, and validates required fields.
func LoadFromFile(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err := parseYAML(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets safe defaults for some fields.
func applyDefaults(cfg *Config) {
	// Database
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}

	// RabbitMQ
	if cfg.RabbitMQ.Host == "" {
		cfg.RabbitMQ.Host = "localhost"
	}
	if cfg.RabbitMQ.Port == 0 {
		cfg.RabbitMQ.Port = 5672
	}

	// Redis
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.SessionTTL == 0 {
		cfg.Redis.SessionTTL = 120 // two hours of conversation idle time
	}

	// WhatsApp
	if cfg.WhatsApp.APIVersion == "" {
		cfg.WhatsApp.APIVersion = "v22.0"
	}
}

// applyEnvOverrides lets deployment secrets win over the file, matching how
// the hosting platform injects them.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WHATSAPP_TOKEN"); v != "" {
		cfg.WhatsApp.Token = v
	}
	if v := os.Getenv("PHONE_NUMBER_ID"); v != "" {
		cfg.WhatsApp.PhoneNumberID = v
	}
	if v := os.Getenv("VERIFY_TOKEN"); v != "" {
		cfg.WhatsApp.VerifyToken = v
	}
}

// validate checks required fields and basic ranges.
func (c *Config) validate() error {
	var problems []string

	// DB
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		problems = append(problems, "database.port must be in 1..65535")
	}
	if c.Database.User == "" {
		problems = append(problems, "database.user is required")
	}
	if c.Database.Password == "" {
		problems = append(problems, "database.password is required")
	}
	if c.Database.Name == "" {
		problems = append(problems, "database.database (name) is required")
	}

	// RabbitMQ
	if c.RabbitMQ.Port <= 0 || c.RabbitMQ.Port > 65535 {
		problems = append(problems, "rabbitmq.port must be in 1..65535")
	}
	if c.RabbitMQ.User == "" {
		problems = append(problems, "rabbitmq.user is required")
	}
	if c.RabbitMQ.Password == "" {
		problems = append(problems, "rabbitmq.password is required")
	}

	// Redis
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		problems = append(problems, "redis.port must be in 1..65535")
	}
	if c.Redis.SessionTTL <= 0 {
		problems = append(problems, "redis.session_ttl must be > 0 minutes")
	}

	// WhatsApp
	if c.WhatsApp.Token == "" {
		problems = append(problems, "whatsapp.token is required (or WHATSAPP_TOKEN)")
	}
	if c.WhatsApp.PhoneNumberID == "" {
		problems = append(problems, "whatsapp.phone_number_id is required (or PHONE_NUMBER_ID)")
	}
	if c.WhatsApp.VerifyToken == "" {
		problems = append(problems, "whatsapp.verify_token is required (or VERIFY_TOKEN)")
	}

	// Catalog
	if len(c.Catalog) == 0 {
		problems = append(problems, "catalog must contain at least one product")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// parseYAML parses the specific two-level mapping used by config.yaml.
func parseYAML(r io.Reader, cfg *Config) error {
	type section int
	const (
		none section = iota
		db
		rm
		rd
		wa
		cat
	)

	scanner := bufio.NewScanner(r)
	var cur section

	lineNo := 0
	seenTop := map[section]bool{}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		// Strip comments
		if i := strings.IndexByte(raw, '#'); i >= 0 {
			raw = raw[:i]
		}

		line := strings.TrimRight(raw, " \t\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Top-level section? (no leading spaces)
		if len(line) > 0 && (line[0] != ' ' && line[0] != '\t') {
			var next section
			switch strings.TrimSpace(line) {
			case "database:":
				next = db
			case "rabbitmq:":
				next = rm
			case "redis:":
				next = rd
			case "whatsapp:":
				next = wa
			case "catalog:":
				next = cat
			default:
				return fmt.Errorf("line %d: unknown top-level key %q", lineNo, strings.TrimSuffix(strings.TrimSpace(line), ":"))
			}
			if seenTop[next] {
				return fmt.Errorf("line %d: duplicate %q section", lineNo, strings.TrimSuffix(strings.TrimSpace(line), ":"))
			}
			seenTop[next] = true
			cur = next
			continue
		}

		// Expect indented "key: value"
		if cur == none {
			return fmt.Errorf("line %d: key without a section", lineNo)
		}
		trim := strings.TrimSpace(line)
		colon := strings.IndexByte(trim, ':')
		if colon <= 0 {
			return fmt.Errorf("line %d: expected 'key: value'", lineNo)
		}
		key := strings.TrimSpace(trim[:colon])
		val := strings.TrimSpace(trim[colon+1:])
		// Remove optional leading space in value
		val = strings.TrimLeft(val, " \t")

		switch cur {
		case db:
			switch key {
			case "host":
				cfg.Database.Host = val
			case "port":
				p, err := strconv.Atoi(val)
				if err != nil {
					return fmt.Errorf("line %d: database.port must be int: %v", lineNo, err)
				}
				cfg.Database.Port = p
			case "user":
				cfg.Database.User = val
			case "password":
				cfg.Database.Password = val
			case "database":
				cfg.Database.Name = val
			default:
				return fmt.Errorf("line %d: unknown key in database: %q", lineNo, key)
			}
		case rm:
			switch key {
			case "host":
				cfg.RabbitMQ.Host = val
			case "port":
				p, err := strconv.Atoi(val)
				if err != nil {
					return fmt.Errorf("line %d: rabbitmq.port must be int: %v", lineNo, err)
				}
				cfg.RabbitMQ.Port = p
			case "user":
				cfg.RabbitMQ.User = val
			case "password":
				cfg.RabbitMQ.Password = val
			default:
				return fmt.Errorf("line %d: unknown key in rabbitmq: %q", lineNo, key)
			}
		case rd:
			switch key {
			case "host":
				cfg.Redis.Host = val
			case "port":
				p, err := strconv.Atoi(val)
				if err != nil {
					return fmt.Errorf("line %d: redis.port must be int: %v", lineNo, err)
				}
				cfg.Redis.Port = p
			case "password":
				cfg.Redis.Password = val
			case "db":
				p, err := strconv.Atoi(val)
				if err != nil {
					return fmt.Errorf("line %d: redis.db must be int: %v", lineNo, err)
				}
				cfg.Redis.DB = p
			case "session_ttl":
				p, err := strconv.Atoi(val)
				if err != nil {
					return fmt.Errorf("line %d: redis.session_ttl must be int minutes: %v", lineNo, err)
				}
				cfg.Redis.SessionTTL = p
			default:
				return fmt.Errorf("line %d: unknown key in redis: %q", lineNo, key)
			}
		case wa:
			switch key {
			case "token":
				cfg.WhatsApp.Token = val
			case "phone_number_id":
				cfg.WhatsApp.PhoneNumberID = val
			case "verify_token":
				cfg.WhatsApp.VerifyToken = val
			case "api_version":
				cfg.WhatsApp.APIVersion = val
			default:
				return fmt.Errorf("line %d: unknown key in whatsapp: %q", lineNo, key)
			}
		case cat:
			// catalog keys are product codes; values are "Display Name, price"
			if key == "" {
				return fmt.Errorf("line %d: empty product code in catalog", lineNo)
			}
			if cfg.Catalog == nil {
				cfg.Catalog = make(map[string]string)
			}
			code := strings.ToUpper(key)
			if _, dup := cfg.Catalog[code]; dup {
				return fmt.Errorf("line %d: duplicate catalog code %q", lineNo, code)
			}
			cfg.Catalog[code] = val
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	return nil
}
