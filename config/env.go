package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

const (
	defaultMongoURI    = "mongodb://localhost:27017"
	defaultMongoDB     = "printipid"
	defaultRedisAddr   = "localhost:6379"
	defaultJWTSecret   = "change-me-in-production"
	defaultAppPort     = "8080"
	defaultGRPCPort    = "9090"
	defaultAppEnv      = "local"
	defaultUnitRate    = "1" // pesos per printed page
	defaultQueueDriver = "memory"
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"MONGO_URI":       defaultMongoURI,
		"MONGO_DB":        defaultMongoDB,
		"REDIS_ADDR":      defaultRedisAddr,
		"REDIS_PASSWORD":  "",
		"JWT_SECRET":      defaultJWTSecret,
		"APP_PORT":        defaultAppPort,
		"GRPC_PORT":       defaultGRPCPort,
		"APP_ENV":         defaultAppEnv,
		"PRINT_UNIT_RATE": defaultUnitRate,
		"QUEUE_DRIVER":    defaultQueueDriver,
	}
}

func MongoURI() string {
	_ = Load()
	return get("MONGO_URI", defaultMongoURI)
}

func MongoDB() string {
	_ = Load()
	return get("MONGO_DB", defaultMongoDB)
}

func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", defaultRedisAddr)
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", defaultJWTSecret)
}

func AppPort() string {
	_ = Load()
	return get("APP_PORT", defaultAppPort)
}

func GRPCPort() string {
	_ = Load()
	return get("GRPC_PORT", defaultGRPCPort)
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func QueueDriver() string {
	_ = Load()
	return get("QUEUE_DRIVER", defaultQueueDriver)
}

// PrintUnitRate is the per-page price used when an order total is computed at
// submission time. Totals are never recomputed after creation, so changing the
// rate only affects new orders.
func PrintUnitRate() float64 {
	_ = Load()
	rate, err := strconv.ParseFloat(get("PRINT_UNIT_RATE", defaultUnitRate), 64)
	if err != nil || rate < 0 {
		return 1
	}
	return rate
}

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string {
	_ = Load()
	return get("STORAGE_DISK", "local")
}

func StorageLocalRoot() string {
	_ = Load()
	return get("STORAGE_LOCAL_ROOT", "storage")
}

func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", "http://localhost:8080/storage")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	// Real environment variables take precedence over .env and app.json.
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}

	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
