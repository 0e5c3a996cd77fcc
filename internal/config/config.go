package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultMaxUploadBytes caps multipart image uploads at 10 MiB.
	DefaultMaxUploadBytes = 10 << 20
	// DefaultMinDimension is the smallest accepted pixel width/height.
	DefaultMinDimension = 50
)

// Config holds all cropscan configuration.
type Config struct {
	Model  ModelConfig
	Server ServerConfig
	Log    LogConfig
}

// ModelConfig holds classifier artifact and vocabulary settings.
type ModelConfig struct {
	Path           string // ONNX artifact; missing file selects demo mode
	ORTLibPath     string // onnxruntime shared library; empty means next to the artifact
	ClassNamesPath string
	RemoteURL      string // optional one-shot download source for the artifact
	InputWidth     int
	InputHeight    int
}

// ServerConfig holds HTTP listener and upload-validation settings.
type ServerConfig struct {
	Host           string
	Port           string
	CORSOrigins    []string
	MaxUploadBytes int64
	MinDimension   int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "text" or "json"
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	w, h := parseInputSize(getenv("CROPSCAN_INPUT_SIZE", "224x224"))
	return Config{
		Model: ModelConfig{
			Path:           getenv("CROPSCAN_MODEL_PATH", "models/crop_disease.onnx"),
			ORTLibPath:     os.Getenv("CROPSCAN_ORT_LIB_PATH"),
			ClassNamesPath: getenv("CROPSCAN_CLASS_NAMES_PATH", "models/class_names.txt"),
			RemoteURL:      resolveRemoteURL(),
			InputWidth:     w,
			InputHeight:    h,
		},
		Server: ServerConfig{
			Host:           getenv("CROPSCAN_HOST", "0.0.0.0"),
			Port:           getenv("CROPSCAN_PORT", "8080"),
			CORSOrigins:    splitList(getenv("CROPSCAN_CORS_ORIGINS", "*")),
			MaxUploadBytes: getenvInt64("CROPSCAN_MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
			MinDimension:   int(getenvInt64("CROPSCAN_MIN_DIMENSION", DefaultMinDimension)),
		},
		Log: LogConfig{
			Level:  getenv("CROPSCAN_LOG_LEVEL", "info"),
			Format: getenv("CROPSCAN_LOG_FORMAT", "text"),
		},
	}
}

// Addr returns the host:port the HTTP server should listen on.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// resolveRemoteURL picks the model download source. A full URL wins; otherwise
// an opaque Google Drive file id is expanded to its direct-download form.
func resolveRemoteURL() string {
	if u := os.Getenv("CROPSCAN_MODEL_URL"); u != "" {
		return u
	}
	if id := os.Getenv("CROPSCAN_MODEL_FILE_ID"); id != "" {
		return fmt.Sprintf("https://drive.google.com/uc?id=%s&export=download", id)
	}
	return ""
}

// parseInputSize parses "WxH". Malformed values fall back to 224x224.
func parseInputSize(s string) (w, h int) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 224, 224
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 224, 224
	}
	return w, h
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
