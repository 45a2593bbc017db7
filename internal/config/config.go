package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Config holds the backend configuration, sourced from the environment.
type Config struct {
	Port      string
	DBPath    string
	JWTSecret string // empty disables API auth

	// Conversion chain settings.
	ConverterTool string // external converter executable name
	PyulogDir     string // local pyulog checkout for the library tier
	PythonCmd     string
	Stride        int // downsampling stride for the fallback tier
}

// Load reads configuration from the environment with launcher-friendly
// defaults.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/conversions.db"
	}

	tool := os.Getenv("ULOG2KML_CMD")
	if tool == "" {
		tool = "ulog2kml"
	}

	pyulogDir := os.Getenv("PYULOG_DIR")
	if pyulogDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			pyulogDir = filepath.Join(home, "Music", "pyulog")
		}
	}

	python := os.Getenv("PYTHON_CMD")
	if python == "" {
		python = "python3"
	}

	stride := 5
	if s := os.Getenv("KML_STRIDE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			stride = n
		}
	}

	return &Config{
		Port:          port,
		DBPath:        dbPath,
		JWTSecret:     os.Getenv("JWT_SECRET"),
		ConverterTool: tool,
		PyulogDir:     pyulogDir,
		PythonCmd:     python,
		Stride:        stride,
	}
}
