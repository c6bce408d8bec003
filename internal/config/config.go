package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              int
	ModelPath         string
	ClassNamesPath    string
	PassLabelsPath    string
	LogFilePath       string // inspection log (CSV)
	DatabasePath      string
	ReportDirectory   string
	ReportTitle       string
	SnapshotDirectory string
	SnapshotLimit     int
	SnapshotFlushSecs int
	LogDirectory      string // service log files
	CameraIndex       int
	FrameWidth        int
	FrameHeight       int
	StreamFPS         int
}

func Load() *Config {
	// .env is optional; missing file is fine
	_ = godotenv.Load()

	return &Config{
		Port:              getEnvAsInt("PORT", 8080),
		ModelPath:         getEnv("MODEL_PATH", filepath.Join(".", "model", "best.onnx")),
		ClassNamesPath:    getEnv("CLASS_NAMES_PATH", filepath.Join(".", "model", "classes.txt")),
		PassLabelsPath:    getEnv("PASS_LABELS_PATH", "config.json"),
		LogFilePath:       getEnv("LOG_FILE", "logs.csv"),
		DatabasePath:      getEnv("DB_PATH", "reports.db"),
		ReportDirectory:   getEnv("REPORT_DIR", filepath.Join(".", "reports")),
		ReportTitle:       getEnv("REPORT_TITLE", "Bottle Inspection Report"),
		SnapshotDirectory: getEnv("SNAPSHOT_DIR", filepath.Join(".", "snapshots")),
		SnapshotLimit:     getEnvAsInt("SNAPSHOT_LIMIT", 50),
		SnapshotFlushSecs: getEnvAsInt("SNAPSHOT_FLUSH_INTERVAL", 30),
		LogDirectory:      getEnv("LOG_DIR", filepath.Join(".", "logs")),
		CameraIndex:       getEnvAsInt("CAMERA_INDEX", 0),
		FrameWidth:        getEnvAsInt("FRAME_WIDTH", 1920),
		FrameHeight:       getEnvAsInt("FRAME_HEIGHT", 1080),
		StreamFPS:         getEnvAsInt("STREAM_FPS", 30),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
