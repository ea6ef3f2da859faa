package config

import (
	"os"
	"strconv"
)

type Config struct {
	ServerPort          string
	GeminiAPIKey        string
	GeminiModel         string
	TemplatePath        string
	TesseractDataPath   string
	ChunkSize           int
	ChunkOverlap        int
	MaxTradeRows        int
	MaxConcurrentChunks int
	MaxFileSize         int64
}

func LoadConfig() *Config {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	geminiModel := os.Getenv("GEMINI_MODEL")
	if geminiModel == "" {
		geminiModel = "gemini-2.0-flash"
	}

	templatePath := os.Getenv("K4_TEMPLATE_PATH")
	if templatePath == "" {
		templatePath = "templates/k4_template.pdf"
	}

	tesseractDataPath := os.Getenv("TESSDATA_PREFIX")
	if tesseractDataPath == "" {
		tesseractDataPath = "/usr/share/tesseract-ocr/5/tessdata/"
	}

	return &Config{
		ServerPort:        serverPort,
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       geminiModel,
		TemplatePath:      templatePath,
		TesseractDataPath: tesseractDataPath,
		ChunkSize:         intFromEnv("STATEMENT_CHUNK_SIZE", 4000),
		ChunkOverlap:      intFromEnv("STATEMENT_CHUNK_OVERLAP", 200),
		// The printed K4 form has 7 rows in section D but the cap admits an
		// 8th row. Kept until the Skatteverket layout question is settled.
		MaxTradeRows:        intFromEnv("K4_MAX_TRADE_ROWS", 8),
		MaxConcurrentChunks: intFromEnv("MAX_CONCURRENT_CHUNKS", 4),
		MaxFileSize:         10 * 1024 * 1024, // 10 MB
	}
}

func intFromEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
