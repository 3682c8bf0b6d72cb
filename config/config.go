package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	EmailSender string
	Password    string // SMTP Password

	RewardWebhookURL string // Optional external gamification accumulator

	// XP amounts awarded per reward event
	XPLectureCompleted int
	XPQuizPassed       int
	XPFinalTestPassed  int
	XPCourseCompleted  int
	XPFirstCourseBonus int

	// Certificate verification code length
	VerifyCodeLength int
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("PASSWORD", ""),

		RewardWebhookURL: getEnv("REWARD_WEBHOOK_URL", ""),

		XPLectureCompleted: getEnvInt("XP_LECTURE_COMPLETED", 10),
		XPQuizPassed:       getEnvInt("XP_QUIZ_PASSED", 20),
		XPFinalTestPassed:  getEnvInt("XP_FINAL_TEST_PASSED", 50),
		XPCourseCompleted:  getEnvInt("XP_COURSE_COMPLETED", 100),
		XPFirstCourseBonus: getEnvInt("XP_FIRST_COURSE_BONUS", 150),

		VerifyCodeLength: getEnvInt("VERIFY_CODE_LENGTH", 10),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
