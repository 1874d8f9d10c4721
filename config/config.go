package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	MongoURI      string
	DBName        string
	Port          string
	AdminEmail    string
	FromName      string
	FromEmail     string
	AWSRegion     string
	AWSBucketName string
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017/"
	}

	DBName = os.Getenv("DB_NAME")
	if DBName == "" {
		DBName = "estate"
	}

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "5050"
	}

	AdminEmail = os.Getenv("ADMIN_EMAIL")

	FromName = os.Getenv("MAIL_FROM_NAME")
	if FromName == "" {
		FromName = "Himashi Properties"
	}
	FromEmail = os.Getenv("MAIL_FROM_EMAIL")

	AWSRegion = os.Getenv("AWS_REGION")
	if AWSRegion == "" {
		AWSRegion = "ap-south-1"
	}
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")
}
