package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Address  string
	Port     int
	BaseURL  string
	TeamID   string
	MQTTHost string
	MQTTPort int
	MongoURI string
	MongoDB  string
	Topics   Topics
}

// Topics holds the broker topic names derived from the team namespace.
type Topics struct {
	Status  string
	Balance string
	TopUp   string
}

func Load() (*Config, error) {
	_ = godotenv.Load("../../.env")

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "9225"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, errors.New("invalid PORT value")
	}

	address := os.Getenv("ADDRESS")
	if address == "" {
		address = "0.0.0.0"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:" + portStr
	}

	teamID := os.Getenv("TEAM_ID")
	if teamID == "" {
		teamID = "batidao"
	}

	mqttHost := os.Getenv("MQTT_BROKER")
	if mqttHost == "" {
		mqttHost = "157.173.101.159"
	}

	mqttPortStr := os.Getenv("MQTT_PORT")
	if mqttPortStr == "" {
		mqttPortStr = "1883"
	}
	mqttPort, err := strconv.Atoi(mqttPortStr)
	if err != nil {
		return nil, errors.New("invalid MQTT_PORT value")
	}

	// Empty MONGO_URI disables the transaction log.
	mongoURI := os.Getenv("MONGO_URI")

	mongoDB := os.Getenv("MONGO_DB")
	if mongoDB == "" {
		mongoDB = "cardbridge"
	}

	return &Config{
		Address:  address,
		Port:     port,
		BaseURL:  baseURL,
		TeamID:   teamID,
		MQTTHost: mqttHost,
		MQTTPort: mqttPort,
		MongoURI: mongoURI,
		MongoDB:  mongoDB,
		Topics:   TopicsFor(teamID),
	}, nil
}

// TopicsFor builds the card topic names for a team namespace. The names
// must match the ones the device firmware publishes and subscribes on.
func TopicsFor(teamID string) Topics {
	return Topics{
		Status:  fmt.Sprintf("rfid/%s/card/status", teamID),
		Balance: fmt.Sprintf("rfid/%s/card/balance", teamID),
		TopUp:   fmt.Sprintf("rfid/%s/card/topup", teamID),
	}
}
