package config

import "testing"

func TestTopicsFor(t *testing.T) {
	topics := TopicsFor("batidao")

	if topics.Status != "rfid/batidao/card/status" {
		t.Errorf("Status = %s", topics.Status)
	}
	if topics.Balance != "rfid/batidao/card/balance" {
		t.Errorf("Balance = %s", topics.Balance)
	}
	if topics.TopUp != "rfid/batidao/card/topup" {
		t.Errorf("TopUp = %s", topics.TopUp)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port == 0 {
		t.Error("Port default missing")
	}
	if cfg.TeamID == "" {
		t.Error("TeamID default missing")
	}
	if cfg.Topics.Balance == "" {
		t.Error("Topics not derived")
	}
}
