package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  nodeID: node-a
  postgresDsn: "host=db user=postgres"
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if conf.Server.Listen != ":8000" || conf.Server.NodeID != "node-a" {
		t.Fatalf("unexpected server section %+v", conf.Server)
	}
	if conf.Realtime.SendBuffer != 64 || conf.Realtime.PingInterval != 30*time.Second || conf.Realtime.RelayChannel != "pulse:fanout" {
		t.Fatalf("unexpected realtime defaults %+v", conf.Realtime)
	}
	if conf.Notifications.Workers != 4 || conf.Notifications.QueueSize != 256 {
		t.Fatalf("unexpected notification defaults %+v", conf.Notifications)
	}
	if conf.Proximity.RadiusKm != 50 || conf.Chat.HistoryLimit != 50 || conf.Chat.AllowAnonymous {
		t.Fatalf("unexpected defaults %+v %+v", conf.Proximity, conf.Chat)
	}
}

func TestLoadKeepsExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  listen: ":9000"
  redisAddr: "redis:6379"
realtime:
  sendBuffer: 8
  pingInterval: 5s
  inboundRate: 1.5
notifications:
  workers: 2
  activeUserCacheTTL: 1m
proximity:
  radiusKm: 12.5
chat:
  allowAnonymous: true
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if conf.Server.Listen != ":9000" || conf.Server.RedisAddr != "redis:6379" {
		t.Fatalf("unexpected server section %+v", conf.Server)
	}
	if conf.Realtime.SendBuffer != 8 || conf.Realtime.PingInterval != 5*time.Second || conf.Realtime.InboundRate != 1.5 {
		t.Fatalf("unexpected realtime section %+v", conf.Realtime)
	}
	if conf.Notifications.Workers != 2 || conf.Notifications.ActiveUserCacheTTL != time.Minute {
		t.Fatalf("unexpected notification section %+v", conf.Notifications)
	}
	if conf.Proximity.RadiusKm != 12.5 || !conf.Chat.AllowAnonymous {
		t.Fatalf("unexpected sections %+v %+v", conf.Proximity, conf.Chat)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
