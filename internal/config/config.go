package config

import (
	"os"
	"time"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server        Server        `yaml:"server"`
	Realtime      Realtime      `yaml:"realtime"`
	Notifications Notifications `yaml:"notifications"`
	Proximity     Proximity     `yaml:"proximity"`
	Chat          Chat          `yaml:"chat"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	NodeID        string `yaml:"nodeID"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
}

type Realtime struct {
	SendBuffer     int           `yaml:"sendBuffer"`
	PingInterval   time.Duration `yaml:"pingInterval"`
	PongWait       time.Duration `yaml:"pongWait"`
	WriteWait      time.Duration `yaml:"writeWait"`
	MaxMessageSize int64         `yaml:"maxMessageSize"`
	InboundRate    float64       `yaml:"inboundRate"`
	InboundBurst   int           `yaml:"inboundBurst"`
	RelayChannel   string        `yaml:"relayChannel"` // redis pub/sub channel shared by every node
}

type Notifications struct {
	Workers            int           `yaml:"workers"`
	QueueSize          int           `yaml:"queueSize"`
	ActiveUserCacheTTL time.Duration `yaml:"activeUserCacheTTL"`
}

type Proximity struct {
	RadiusKm float64 `yaml:"radiusKm"`
}

type Chat struct {
	AllowAnonymous bool `yaml:"allowAnonymous"`
	HistoryLimit   int  `yaml:"historyLimit"`
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8000"
	}
	if c.Server.NodeID == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Server.NodeID = hostname
		}
	}

	if c.Realtime.SendBuffer <= 0 {
		c.Realtime.SendBuffer = 64
	}
	if c.Realtime.PingInterval <= 0 {
		c.Realtime.PingInterval = 30 * time.Second
	}
	if c.Realtime.PongWait <= 0 {
		c.Realtime.PongWait = 60 * time.Second
	}
	if c.Realtime.WriteWait <= 0 {
		c.Realtime.WriteWait = 10 * time.Second
	}
	if c.Realtime.MaxMessageSize <= 0 {
		c.Realtime.MaxMessageSize = 4096
	}
	if c.Realtime.InboundRate <= 0 {
		c.Realtime.InboundRate = 5
	}
	if c.Realtime.InboundBurst <= 0 {
		c.Realtime.InboundBurst = 10
	}
	if c.Realtime.RelayChannel == "" {
		c.Realtime.RelayChannel = "pulse:fanout"
	}

	if c.Notifications.Workers <= 0 {
		c.Notifications.Workers = 4
	}
	if c.Notifications.QueueSize <= 0 {
		c.Notifications.QueueSize = 256
	}
	if c.Notifications.ActiveUserCacheTTL <= 0 {
		c.Notifications.ActiveUserCacheTTL = 30 * time.Second
	}

	if c.Proximity.RadiusKm <= 0 {
		c.Proximity.RadiusKm = 50
	}

	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = 50
	}
}
