package internal

import (
	"flag"
	"os"
	"strconv"
	"time"
)

const (
	RunAddress       = "RUN_ADDRESS"
	BackendAPIURL    = "BACKEND_API_URL"
	PushChannelURL   = "PUSH_CHANNEL_URL"
	CafeID           = "CAFE_ID"
	BackendToken     = "BACKEND_TOKEN"
	ReconnectRetries = "RECONNECT_RETRIES"
	ReconnectDelay   = "RECONNECT_DELAY_SECONDS"
)

const (
	defaultRunAddress     = "localhost:8090"
	defaultBackendAPIURL  = "http://localhost:5000/api/admin"
	defaultPushChannelURL = "ws://localhost:5000/push"
	defaultCafeID         = "1"

	// socket.io defaults the original dashboard shipped with.
	defaultReconnectRetries = 5
	defaultReconnectDelay   = 5
)

type Config struct {
	RunAddress       string
	BackendAPIURL    string
	PushChannelURL   string
	CafeID           string
	BackendToken     string
	ReconnectRetries int
	ReconnectDelay   time.Duration
}

func NewConfig() *Config {
	c := new(Config)

	var retries, delay int
	flag.StringVar(&c.RunAddress, "a", setEnvOrDefault(RunAddress, defaultRunAddress), "host to listen on")
	flag.StringVar(&c.BackendAPIURL, "b", setEnvOrDefault(BackendAPIURL, defaultBackendAPIURL), "backend REST base URL")
	flag.StringVar(&c.PushChannelURL, "p", setEnvOrDefault(PushChannelURL, defaultPushChannelURL), "push channel URL")
	flag.StringVar(&c.CafeID, "c", setEnvOrDefault(CafeID, defaultCafeID), "cafe (tenant) id")
	flag.StringVar(&c.BackendToken, "t", setEnvOrDefault(BackendToken, ""), "bearer token for the backend")
	flag.IntVar(&retries, "r", setEnvIntOrDefault(ReconnectRetries, defaultReconnectRetries), "push channel reconnect attempts per outage")
	flag.IntVar(&delay, "d", setEnvIntOrDefault(ReconnectDelay, defaultReconnectDelay), "push channel reconnect delay, seconds")

	flag.Parse()

	c.ReconnectRetries = retries
	c.ReconnectDelay = time.Duration(delay) * time.Second
	return c
}

func setEnvOrDefault(env, def string) string {
	res, e := os.LookupEnv(env)
	if !e {
		res = def
	}
	return res
}

func setEnvIntOrDefault(env string, def int) int {
	res, e := os.LookupEnv(env)
	if !e {
		return def
	}
	n, err := strconv.Atoi(res)
	if err != nil {
		return def
	}
	return n
}
