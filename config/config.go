package config

import (
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr  string
	DBUrl string
	Debug bool
}

// ParseFlags reads configuration from command line flags, with defaults
// taken from the environment (a .env file is loaded first, if present).
func ParseFlags() (cfg Config) {
	godotenv.Load()

	var host string
	flag.StringVar(&host, "host", envOr("QFORMS_HOST", "0.0.0.0"), "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", envUintOr("QFORMS_PORT", 4000), "listen port number (default 4000)")
	flag.StringVar(&cfg.DBUrl, "db-url", envOr("QFORMS_DB_URL", "qforms.sqlite"), "path to SQLite3 DB file (default qforms.sqlite)")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))
	return
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envUintOr(key string, fallback uint) uint {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			return uint(n)
		}
	}
	return fallback
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
