package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ctopics "github.com/damirmikic/ufc-specijal-generator/pkg/contracts/topics"
)

// Config centraliza variáveis de ambiente e parâmetros de execução dos serviços
// Inclui conexões, tópicos, parâmetros da Kambi, exportação e portas
type Config struct {
	Env         string // "local", "dev", "prod"
	ServiceName string // ex: "slip-service", "slip-export", "kambi-simulator"
	LogLevel    string // debug | info | warn | error

	PostgresDSN  string
	RedisAddr    string
	KafkaBrokers string // "a:9092,b:9092"

	// Tópicos/canais
	TopicSlipExported  string
	RedisPubSubChannel string

	// Fornecedor de odds (Kambi offering API)
	Kambi KambiConfig

	// Exportação CSV
	ExportTimezone    string // fuso usado nas colunas Date/Time
	ExportHeaderStyle string // "en" | "sr"
	ExportDir         string // diretório de saída do slip-export

	// Origens liberadas no CORS da API ("*" libera todas)
	CORSOrigins []string

	// Portas do serviço atual
	HTTPPort    string // Porta pública (ex.: API REST)
	MetricsPort string // Porta exclusiva para /metrics e /healthz
}

// KambiConfig agrupa os parâmetros de consulta da offering API
type KambiConfig struct {
	BaseURL   string
	Lang      string
	Market    string
	ClientID  string
	ChannelID string
	Timeout   time.Duration
	CacheTTL  time.Duration
}

// Load carrega o .env (se existir), as variáveis de ambiente e define defaults
// Resolve portas conforme o SERVICE_NAME
func Load() Config {
	// .env é opcional; variáveis já exportadas têm prioridade
	_ = godotenv.Load()

	svc := getEnv("SERVICE_NAME", "")
	env := getEnv("ENV", "local")

	cfg := Config{
		Env:         env,
		ServiceName: svc,
		LogLevel:    getEnv("LOG_LEVEL", ""),

		PostgresDSN:  getEnv("POSTGRES_DSN", ""),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),

		TopicSlipExported:  getEnv("KAFKA_TOPIC_SLIP_EXPORTED", ctopics.SlipExported),
		RedisPubSubChannel: getEnv("REDIS_PUBSUB_CHANNEL", ctopics.SessionUpdates),

		Kambi: KambiConfig{
			BaseURL:   getEnv("KAMBI_BASE_URL", "https://eu1.offering-api.kambicdn.com/offering/v2018/kambi"),
			Lang:      getEnv("KAMBI_LANG", "en_GB"),
			Market:    getEnv("KAMBI_MARKET", "GB"),
			ClientID:  getEnv("KAMBI_CLIENT_ID", "2"),
			ChannelID: getEnv("KAMBI_CHANNEL_ID", "7"),
			Timeout:   getEnvDuration("KAMBI_TIMEOUT", 10*time.Second),
			CacheTTL:  getEnvDuration("KAMBI_CACHE_TTL", 30*time.Second),
		},

		ExportTimezone:    getEnv("EXPORT_TIMEZONE", "Europe/Belgrade"),
		ExportHeaderStyle: getEnv("EXPORT_HEADER_STYLE", "en"),
		ExportDir:         getEnv("EXPORT_DIR", "."),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}

	// Define portas padrão para cada serviço
	switch svc {
	case "slip-service":
		cfg.HTTPPort = getEnv("HTTP_PORT_SLIP", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT_SLIP", "9095")
	case "kambi-simulator":
		cfg.HTTPPort = getEnv("HTTP_PORT_SIMULATOR", "8081")
		cfg.MetricsPort = getEnv("METRICS_PORT_SIMULATOR", "9094")
	case "slip-export":
		cfg.HTTPPort = "" // CLI não expõe HTTP
		cfg.MetricsPort = ""
	default:
		cfg.HTTPPort = getEnv("HTTP_PORT", "8080")
		cfg.MetricsPort = getEnv("METRICS_PORT", "9095")
	}

	return cfg
}

// Location resolve o fuso de exportação, caindo para UTC se o nome for inválido
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ExportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retorna o valor da variável de ambiente ou o default
func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// splitList quebra "a, b,c" em []string, ignorando itens vazios
func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnvDuration aceita "30s", "2m" ou um número inteiro de segundos
func getEnvDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
