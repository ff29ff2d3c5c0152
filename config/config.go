package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Checks   ChecksConfig
	Features FeaturesConfig
	Observ   ObservabilityConfig
}

type ServerConfig struct {
	Env           string
	SampleSetting string
}

type DataConfig struct {
	Root     string
	Entities []string
}

type ChecksConfig struct {
	CuratedSuite     string
	ConsumableSuite  string
	CuratedSource    string
	ConsumableSource string
}

type FeaturesConfig struct {
	ConsumableColumns []string
	MainCurrencies    []string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
	MetricsPort    string
}

// defaultConsumableColumns is the analytics base table schema.
var defaultConsumableColumns = []string{
	"SaleId",
	"SaleOrderId",
	"SaleProductId",
	"SaleQuantity",
	"SaleCreatedTimeStamp",
	"ProductName",
	"ProductManufacturedCountry",
	"ProductWeightGrams",
	"OrderDate",
	"CustomerName",
	"CustomerCity",
	"CustomerCountry",
	"CountryName",
	"CountryCurrency",
	"CountryRegion",
	"CountryPopulation",
	"TotalSaleQuantityPerCountry",
	"CountryQuantityOverTotalQuantityPercentage",
	"QuantityOverTotalCountryQuantityPercentage",
	"QuantityOverMainCountriesQuantityPercentage",
	"ProductWeightGramsPerSaleQuantity",
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Env:           getEnv("ENV", "development"),
			SampleSetting: getEnv("SAMPLE_SETTING", "Nicola Filosi"),
		},
		Data: DataConfig{
			Root:     getEnv("DATA_ROOT", "data"),
			Entities: getEnvList("ENTITIES", "sales,products,orders,customers,countries"),
		},
		Checks: ChecksConfig{
			CuratedSuite:     getEnv("CURATED_SUITE", "curated_data_suite"),
			ConsumableSuite:  getEnv("CONSUMABLE_SUITE", "consumable_data_suite"),
			CuratedSource:    getEnv("CURATED_SOURCE", "curated_data_source"),
			ConsumableSource: getEnv("CONSUMABLE_SOURCE", "consumable_data_source"),
		},
		Features: FeaturesConfig{
			ConsumableColumns: getEnvList("CONSUMABLE_COLUMNS", strings.Join(defaultConsumableColumns, ",")),
			MainCurrencies:    getEnvList("MAIN_CURRENCIES", "EUR,USD,GBP"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
			MetricsPort:    getEnv("METRICS_PORT", ""),
		},
	}

	log.Printf("Config loaded: env=%s, data_root=%s", cfg.Server.Env, cfg.Data.Root)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvList(key, defaultVal string) []string {
	raw := getEnv(key, defaultVal)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
