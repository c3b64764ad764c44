package config

import (
	"time"

	"github.com/spf13/viper"
)

func LoadConfig() error {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SICETAC_ENDPOINT", "http://rndcws.mintransporte.gov.co:8080/soap/IBPMServices")
	viper.SetDefault("SICETAC_TIMEOUT_SECONDS", 20.0)
	// The RNDC gateway presents an invalid certificate chain, so verification
	// is off by default; set SICETAC_VERIFY_SSL=true once the chain is fixed.
	viper.SetDefault("SICETAC_VERIFY_SSL", false)
	viper.SetDefault("QUOTE_CACHE_TTL_SECONDS", 300)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}
	return nil
}

func GetDBConnectionString() string {
	return viper.GetString("POSTGRES_URL")
}

func GetSicetacEndpoint() string {
	return viper.GetString("SICETAC_ENDPOINT")
}

func GetSicetacUsername() string {
	return viper.GetString("SICETAC_USERNAME")
}

func GetSicetacPassword() string {
	return viper.GetString("SICETAC_PASSWORD")
}

func GetSicetacCompanyNIT() string {
	return viper.GetString("SICETAC_COMPANY_NIT")
}

func GetSicetacTimeout() time.Duration {
	return time.Duration(viper.GetFloat64("SICETAC_TIMEOUT_SECONDS") * float64(time.Second))
}

func GetSicetacVerifySSL() bool {
	return viper.GetBool("SICETAC_VERIFY_SSL")
}

func GetQuoteCacheTTL() time.Duration {
	return time.Duration(viper.GetInt("QUOTE_CACHE_TTL_SECONDS")) * time.Second
}
