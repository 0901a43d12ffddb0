package config

import (
	"testing"
)

func validConfig() Config {
	return Config{MaxAttempts: 4}
}

func TestValidateProxyCredentials(t *testing.T) {
	{
		c := validConfig()
		if err := c.Validate(); err != nil {
			t.Fatalf("proxy disabled should validate: %v", err)
		}
	}
	{
		c := validConfig()
		c.EnableProxy = true
		if err := c.Validate(); err == nil {
			t.Fatalf("proxy without credentials must fail startup")
		}
	}
	{
		c := validConfig()
		c.EnableProxy = true
		c.ProxyUsername = "user"
		c.ProxyPassword = "pass"
		if err := c.Validate(); err == nil {
			t.Fatalf("proxy without hosts must fail startup")
		}
	}
	{
		c := validConfig()
		c.EnableProxy = true
		c.ProxyUsername = "user"
		c.ProxyPassword = "pass"
		c.ProxyHostUS = "us.gw.example.com"
		if err := c.Validate(); err != nil {
			t.Fatalf("complete proxy config rejected: %v", err)
		}
	}
	{
		c := validConfig()
		c.EnableProxy = true
		c.ProxyUsername = "user"
		c.ProxyPassword = "pass"
		c.ProxyList = "US|gw.example.com:8080"
		if err := c.Validate(); err != nil {
			t.Fatalf("proxy list config rejected: %v", err)
		}
	}
}

func TestValidateAttempts(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("MAX_ATTEMPTS=0 must fail")
	}
}

func TestGetCountry(t *testing.T) {
	old := AppConfig
	defer func() { AppConfig = old }()

	AppConfig.Country = ""
	if got := GetCountry(); got != "US" {
		t.Fatalf("default country=%s", got)
	}
	AppConfig.Country = " in "
	if got := GetCountry(); got != "IN" {
		t.Fatalf("country=%s", got)
	}
}
