package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", " Memory ")
	t.Setenv("ADMIN_EMAILS", "Anna@Example.com, ,marco@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTExpiry != 24*time.Hour || cfg.LogRetention != 720*time.Hour {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.StoreDriver != StoreMemory {
		t.Fatalf("expected memory driver, got %q", cfg.StoreDriver)
	}
	if len(cfg.AdminEmails) != 2 || cfg.AdminEmails[0] != "anna@example.com" {
		t.Fatalf("unexpected admin emails %v", cfg.AdminEmails)
	}
	if cfg.DefaultRoleForNewUsers != "tester" || !cfg.LocalAuthEnabled {
		t.Fatalf("unexpected role defaults %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		JWTSecret:              "s",
		StoreDriver:            StorePostgres,
		DBPassword:             "p",
		DefaultRoleForNewUsers: "tester",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	broken := Config{StoreDriver: "mongo", OIDCIssuer: "https://idp", DefaultRoleForNewUsers: "root"}
	err := broken.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"JWT_SECRET", "STORE_DRIVER", "OIDC_AUDIENCE", "DEFAULT_ROLE_FOR_NEW_USERS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}

	memory := Config{JWTSecret: "s", StoreDriver: StoreMemory, DefaultRoleForNewUsers: "admin"}
	if err := memory.Validate(); err != nil {
		t.Fatalf("memory store needs no DB password: %v", err)
	}
}

func TestDevRoleOverrideAllowed(t *testing.T) {
	cases := []struct {
		env      string
		override bool
		want     bool
	}{
		{"development", true, true},
		{"production", true, false},
		{"development", false, false},
	}
	for _, tc := range cases {
		c := Config{AppEnv: tc.env, DevRoleOverride: tc.override}
		if got := c.DevRoleOverrideAllowed(); got != tc.want {
			t.Errorf("env=%s override=%v: got %v, want %v", tc.env, tc.override, got, tc.want)
		}
	}
}

func TestDSN(t *testing.T) {
	c := Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "smarttest", DBPort: "5432", DBSSLMode: "disable"}
	want := "host=db user=u password=p dbname=smarttest port=5432 sslmode=disable TimeZone=UTC"
	if got := c.DSN(); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}
