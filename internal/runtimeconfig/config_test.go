package runtimeconfig_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-storefront/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "missing driver",
			mutate: func(c *runtimeconfig.Config) { c.Storage.Driver = " " },
			want:   runtimeconfig.ErrStorageDriverRequired,
		},
		{
			name:   "unknown driver",
			mutate: func(c *runtimeconfig.Config) { c.Storage.Driver = "mysql" },
			want:   runtimeconfig.ErrStorageDriverUnknown,
		},
		{
			name:   "missing dsn",
			mutate: func(c *runtimeconfig.Config) { c.Storage.DSN = "" },
			want:   runtimeconfig.ErrStorageDSNRequired,
		},
		{
			name: "cache without ttl",
			mutate: func(c *runtimeconfig.Config) {
				c.Cache.Enabled = true
				c.Cache.DefaultTTL = 0
			},
			want: runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name:   "featured limit zero",
			mutate: func(c *runtimeconfig.Config) { c.Catalog.FeaturedLimit = 0 },
			want:   runtimeconfig.ErrFeaturedLimitInvalid,
		},
		{
			name:   "cart ttl",
			mutate: func(c *runtimeconfig.Config) { c.Cart.TTL = 0 },
			want:   runtimeconfig.ErrCartTTLInvalid,
		},
		{
			name:   "cart capacity",
			mutate: func(c *runtimeconfig.Config) { c.Cart.Capacity = -1 },
			want:   runtimeconfig.ErrCartCapacityInvalid,
		},
		{
			name:   "session secret",
			mutate: func(c *runtimeconfig.Config) { c.Session.Secret = "" },
			want:   runtimeconfig.ErrSessionSecretRequired,
		},
		{
			name:   "server addr",
			mutate: func(c *runtimeconfig.Config) { c.Server.Addr = "" },
			want:   runtimeconfig.ErrServerAddrRequired,
		},
		{
			name: "logging provider required",
			mutate: func(c *runtimeconfig.Config) {
				c.Features.Logger = true
				c.Logging.Provider = ""
			},
			want: runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name: "unknown logging provider",
			mutate: func(c *runtimeconfig.Config) {
				c.Features.Logger = true
				c.Logging.Provider = "syslog"
			},
			want: runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "invalid logging level",
			mutate: func(c *runtimeconfig.Config) {
				c.Features.Logger = true
				c.Logging.Level = "loud"
			},
			want: runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(c *runtimeconfig.Config) {
				c.Features.Logger = true
				c.Logging.Provider = "gologger"
				c.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_CartSettingsIgnoredWhenDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Cart = false
	cfg.Cart = runtimeconfig.CartConfig{}

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestNormalizeDriver(t *testing.T) {
	for in, want := range map[string]string{
		"sqlite":     "sqlite3",
		" SQLite3 ":  "sqlite3",
		"postgresql": "postgres",
		"pg":         "postgres",
		"mysql":      "mysql",
	} {
		if got := runtimeconfig.NormalizeDriver(in); got != want {
			t.Fatalf("NormalizeDriver(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeOverlaysDefaults(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	doc := `
storage:
  driver: postgres
  dsn: postgres://localhost/shop
catalog:
  featured_limit: 12
cart:
  ttl: 5m
logging:
  level: debug
  focus: [storefront.catalog]
`
	if err := runtimeconfig.Decode(strings.NewReader(doc), &cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	want := runtimeconfig.DefaultConfig()
	want.Storage.Driver = "postgres"
	want.Storage.DSN = "postgres://localhost/shop"
	want.Catalog.FeaturedLimit = 12
	want.Cart.TTL = 5 * time.Minute
	want.Logging.Level = "debug"
	want.Logging.Focus = []string{"storefront.catalog"}

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.Decode(strings.NewReader("themes:\n  default: dark\n"), &cfg); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestDecodeEmptyDocumentKeepsDefaults(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := runtimeconfig.Decode(strings.NewReader(""), &cfg); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(runtimeconfig.DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyEnvOverridesSecrets(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	env := map[string]string{
		runtimeconfig.EnvDSN:           " postgres://env/shop ",
		runtimeconfig.EnvSessionSecret: "from-env",
	}
	runtimeconfig.ApplyEnv(&cfg, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})

	if cfg.Storage.DSN != "postgres://env/shop" {
		t.Fatalf("expected dsn override, got %q", cfg.Storage.DSN)
	}
	if cfg.Session.Secret != "from-env" {
		t.Fatalf("expected secret override, got %q", cfg.Session.Secret)
	}
}

func TestLoadFileMissingPathReturnsError(t *testing.T) {
	if _, err := runtimeconfig.LoadFile(t.TempDir() + "/missing.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
