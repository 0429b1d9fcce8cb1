package core

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestCoerceToJSONBytesYAML(t *testing.T) {
	t.Parallel()
	raw := []byte(`
telegram:
  token: "123:abc"
  owner_user_ids: [42]
scheduler:
  enabled: true
  workers: 2
plugins:
  sheep:
    enabled: true
    config:
      push_time: "08:00"
`)
	jb, format, err := coerceToJSONBytes("config.yaml", raw)
	if err != nil {
		t.Fatalf("coerceToJSONBytes error: %v", err)
	}
	if format != "yaml" {
		t.Fatalf("format = %q, want yaml", format)
	}

	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		t.Fatalf("strict decode: %v", err)
	}
	if cfg.Telegram.Token != "123:abc" || len(cfg.Telegram.OwnerUserIDs) != 1 {
		t.Fatalf("telegram section mismatched: %+v", cfg.Telegram)
	}
	if !cfg.Scheduler.Enabled || cfg.Scheduler.Workers != 2 {
		t.Fatalf("scheduler section mismatched: %+v", cfg.Scheduler)
	}
	p, ok := cfg.Plugins["sheep"]
	if !ok || !p.Enabled {
		t.Fatalf("plugin section mismatched: %+v", cfg.Plugins)
	}
}

func TestStrictDecodeRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	raw := []byte(`
telegram:
  token: "x"
  not_a_real_key: true
`)
	jb, _, err := coerceToJSONBytes("config.yml", raw)
	if err != nil {
		t.Fatalf("coerceToJSONBytes error: %v", err)
	}
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(jb))
	dec.DisallowUnknownFields()
	err = dec.Decode(&cfg)
	if err == nil || !strings.Contains(err.Error(), "not_a_real_key") {
		t.Fatalf("decode = %v, want unknown-field error", err)
	}
}

func TestPluginConfigRawRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	var p PluginConfigRaw
	if err := json.Unmarshal([]byte(`{"enabled":true,"cfg":{}}`), &p); err == nil {
		t.Fatal("expected unknown-field error for legacy key")
	}
	if err := json.Unmarshal([]byte(`{"enabled":true,"config":{"a":1}}`), &p); err != nil {
		t.Fatalf("valid blob rejected: %v", err)
	}
	if !p.Enabled || len(p.Config) == 0 {
		t.Fatalf("unexpected result: %+v", p)
	}
}
