package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// point at a file that does not exist so only defaults apply
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.LLMProvider != "none" {
		t.Errorf("llm_provider = %q", c.LLMProvider)
	}
	if c.TopCampaigns != 5 {
		t.Errorf("top_campaigns = %d", c.TopCampaigns)
	}
	if c.TrainTestFraction != 0.25 || c.TrainSeed != 42 || c.TrainMaxIter != 1000 {
		t.Errorf("training defaults = %v %v %v", c.TrainTestFraction, c.TrainSeed, c.TrainMaxIter)
	}
	if c.Addr != ":8080" {
		t.Errorf("addr = %q", c.Addr)
	}
	if c.MaxUploadBytes != 16<<20 {
		t.Errorf("max_upload_bytes = %d", c.MaxUploadBytes)
	}
}

func TestLoadFromFile(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	content := "llm_provider: openrouter\nllm_model: test/model\ntop_campaigns: 3\naddr: \":9090\"\n"
	if err := os.WriteFile(cfgFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.LLMProvider != "openrouter" || c.LLMModel != "test/model" {
		t.Errorf("provider/model = %q %q", c.LLMProvider, c.LLMModel)
	}
	if c.TopCampaigns != 3 {
		t.Errorf("top_campaigns = %d", c.TopCampaigns)
	}
	if c.Addr != ":9090" {
		t.Errorf("addr = %q", c.Addr)
	}
	// untouched keys keep defaults
	if c.TrainMaxIter != 1000 {
		t.Errorf("train_max_iter = %d", c.TrainMaxIter)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LEADLENS_TOP_CAMPAIGNS", "2")
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	c, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TopCampaigns != 2 {
		t.Errorf("top_campaigns = %d, want env override 2", c.TopCampaigns)
	}
}

func TestSaveCreatesParentDir(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := Save(&Global{LLMProvider: "none"}, cfgFile); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(cfgFile); err != nil {
		t.Fatalf("config not written: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{
		LLMProvider:  "anthropic",
		LLMModel:     "some-model",
		TopCampaigns: 7,
		TrainSeed:    99,
		Addr:         ":7070",
	}
	if err := Save(in, cfgFile); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := Load(cfgFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.LLMProvider != in.LLMProvider || out.LLMModel != in.LLMModel {
		t.Errorf("provider/model = %q %q", out.LLMProvider, out.LLMModel)
	}
	if out.TopCampaigns != 7 || out.TrainSeed != 99 || out.Addr != ":7070" {
		t.Errorf("round trip lost values: %+v", out)
	}
}
