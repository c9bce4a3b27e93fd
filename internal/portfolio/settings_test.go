package portfolio

import "testing"

func TestParseSettings_Defaults(t *testing.T) {
	got := ParseSettings(nil)

	defaults := DefaultSettings()
	if got != defaults {
		t.Errorf("Expected defaults %+v, got %+v", defaults, got)
	}
	if defaults.ProfitTargetPercent != 6 || defaults.MinProfitAmount != 500 {
		t.Errorf("Unexpected default targets: %+v", defaults)
	}
	if defaults.MaxDailyBuys != 1 || defaults.MaxDailySells != 1 {
		t.Errorf("Unexpected default daily caps: %+v", defaults)
	}
}

func TestParseSettings_Overrides(t *testing.T) {
	raw := map[string]string{
		KeyProfitTargetPercent: "8.5",
		KeyTotalCapital:        "750000",
		KeyMaxDailyBuys:        "3",
	}

	got := ParseSettings(raw)
	if got.ProfitTargetPercent != 8.5 {
		t.Errorf("Expected profit target 8.5, got %f", got.ProfitTargetPercent)
	}
	if got.TotalCapital != 750000 {
		t.Errorf("Expected total capital 750000, got %f", got.TotalCapital)
	}
	if got.MaxDailyBuys != 3 {
		t.Errorf("Expected max daily buys 3, got %d", got.MaxDailyBuys)
	}
	// Untouched keys keep their defaults.
	if got.MinProfitAmount != 500 {
		t.Errorf("Expected min profit default 500, got %f", got.MinProfitAmount)
	}
}

func TestParseSettings_InvalidValuesFallBack(t *testing.T) {
	raw := map[string]string{
		KeyProfitTargetPercent: "not-a-number",
		KeyMaxDailySells:       "",
		KeyAveragingThreshold:  "3.0.0",
	}

	got := ParseSettings(raw)
	defaults := DefaultSettings()
	if got.ProfitTargetPercent != defaults.ProfitTargetPercent {
		t.Errorf("Expected fallback to default profit target, got %f", got.ProfitTargetPercent)
	}
	if got.MaxDailySells != defaults.MaxDailySells {
		t.Errorf("Expected fallback to default sell cap, got %d", got.MaxDailySells)
	}
	if got.AveragingThreshold != defaults.AveragingThreshold {
		t.Errorf("Expected fallback to default averaging threshold, got %f", got.AveragingThreshold)
	}
}
