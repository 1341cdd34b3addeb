package classify

import "testing"

func TestMortalityTier_Boundaries(t *testing.T) {
	th := Default()

	tests := []struct {
		pct  float64
		want MortalityTier
	}{
		{0, MortalityLow},
		{1.99, MortalityLow},
		{2, MortalityMedium},
		{4.99, MortalityMedium},
		{5, MortalityHigh},
		{9.99, MortalityHigh},
		{10, MortalityCritical},
		{35.5, MortalityCritical},
	}

	for _, tt := range tests {
		if got := th.MortalityTier(tt.pct); got != tt.want {
			t.Errorf("MortalityTier(%v) = %s, want %s", tt.pct, got, tt.want)
		}
	}
}

func TestMortalityTier_Monotonic(t *testing.T) {
	th := Default()
	rank := map[MortalityTier]int{
		MortalityLow:      0,
		MortalityMedium:   1,
		MortalityHigh:     2,
		MortalityCritical: 3,
	}

	prev := th.MortalityTier(0)
	for pct := 0.0; pct <= 20; pct += 0.25 {
		got := th.MortalityTier(pct)
		if rank[got] < rank[prev] {
			t.Fatalf("tier turun dari %s ke %s pada %v%%", prev, got, pct)
		}
		prev = got
	}
}

func TestMortalityPct_ZeroPopulation(t *testing.T) {
	if got := MortalityPct(5, 0); got != 0 {
		t.Errorf("MortalityPct(5, 0) = %v, want 0", got)
	}
	if got := Default().MortalityTier(MortalityPct(5, 0)); got != MortalityLow {
		t.Errorf("tier untuk populasi 0 = %s, want %s", got, MortalityLow)
	}
}

func TestMortalityPct(t *testing.T) {
	if got := MortalityPct(10, 1000); got != 1.0 {
		t.Errorf("MortalityPct(10, 1000) = %v, want 1.0", got)
	}
	if got := MortalityPct(100, 1000); got != 10.0 {
		t.Errorf("MortalityPct(100, 1000) = %v, want 10.0", got)
	}
}

func TestUtilizationTier(t *testing.T) {
	th := Default()

	tests := []struct {
		name    string
		utilPct float64
		mortPct float64
		want    UtilizationTier
	}{
		{"semua_normal", 50, 1, UtilizationGood},
		{"batas_atas_good", 85, 5, UtilizationGood},
		{"utilisasi_warning", 86, 0, UtilizationWarning},
		{"mortalitas_warning", 10, 5.5, UtilizationWarning},
		{"utilisasi_critical", 95.5, 0, UtilizationCritical},
		{"mortalitas_critical", 10, 10.5, UtilizationCritical},
		{"critical_menang_atas_warning", 96, 6, UtilizationCritical},
	}

	for _, tt := range tests {
		if got := th.UtilizationTier(tt.utilPct, tt.mortPct); got != tt.want {
			t.Errorf("%s: UtilizationTier(%v, %v) = %s, want %s",
				tt.name, tt.utilPct, tt.mortPct, got, tt.want)
		}
	}
}

func TestFeedStockTier_Boundaries(t *testing.T) {
	th := Default()

	tests := []struct {
		kg   float64
		want StockTier
	}{
		{0, StockEmpty},
		{0.5, StockCritical},
		{10, StockCritical},
		{10.1, StockLow},
		{50, StockLow},
		{50.1, StockSufficient},
		{500, StockSufficient},
	}

	for _, tt := range tests {
		if got := th.FeedStockTier(tt.kg); got != tt.want {
			t.Errorf("FeedStockTier(%v) = %s, want %s", tt.kg, got, tt.want)
		}
	}
}

func TestVaccineStockTier_Boundaries(t *testing.T) {
	th := Default()

	tests := []struct {
		units int
		want  StockTier
	}{
		{0, StockEmpty},
		{1, StockCritical},
		{2, StockCritical},
		{3, StockLow},
		{5, StockLow},
		{6, StockSufficient},
	}

	for _, tt := range tests {
		if got := th.VaccineStockTier(tt.units); got != tt.want {
			t.Errorf("VaccineStockTier(%d) = %s, want %s", tt.units, got, tt.want)
		}
	}
}

func TestThresholds_Override(t *testing.T) {
	th := Default()
	th.FeedCriticalKg = 20

	if got := th.FeedStockTier(15); got != StockCritical {
		t.Errorf("dengan ambang 20kg, FeedStockTier(15) = %s, want %s", got, StockCritical)
	}
}
