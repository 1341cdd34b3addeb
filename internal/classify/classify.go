package classify

// Tingkatan status yang dipakai tampilan list/dashboard. Nilai string stabil
// karena ikut dikirim sebagai JSON ke frontend.

type MortalityTier string

const (
	MortalityLow      MortalityTier = "low"
	MortalityMedium   MortalityTier = "medium"
	MortalityHigh     MortalityTier = "high"
	MortalityCritical MortalityTier = "critical"
)

type UtilizationTier string

const (
	UtilizationGood     UtilizationTier = "good"
	UtilizationWarning  UtilizationTier = "warning"
	UtilizationCritical UtilizationTier = "critical"
)

type StockTier string

const (
	StockEmpty      StockTier = "empty"
	StockCritical   StockTier = "critical"
	StockLow        StockTier = "low"
	StockSufficient StockTier = "sufficient"
)

// Thresholds: konstanta kebijakan bisnis untuk klasifikasi status.
// Nilai default mengikuti dokumentasi halaman "Tentang/Ambang Batas";
// bisa dioverride lewat environment (lihat internal/config).
type Thresholds struct {
	MortalityMediumPct   float64 // >= medium
	MortalityHighPct     float64 // >= high
	MortalityCriticalPct float64 // >= critical

	UtilizationWarningPct  float64 // > warning (atau mortalitas > MortalityHighPct)
	UtilizationCriticalPct float64 // > critical (atau mortalitas > MortalityCriticalPct)

	FeedCriticalKg float64 // 0 < kg <= critical
	FeedLowKg      float64 // critical < kg <= low

	VaccineCriticalUnit int // 0 < unit <= critical
	VaccineLowUnit      int // critical < unit <= low
}

// Default mengembalikan ambang batas sesuai kebijakan produk.
func Default() Thresholds {
	return Thresholds{
		MortalityMediumPct:   2,
		MortalityHighPct:     5,
		MortalityCriticalPct: 10,

		UtilizationWarningPct:  85,
		UtilizationCriticalPct: 95,

		FeedCriticalKg: 10,
		FeedLowKg:      50,

		VaccineCriticalUnit: 2,
		VaccineLowUnit:      5,
	}
}

// MortalityPct menghitung persentase kematian terhadap populasi sebelum
// kematian. Populasi 0 dianggap 0% (tier low), bukan pembagian dengan nol.
func MortalityPct(deaths, populationBefore int) float64 {
	if populationBefore <= 0 {
		return 0
	}
	return float64(deaths) / float64(populationBefore) * 100
}

// MortalityTier memetakan persentase kematian ke tingkatan status.
// Batas bawah inklusif: tepat 10% sudah critical, tepat 5% sudah high.
func (t Thresholds) MortalityTier(pct float64) MortalityTier {
	switch {
	case pct >= t.MortalityCriticalPct:
		return MortalityCritical
	case pct >= t.MortalityHighPct:
		return MortalityHigh
	case pct >= t.MortalityMediumPct:
		return MortalityMedium
	default:
		return MortalityLow
	}
}

// UtilizationTier menggabungkan utilisasi kapasitas dan persentase kematian.
// Urutan cek: critical dulu, lalu warning, sisanya good.
func (t Thresholds) UtilizationTier(utilPct, mortalityPct float64) UtilizationTier {
	if mortalityPct > t.MortalityCriticalPct || utilPct > t.UtilizationCriticalPct {
		return UtilizationCritical
	}
	if mortalityPct > t.MortalityHighPct || utilPct > t.UtilizationWarningPct {
		return UtilizationWarning
	}
	return UtilizationGood
}

// FeedStockTier memetakan stok pakan (kg) ke tingkatan status.
// Tepat 10kg masih critical, tepat 50kg masih low.
func (t Thresholds) FeedStockTier(kg float64) StockTier {
	switch {
	case kg <= 0:
		return StockEmpty
	case kg <= t.FeedCriticalKg:
		return StockCritical
	case kg <= t.FeedLowKg:
		return StockLow
	default:
		return StockSufficient
	}
}

// VaccineStockTier memetakan stok vaksin (unit) ke tingkatan status.
func (t Thresholds) VaccineStockTier(units int) StockTier {
	switch {
	case units <= 0:
		return StockEmpty
	case units <= t.VaccineCriticalUnit:
		return StockCritical
	case units <= t.VaccineLowUnit:
		return StockLow
	default:
		return StockSufficient
	}
}
