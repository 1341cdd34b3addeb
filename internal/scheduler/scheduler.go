package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"ternak-backend/internal/classify"
	"ternak-backend/internal/config"
	"ternak-backend/internal/database"
	"ternak-backend/internal/kandang"
	"ternak-backend/internal/models"
	"ternak-backend/internal/notify"
)

// Scheduler menjalankan pemindaian kondisi farm terjadwal dan mengirim
// alert untuk kandang serta stok yang melewati ambang batas.
type Scheduler struct {
	cron     *cron.Cron
	cfg      *config.Config
	notifier notify.Notifier
	logger   *zap.Logger
}

func New(cfg *config.Config, notifier notify.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		notifier: notifier,
		logger:   logger,
	}
}

// Start mendaftarkan job pemindaian sesuai ekspresi cron di konfigurasi
// (default: tiap hari jam 06:00).
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.cfg.AlertCron, s.runScan); err != nil {
		s.logger.Error("jadwal pemindaian gagal didaftarkan", zap.Error(err))
		return
	}

	s.cron.Start()
	s.logger.Info("scheduler berjalan", zap.String("cron", s.cfg.AlertCron))
}

// Stop menghentikan scheduler dan menunggu job berjalan selesai.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler berhenti")
}

func (s *Scheduler) runScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	alerts, err := s.ScanAlerts()
	if err != nil {
		s.logger.Error("pemindaian kondisi gagal", zap.Error(err))
		return
	}
	if len(alerts) == 0 {
		s.logger.Info("pemindaian selesai, tidak ada alert")
		return
	}

	if err := s.notifier.SendAlerts(ctx, alerts); err != nil {
		s.logger.Error("pengiriman alert gagal",
			zap.Int("jumlah", len(alerts)), zap.Error(err))
	}
}

// ScanAlerts memeriksa semua kandang dan stok terhadap ambang batas dan
// mengembalikan daftar alert untuk kondisi warning/critical.
func (s *Scheduler) ScanAlerts() ([]notify.Alert, error) {
	now := time.Now().Format(time.RFC3339)
	t := s.cfg.Thresholds

	var alerts []notify.Alert

	var daftarKandang []models.Kandang
	if err := database.DB.Find(&daftarKandang).Error; err != nil {
		return nil, err
	}

	for _, k := range daftarKandang {
		ledger, totals, err := kandang.LoadLedger(database.DB, k.ID)
		if err != nil {
			return nil, err
		}

		populasi := ledger.TotalSisa()
		utilPct := 0.0
		if k.Kapasitas > 0 {
			utilPct = float64(populasi) / float64(k.Kapasitas) * 100
		}
		mortPct := classify.MortalityPct(totals.Kematian, totals.Masuk)

		if tier := t.MortalityTier(mortPct); tier == classify.MortalityHigh || tier == classify.MortalityCritical {
			alerts = append(alerts, notify.Alert{
				Jenis:     "mortalitas",
				Status:    string(tier),
				Subjek:    k.Nama,
				Nilai:     mortPct,
				Pesan:     fmt.Sprintf("Mortalitas kandang %s mencapai %.2f%%", k.Nama, mortPct),
				Timestamp: now,
			})
		}

		if tier := t.UtilizationTier(utilPct, mortPct); tier != classify.UtilizationGood {
			alerts = append(alerts, notify.Alert{
				Jenis:     "utilisasi",
				Status:    string(tier),
				Subjek:    k.Nama,
				Nilai:     utilPct,
				Pesan:     fmt.Sprintf("Utilisasi kandang %s mencapai %.2f%%", k.Nama, utilPct),
				Timestamp: now,
			})
		}
	}

	var pakan []models.Pakan
	if err := database.DB.Find(&pakan).Error; err != nil {
		return nil, err
	}
	for _, p := range pakan {
		if tier := t.FeedStockTier(p.StokKg); tier != classify.StockSufficient {
			alerts = append(alerts, notify.Alert{
				Jenis:     "stok_pakan",
				Status:    string(tier),
				Subjek:    p.Nama,
				Nilai:     p.StokKg,
				Pesan:     fmt.Sprintf("Stok pakan %s tersisa %.2f kg", p.Nama, p.StokKg),
				Timestamp: now,
			})
		}
	}

	var vaksin []models.Vaksin
	if err := database.DB.Find(&vaksin).Error; err != nil {
		return nil, err
	}
	for _, v := range vaksin {
		if tier := t.VaccineStockTier(v.StokUnit); tier != classify.StockSufficient {
			alerts = append(alerts, notify.Alert{
				Jenis:     "stok_vaksin",
				Status:    string(tier),
				Subjek:    v.Nama,
				Nilai:     float64(v.StokUnit),
				Pesan:     fmt.Sprintf("Stok vaksin %s tersisa %d unit", v.Nama, v.StokUnit),
				Timestamp: now,
			})
		}
	}

	return alerts, nil
}
