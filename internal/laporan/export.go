package laporan

import (
	"fmt"

	"ternak-backend/internal/database"
	"ternak-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

var namaBulan = [...]string{
	"", "Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// GET /api/laporan/:id/export
// Unduh laporan bulanan sebagai file .xlsx.
func ExportLaporanHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "ID tidak valid")
		}

		var laporan models.LaporanBulanan
		if err := database.DB.Preload("Kandang").First(&laporan, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Laporan tidak ditemukan")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Laporan"
		f.SetSheetName("Sheet1", sheet)

		cakupan := "Semua Kandang"
		if laporan.Kandang != nil {
			cakupan = laporan.Kandang.Nama
		}

		judul := fmt.Sprintf("Laporan Bulanan %s %d", namaBulan[laporan.Bulan], laporan.Tahun)
		f.SetCellValue(sheet, "A1", judul)
		f.SetCellValue(sheet, "A2", "Cakupan")
		f.SetCellValue(sheet, "B2", cakupan)

		rows := [][2]interface{}{
			{"Total Ayam Masuk", laporan.TotalAyamMasuk},
			{"Total Kematian", laporan.TotalKematian},
			{"Persentase Kematian (%)", laporan.PersentaseKematian},
			{"Total Panen (ekor)", laporan.TotalPanen},
			{"Total Berat Panen (kg)", laporan.TotalBeratPanenKg.StringFixed(2)},
			{"Total Biaya", laporan.TotalBiaya.StringFixed(2)},
			{"Catatan", laporan.Catatan},
		}
		for i, row := range rows {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", i+4), row[0])
			f.SetCellValue(sheet, fmt.Sprintf("B%d", i+4), row[1])
		}
		f.SetColWidth(sheet, "A", "A", 28)
		f.SetColWidth(sheet, "B", "B", 22)

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "File Excel gagal dibuat")
		}

		filename := fmt.Sprintf("laporan-%d-%02d.xlsx", laporan.Tahun, laporan.Bulan)
		c.Set(fiber.HeaderContentType,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	}
}
