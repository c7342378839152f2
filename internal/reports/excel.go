// Package reports builds the staff day-agenda export.
package reports

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/pluppex-art/to-na-pista-boliche-sub000/internal/model"
)

var agendaColumns = []string{
	"Horário", "Cliente", "Telefone", "Pistas", "Pessoas",
	"Status", "Pagamento", "Mesa", "Valor (R$)",
}

// WriteDayAgenda renders one date's reservations as an xlsx sheet, ordered
// by start hour. Cancelled rows are included so the agenda matches what
// staff see in the system.
func WriteDayAgenda(w io.Writer, date string, reservations []model.Reservation) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := date
	// Excel caps sheet names at 31 chars.
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	f.SetSheetName("Sheet1", sheet)

	for i, col := range agendaColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, 1)
		endCell, _ := excelize.CoordinatesToCellName(len(agendaColumns), 1)
		_ = f.SetCellStyle(sheet, startCell, endCell, style)
	}

	ordered := make([]model.Reservation, len(reservations))
	copy(ordered, reservations)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].StartHour != ordered[j].StartHour {
			return ordered[i].StartHour < ordered[j].StartHour
		}
		return ordered[i].ClientName < ordered[j].ClientName
	})

	for i, r := range ordered {
		row := []any{
			fmt.Sprintf("%02d:00 – %02d:00", r.StartHour%24, r.EndHour()%24),
			r.ClientName,
			r.ClientPhone,
			r.LaneCount,
			r.PeopleCount,
			r.Status,
			r.PaymentStatus,
			tableLabel(&r),
			float64(r.PriceCents) / 100,
		}
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func tableLabel(r *model.Reservation) string {
	if !r.HasTableReservation {
		return "-"
	}
	return fmt.Sprintf("%d lugares", r.TableSeatCount)
}
