package reconcile

import (
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/units"
)

// lane is one (raw material, store) ledger line.
type lane struct {
	key  LaneKey
	name string
	unit units.Unit
}

type movements struct {
	consumed DailyTotals
	received DailyTotals
	waste    DailyTotals
	counts   countIndex
}

// buildDaily walks one lane through days in order. The opening stock of the
// first day is the count of the day before, or a theoretical zero.
//
// A day with a count is measured: the count is the final and delta compares it
// with the expected stock. A day without one carries its expected stock forward
// as a theoretical final, and delta stays undefined.
func buildDaily(l lane, days []time.Time, mv movements) []LedgerRow {
	if len(days) == 0 {
		return nil
	}

	initial, measured := mv.counts.at(l.key, dayKey(days[0].AddDate(0, 0, -1)))
	initialTheoretical := !measured

	rows := make([]LedgerRow, 0, len(days))
	for _, d := range days {
		key := dayKey(d)
		row := LedgerRow{
			RawMaterialID:      l.key.MaterialID,
			MaterialName:       l.name,
			StoreID:            l.key.StoreID,
			BucketKey:          key,
			Unit:               l.unit,
			Initial:            initial,
			InitialTheoretical: initialTheoretical,
			Consumed:           mv.consumed.At(key, l.key),
			Received:           mv.received.At(key, l.key),
			Waste:              mv.waste.At(key, l.key),
		}
		row.Expected = row.Initial - row.Consumed + row.Received

		if count, ok := mv.counts.at(l.key, key); ok {
			row.Final = count
			delta := count - row.Expected
			row.Delta = &delta
		} else {
			row.Final = row.Expected
			row.Theoretical = true
		}

		rows = append(rows, row)
		initial, initialTheoretical = row.Final, row.Theoretical
	}
	return rows
}
