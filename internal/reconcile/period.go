package reconcile

// buildPeriods folds one lane's daily rows into weekly or monthly rows. The
// daily rows must cover every day of every bucket.
//
// Each period is reconciled from its boundaries: opening stock from the count
// of the day before the first day (or, without one, the first day's expected),
// closing stock from the last day, movements summed. The daily deltas are never
// summed since they reset at every count.
func buildPeriods(daily []LedgerRow, bks []bucket, initialMode PeriodInitial) []LedgerRow {
	byDay := make(map[string]int, len(daily))
	for i, r := range daily {
		byDay[r.BucketKey] = i
	}

	rows := make([]LedgerRow, 0, len(bks))
	for _, b := range bks {
		first, okFirst := byDay[dayKey(b.Start)]
		last, okLast := byDay[dayKey(b.End)]
		if !okFirst || !okLast {
			continue
		}

		open, end := daily[first], daily[last]
		row := LedgerRow{
			RawMaterialID: open.RawMaterialID,
			MaterialName:  open.MaterialName,
			StoreID:       open.StoreID,
			BucketKey:     b.Key,
			Unit:          open.Unit,
			Final:         end.Final,
			Theoretical:   end.Theoretical,
		}

		// The first day's opening already is the count of the day before
		// whenever one exists.
		row.Initial, row.InitialTheoretical = open.Initial, open.InitialTheoretical
		if initialMode == InitialFirstDayExpected && open.InitialTheoretical {
			row.Initial = open.Expected
		}

		for _, d := range daily[first : last+1] {
			row.Consumed += d.Consumed
			row.Received += d.Received
			row.Waste += d.Waste
		}
		row.Expected = row.Initial - row.Consumed + row.Received
		delta := row.Final - row.Expected
		row.Delta = &delta

		rows = append(rows, row)
	}
	return rows
}
