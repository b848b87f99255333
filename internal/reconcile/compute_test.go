package reconcile

import (
	"errors"
	"testing"
	"time"

	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/bom"
	"github.com/FoodNxt/sa-pizzedda-operations-hub-sub006/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const store = "cagliari-centro"

func day(s string) time.Time {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	mozzarella model.RawMaterial
	flour      model.RawMaterial
	margherita model.Recipe
	in         Input
}

func newFixture() *fixture {
	f := &fixture{}
	f.mozzarella = model.RawMaterial{Name: "Mozzarella", StockingUnit: "pieces", UnitSizeValue: model.Float(2.5), UnitSizeUnit: "kg"}
	f.mozzarella.ID = uuid.New()
	f.flour = model.RawMaterial{Name: "Flour", StockingUnit: "kg"}
	f.flour.ID = uuid.New()

	f.margherita = model.Recipe{ProductName: "Margherita", Ingredients: []model.Ingredient{
		{TargetRef: f.mozzarella.ID.String(), Quantity: model.Float(200), Unit: "g"},
		{TargetRef: f.flour.ID.String(), Quantity: model.Float(250), Unit: "g"},
	}}
	f.margherita.ID = uuid.New()

	f.in = Input{
		Materials: []model.RawMaterial{f.mozzarella, f.flour},
		Recipes:   []model.Recipe{f.margherita},
	}
	return f
}

func (f *fixture) sell(date string, units int) {
	f.in.Sales = append(f.in.Sales, model.SalesRecord{Date: day(date), ProductName: "Margherita", StoreID: store, UnitsSold: units})
}

func (f *fixture) count(m model.RawMaterial, date string, qty float64) {
	f.in.Counts = append(f.in.Counts, model.InventoryCount{Date: day(date), StoreID: store, RawMaterialID: m.ID, Quantity: model.Float(qty)})
}

func (f *fixture) receive(m model.RawMaterial, at time.Time, qty float64) {
	f.in.Replenishments = append(f.in.Replenishments, model.Replenishment{
		StoreID:     store,
		Status:      model.ReplenishmentCompleted,
		CompletedAt: &at,
		Items:       []model.ReplenishmentItem{{RawMaterialID: m.ID, QuantityReceived: model.Float(qty)}},
	})
}

func rowsFor(r *Report, materialID string) []LedgerRow {
	var out []LedgerRow
	for _, row := range r.Rows {
		if row.RawMaterialID == materialID {
			out = append(out, row)
		}
	}
	return out
}

func TestCompute_TheoreticalDayThenCount(t *testing.T) {
	f := newFixture()
	f.count(f.mozzarella, "2026-03-01", 5)
	f.sell("2026-03-02", 10)
	f.sell("2026-03-03", 5)
	f.count(f.mozzarella, "2026-03-03", 4)

	report, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-03")})
	require.NoError(t, err)

	rows := rowsFor(report, f.mozzarella.ID.String())
	require.Len(t, rows, 2)

	day1 := rows[0]
	assert.Equal(t, "2026-03-02", day1.BucketKey)
	assert.InDelta(t, 5, day1.Initial, 1e-9)
	assert.False(t, day1.InitialTheoretical)
	assert.InDelta(t, 0.8, day1.Consumed, 1e-9)
	assert.InDelta(t, 4.2, day1.Expected, 1e-9)
	assert.InDelta(t, 4.2, day1.Final, 1e-9)
	assert.True(t, day1.Theoretical)
	assert.Nil(t, day1.Delta)

	day2 := rows[1]
	assert.InDelta(t, 4.2, day2.Initial, 1e-9)
	assert.True(t, day2.InitialTheoretical)
	assert.InDelta(t, 0.4, day2.Consumed, 1e-9)
	assert.False(t, day2.Theoretical)
	require.NotNil(t, day2.Delta)
	assert.InDelta(t, 4.0-(4.2-0.4), *day2.Delta, 1e-9)
}

func TestCompute_MissingOpeningCountStartsAtZero(t *testing.T) {
	f := newFixture()
	f.sell("2026-03-02", 5)

	report, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-02")})
	require.NoError(t, err)

	rows := rowsFor(report, f.flour.ID.String())
	require.Len(t, rows, 1)
	assert.Equal(t, 0.0, rows[0].Initial)
	assert.True(t, rows[0].InitialTheoretical)
	assert.InDelta(t, -1.25, rows[0].Final, 1e-9)
}

func TestCompute_TheoreticalPropagation(t *testing.T) {
	f := newFixture()
	f.count(f.flour, "2026-03-02", 20)
	f.count(f.flour, "2026-03-05", 12)
	for _, d := range []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06"} {
		f.sell(d, 4)
	}

	report, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-06")})
	require.NoError(t, err)

	rows := rowsFor(report, f.flour.ID.String())
	require.Len(t, rows, 5)
	var flags []bool
	for _, r := range rows {
		flags = append(flags, r.Theoretical)
	}
	assert.Equal(t, []bool{false, true, true, false, true}, flags)
	assert.InDelta(t, 12, rows[4].Initial, 1e-9)
	assert.False(t, rows[4].InitialTheoretical)
}

func TestCompute_ConservationWithoutCounts(t *testing.T) {
	f := newFixture()
	f.count(f.flour, "2026-03-01", 30)
	f.sell("2026-03-02", 8)
	f.sell("2026-03-03", 3)
	f.sell("2026-03-05", 11)
	f.receive(f.flour, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), 25)

	report, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-06")})
	require.NoError(t, err)

	rows := rowsFor(report, f.flour.ID.String())
	require.Len(t, rows, 5)

	var consumed, received float64
	for _, r := range rows {
		consumed += r.Consumed
		received += r.Received
	}
	assert.InDelta(t, 22*0.25, consumed, 1e-9)
	assert.InDelta(t, 25, received, 1e-9)
	assert.InDelta(t, 30-consumed+received, rows[4].Final, 1e-9)
}

func TestCompute_ExcludesSalesWithoutRecipe(t *testing.T) {
	f := newFixture()
	f.sell("2026-03-02", 2)
	f.in.Sales = append(f.in.Sales, model.SalesRecord{Date: day("2026-03-02"), ProductName: "Diavola", StoreID: store, UnitsSold: 7})

	report, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-02")})
	require.NoError(t, err)

	assert.Equal(t, 7, report.Diagnostics.ExcludedSalesUnits)
	assert.Equal(t, []string{"Diavola"}, report.Diagnostics.ExcludedProductNames)
	assert.True(t, report.Diagnostics.HasWarnings())

	rows := rowsFor(report, f.mozzarella.ID.String())
	require.Len(t, rows, 1)
	assert.InDelta(t, 0.16, rows[0].Consumed, 1e-9)
}

func TestCompute_WeeklyPeriodFromBoundaries(t *testing.T) {
	f := newFixture()
	f.count(f.flour, "2026-03-01", 10) // Sunday before the week
	f.count(f.flour, "2026-03-04", 6)
	for _, d := range []string{"2026-03-02", "2026-03-03", "2026-03-05", "2026-03-07"} {
		f.sell(d, 4)
	}
	f.receive(f.flour, time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC), 5)

	daily, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-08")})
	require.NoError(t, err)
	weekly, err := Compute(f.in, Options{From: day("2026-03-04"), To: day("2026-03-05"), Resolution: Weekly})
	require.NoError(t, err)

	days := rowsFor(daily, f.flour.ID.String())
	require.Len(t, days, 7)
	weeks := rowsFor(weekly, f.flour.ID.String())
	require.Len(t, weeks, 1)
	week := weeks[0]

	assert.Equal(t, "2026-03-02", week.BucketKey)
	assert.InDelta(t, 10, week.Initial, 1e-9)
	assert.False(t, week.InitialTheoretical)
	assert.InDelta(t, 4, week.Consumed, 1e-9)
	assert.InDelta(t, 5, week.Received, 1e-9)
	assert.InDelta(t, days[6].Final, week.Final, 1e-9)
	assert.True(t, week.Theoretical)

	require.NotNil(t, week.Delta)
	assert.InDelta(t, week.Final-(10-4+5), *week.Delta, 1e-9)

	// only the Wednesday count differs from the running expectation
	var summed float64
	for _, d := range days {
		if d.Delta != nil {
			summed += *d.Delta
		}
	}
	assert.InDelta(t, summed, *week.Delta, 1e-9)

	// without the Sunday count the week opens at Monday's expected
	f.in.Counts = f.in.Counts[1:]
	daily, err = Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-08")})
	require.NoError(t, err)
	weekly, err = Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-08"), Resolution: Weekly})
	require.NoError(t, err)

	monday := rowsFor(daily, f.flour.ID.String())[0]
	open := rowsFor(weekly, f.flour.ID.String())[0]
	assert.InDelta(t, -1, monday.Expected, 1e-9)
	assert.InDelta(t, monday.Expected, open.Initial, 1e-9)
	assert.True(t, open.InitialTheoretical)
	require.NotNil(t, open.Delta)
	assert.InDelta(t, open.Final-(open.Initial-open.Consumed+open.Received), *open.Delta, 1e-9)
}

func TestCompute_PeriodInitialModes(t *testing.T) {
	f := newFixture()
	f.sell("2026-03-09", 4)
	f.count(f.flour, "2026-03-15", 3)

	opts := Options{From: day("2026-03-09"), To: day("2026-03-15"), Resolution: Weekly}
	byDefault, err := Compute(f.in, opts)
	require.NoError(t, err)
	opts.PeriodInitial = InitialCarryForward
	carry, err := Compute(f.in, opts)
	require.NoError(t, err)

	// no count on Sunday 03-08: opening stock is Monday's expected
	d := rowsFor(byDefault, f.flour.ID.String())[0]
	assert.InDelta(t, -1, d.Initial, 1e-9)
	assert.True(t, d.InitialTheoretical)
	assert.InDelta(t, 1, d.Consumed, 1e-9)
	assert.InDelta(t, -2, d.Expected, 1e-9)
	require.NotNil(t, d.Delta)
	assert.InDelta(t, 3-(-1-1), *d.Delta, 1e-9)

	c := rowsFor(carry, f.flour.ID.String())[0]
	assert.Equal(t, 0.0, c.Initial)
	assert.True(t, c.InitialTheoretical)
	require.NotNil(t, c.Delta)
	assert.InDelta(t, 3-(0-1), *c.Delta, 1e-9)
}

func TestCompute_MonthlyBuckets(t *testing.T) {
	f := newFixture()
	f.sell("2026-02-27", 4)
	f.sell("2026-03-03", 8)

	report, err := Compute(f.in, Options{From: day("2026-02-20"), To: day("2026-03-10"), Resolution: Monthly})
	require.NoError(t, err)

	rows := rowsFor(report, f.flour.ID.String())
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-02", rows[0].BucketKey)
	assert.Equal(t, "2026-03", rows[1].BucketKey)
	assert.InDelta(t, 1, rows[0].Consumed, 1e-9)
	assert.InDelta(t, rows[0].Final, rows[1].Initial, 1e-9)
}

func TestCompute_ReplenishmentUsesLocalDate(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	f := newFixture()
	f.receive(f.flour, time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC), 10)
	f.in.Replenishments = append(f.in.Replenishments, model.Replenishment{
		StoreID: store,
		Status:  "pending",
		Items:   []model.ReplenishmentItem{{RawMaterialID: f.flour.ID, QuantityReceived: model.Float(99)}},
	})

	report, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-03"), Location: rome})
	require.NoError(t, err)

	rows := rowsFor(report, f.flour.ID.String())
	require.Len(t, rows, 2)
	assert.Equal(t, 0.0, rows[0].Received)
	assert.InDelta(t, 10, rows[1].Received, 1e-9)
}

func TestCompute_WasteIsReportedNotSubtracted(t *testing.T) {
	f := newFixture()
	f.count(f.flour, "2026-03-01", 10)
	f.in.Waste = append(f.in.Waste, model.WasteRecord{Date: day("2026-03-02"), StoreID: store, RawMaterialID: f.flour.ID, Quantity: model.Float(500)})

	report, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-02")})
	require.NoError(t, err)

	rows := rowsFor(report, f.flour.ID.String())
	require.Len(t, rows, 1)
	assert.InDelta(t, 0.5, rows[0].Waste, 1e-9)
	assert.InDelta(t, 10, rows[0].Expected, 1e-9)
}

func TestCompute_DuplicateCountsLatestWins(t *testing.T) {
	f := newFixture()
	f.count(f.flour, "2026-03-02", 9)
	f.count(f.flour, "2026-03-02", 7)
	f.in.Counts[0].CreatedAt = time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC)
	f.in.Counts[1].CreatedAt = time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)

	report, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-02")})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Diagnostics.DuplicateCounts)
	rows := rowsFor(report, f.flour.ID.String())
	require.Len(t, rows, 1)
	assert.Equal(t, 9.0, rows[0].Final)
}

func TestCompute_StoreLanes(t *testing.T) {
	f := newFixture()
	f.sell("2026-03-02", 4)
	f.in.Sales = append(f.in.Sales, model.SalesRecord{Date: day("2026-03-02"), ProductName: "margherita", StoreID: "olbia", UnitsSold: 8})

	all, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-02")})
	require.NoError(t, err)
	flour := rowsFor(all, f.flour.ID.String())
	require.Len(t, flour, 2)
	assert.Equal(t, store, flour[0].StoreID)
	assert.Equal(t, "olbia", flour[1].StoreID)

	one, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-02"), StoreID: "olbia"})
	require.NoError(t, err)
	flour = rowsFor(one, f.flour.ID.String())
	require.Len(t, flour, 1)
	assert.InDelta(t, 2, flour[0].Consumed, 1e-9)
}

func TestCompute_CyclicBOMAborts(t *testing.T) {
	f := newFixture()
	base := model.Recipe{ProductName: "Base", IsSemiFinished: true}
	base.ID = uuid.New()
	base.Ingredients = []model.Ingredient{{TargetRef: base.ID.String(), Quantity: model.Float(1)}}
	pizza := model.Recipe{ProductName: "Bianca", Ingredients: []model.Ingredient{{TargetRef: base.ID.String(), Quantity: model.Float(1)}}}
	pizza.ID = uuid.New()
	f.in.Recipes = append(f.in.Recipes, base, pizza)
	f.in.Sales = append(f.in.Sales, model.SalesRecord{Date: day("2026-03-02"), ProductName: "Bianca", StoreID: store, UnitsSold: 1})

	_, err := Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-02")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bom.ErrCyclicBOM))
}

func TestCompute_InvalidOptions(t *testing.T) {
	f := newFixture()
	_, err := Compute(f.in, Options{From: day("2026-03-05"), To: day("2026-03-02")})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Compute(f.in, Options{From: day("2026-03-02"), To: day("2026-03-02"), Resolution: "hourly"})
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestWindow(t *testing.T) {
	from, to := Window(Options{From: day("2026-03-04"), To: day("2026-03-10"), Resolution: Weekly})
	assert.Equal(t, "2026-03-01", dayKey(from))
	assert.Equal(t, "2026-03-15", dayKey(to))

	from, to = Window(Options{From: day("2026-02-10"), To: day("2026-02-10"), Resolution: Monthly})
	assert.Equal(t, "2026-01-31", dayKey(from))
	assert.Equal(t, "2026-02-28", dayKey(to))

	from, to = Window(Options{From: day("2026-03-04"), To: day("2026-03-05"), Resolution: Daily})
	assert.Equal(t, "2026-03-03", dayKey(from))
	assert.Equal(t, "2026-03-05", dayKey(to))
}

func TestPresent(t *testing.T) {
	delta := 0.199999
	rows := Present([]LedgerRow{
		{BucketKey: "2026-03-02", Initial: 5, Consumed: 0.8, Expected: 4.2, Final: 4.2, Theoretical: true},
		{BucketKey: "2026-03-03", Initial: 4.2, Consumed: 0.4, Expected: 3.8, Final: 4, Delta: &delta},
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "N/A", rows[0].Final)
	assert.Equal(t, "N/A", rows[0].Delta)
	assert.Equal(t, "4.20", rows[0].Expected)
	assert.Equal(t, "4.00", rows[1].Final)
	assert.Equal(t, "0.20", rows[1].Delta)
	assert.Equal(t, 0.2, Round(delta))
}
