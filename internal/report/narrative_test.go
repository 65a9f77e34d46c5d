package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ventas/internal/core"
)

func TestFormatUSD(t *testing.T) {
	cases := map[float64]string{
		3601.5:      "$3,601.50",
		0:           "$0.00",
		12.345:      "$12.35",
		1234567.891: "$1,234,567.89",
		-2500.75:    "-$2,500.75",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatUSD(in), "FormatUSD(%v)", in)
	}
}

func TestNarrate(t *testing.T) {
	records := []core.SalesRecord{
		core.NewSalesRecord("Electrónica", 3, 1200.5, core.NewDate(2024, 3, 5)),
		core.NewSalesRecord("Electrónica", 1, 100, core.NewDate(2024, 3, 6)),
		core.NewSalesRecord("Hogar", 2, 45.25, core.NewDate(2024, 3, 6)),
	}
	rep := Build(records, Detailed())

	assert.Contains(t, rep.Narrative.Categories, "Electrónica")
	assert.Contains(t, rep.Narrative.Categories, "$3,701.50")
	assert.Contains(t, rep.Narrative.Distribution, "medias-bajas")
	assert.Contains(t, rep.Narrative.Trend, "05/03/2024")
	assert.Contains(t, rep.Narrative.Trend, "$3,601.50")
	assert.Contains(t, rep.Narrative.Spread, "Electrónica")
	assert.Len(t, rep.Narrative.Sections(), 4)
}

func TestNarrateSingleCategoryHasNoSpreadComment(t *testing.T) {
	rep := Build([]core.SalesRecord{
		core.NewSalesRecord("Hogar", 1, 10, core.NewDate(2024, 1, 1)),
	}, Detailed())
	assert.Empty(t, rep.Narrative.Spread)
	assert.Contains(t, rep.Narrative.Distribution, "simétrica")
}
