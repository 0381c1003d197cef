package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/models/dtos"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/query"
)

// marketBatchSize is how many listings one store round trip reads
const marketBatchSize = 500

// ErrMarketMakeRequired is returned when an analysis names no make
var ErrMarketMakeRequired = errors.New("make is required")

type conditionBandDef struct {
	label  string
	lo, hi float64
}

// grades below 1.0 are treated as ungraded
var conditionBands = []conditionBandDef{
	{"4.0-5.0", 4.0, 5.01},
	{"3.0-3.9", 3.0, 4.0},
	{"2.0-2.9", 2.0, 3.0},
	{"1.0-1.9", 1.0, 2.0},
}

// MarketAnalysisService aggregates stored listings of one make/model/year
type MarketAnalysisService struct {
	store repositories.ListingStore
}

func NewMarketAnalysisService(store repositories.ListingStore) *MarketAnalysisService {
	return &MarketAnalysisService{store: store}
}

// Analyze summarizes prices of listings matching make, and model and year when given
func (s *MarketAnalysisService) Analyze(ctx context.Context, makeName, model string, year *int) (*dtos.MarketAnalysisResponse, error) {
	makeName = strings.TrimSpace(makeName)
	if makeName == "" {
		return nil, ErrMarketMakeRequired
	}

	preds := query.NewBuilder().
		EqualFold(query.FieldMake, makeName).
		ContainsFold(query.FieldModels, model).
		AtLeastInt(query.FieldYear, year).
		AtMostInt(query.FieldYear, year).
		Predicates()

	acc := newMarketAccumulator()
	for offset := 0; ; offset += marketBatchSize {
		batch, total, err := s.store.Find(ctx, preds, query.SortPriceLow, offset, marketBatchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load market listings: %w", err)
		}
		for i := range batch {
			acc.add(&batch[i])
		}
		if len(batch) < marketBatchSize || int64(offset+len(batch)) >= total {
			break
		}
	}

	info := dtos.VehicleInfo{Make: makeName, Model: strings.TrimSpace(model)}
	if year != nil {
		info.Year = *year
	}

	return &dtos.MarketAnalysisResponse{
		VehicleInfo:     info,
		PriceAnalysis:   acc.priceAnalysis(),
		RegionPricing:   acc.regionPricing(),
		ConditionImpact: acc.conditionImpact(),
	}, nil
}

type priceTotal struct {
	sum   float64
	count int
}

func (p *priceTotal) add(v float64) {
	p.sum += v
	p.count++
}

func (p priceTotal) avg() float64 {
	if p.count == 0 {
		return 0
	}
	return round2(p.sum / float64(p.count))
}

// marketAccumulator folds every priced listing of a match set into the
// running totals of one analysis
type marketAccumulator struct {
	prices               []float64
	mmrSum, deltaSum     float64
	valuedBuyNow, valued float64
	regions              map[string]*priceTotal
	bands                []priceTotal
}

func newMarketAccumulator() *marketAccumulator {
	return &marketAccumulator{
		regions: make(map[string]*priceTotal),
		bands:   make([]priceTotal, len(conditionBands)),
	}
}

func (a *marketAccumulator) add(l *gormModels.Listing) {
	if l.BuyNowPrice <= 0 {
		return
	}
	a.prices = append(a.prices, l.BuyNowPrice)
	if l.MMRPrice != nil && l.ValuationDelta != nil {
		a.mmrSum += *l.MMRPrice
		a.deltaSum += *l.ValuationDelta
		a.valuedBuyNow += l.BuyNowPrice
		a.valued++
	}

	region := l.PickupRegion
	if region == "" {
		region = "Unknown"
	}
	rt, ok := a.regions[region]
	if !ok {
		rt = &priceTotal{}
		a.regions[region] = rt
	}
	rt.add(l.BuyNowPrice)

	for i, band := range conditionBands {
		if l.ConditionGrade >= band.lo && l.ConditionGrade < band.hi {
			a.bands[i].add(l.BuyNowPrice)
			break
		}
	}
}

func (a *marketAccumulator) priceAnalysis() dtos.PriceAnalysis {
	analysis := dtos.PriceAnalysis{
		SampleSize:       len(a.prices),
		ValuedSampleSize: int(a.valued),
	}
	if len(a.prices) == 0 {
		return analysis
	}

	analysis.AverageBuyNowPrice = round2(sum(a.prices) / float64(len(a.prices)))
	analysis.MedianBuyNowPrice = round2(median(a.prices))
	if a.valued > 0 {
		analysis.AverageMMRValue = round2(a.mmrSum / a.valued)
		analysis.AverageDelta = round2(a.deltaSum / a.valued)
		if a.mmrSum > 0 {
			analysis.PercentVsMarket = math.Round((a.valuedBuyNow-a.mmrSum)/a.mmrSum*1000) / 10
		}
	}
	return analysis
}

func (a *marketAccumulator) regionPricing() []dtos.RegionPricing {
	out := make([]dtos.RegionPricing, 0, len(a.regions))
	for region, rt := range a.regions {
		out = append(out, dtos.RegionPricing{
			Region:   region,
			AvgPrice: rt.avg(),
			Count:    rt.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

func (a *marketAccumulator) conditionImpact() []dtos.ConditionBand {
	out := make([]dtos.ConditionBand, 0, len(conditionBands))
	for i, band := range conditionBands {
		out = append(out, dtos.ConditionBand{
			Grade:    band.label,
			AvgPrice: a.bands[i].avg(),
			Count:    a.bands[i].count,
		})
	}
	return out
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
