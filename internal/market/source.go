package market

import (
	"context"
	"encoding/csv"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yanun0323/logs"
)

// SourceSynthetic labels series generated in-process when no real data
// source can serve a symbol. Callers must surface the label to the user.
const SourceSynthetic = "synthetic"

// Point is one daily close. Forecast math is best-effort heuristics, so
// floats are fine here; no ledger money passes through this package.
type Point struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`
}

// Series is a recent price history for one symbol, tagged with the source
// that produced it.
type Series struct {
	Symbol string  `json:"symbol"`
	Source string  `json:"source"`
	Points []Point `json:"points"`
}

// Latest returns the most recent close, or 0 for an empty series.
func (s Series) Latest() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Close
}

// Source supplies a recent daily close series for a symbol.
type Source interface {
	Name() string
	History(ctx context.Context, symbol string, days int) (Series, error)
}

// CSVSource reads per-symbol files named <SYMBOL>.csv with a header line
// and date,close rows. Malformed rows are skipped.
type CSVSource struct {
	dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) Name() string { return "csv" }

func (s *CSVSource) History(ctx context.Context, symbol string, days int) (Series, error) {
	if err := ctx.Err(); err != nil {
		return Series{}, err
	}

	file, err := os.Open(filepath.Join(s.dir, symbol+".csv"))
	if err != nil {
		return Series{}, fmt.Errorf("open history for %s: %w", symbol, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	// header
	if _, err := reader.Read(); err != nil {
		return Series{}, fmt.Errorf("read history header for %s: %w", symbol, err)
	}

	var points []Point
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logs.Warnf("skipping bad csv line for %s, err: %+v", symbol, err)
			continue
		}
		if len(record) < 2 {
			continue
		}

		ts, err := time.Parse(time.DateOnly, strings.TrimSpace(record[0]))
		if err != nil {
			logs.Warnf("skipping row with bad date %q for %s", record[0], symbol)
			continue
		}
		closePrice, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil || closePrice <= 0 {
			continue
		}
		points = append(points, Point{Time: ts, Close: closePrice})
	}

	if len(points) == 0 {
		return Series{}, fmt.Errorf("no usable history rows for %s", symbol)
	}
	if days > 0 && len(points) > days {
		points = points[len(points)-days:]
	}
	return Series{Symbol: symbol, Source: s.Name(), Points: points}, nil
}

// Synthetic generates a deterministic random walk seeded from the symbol,
// so repeated requests for the same symbol agree. It never fails; the
// provider uses it as the fallback of last resort.
type Synthetic struct{}

func (Synthetic) Name() string { return SourceSynthetic }

func (Synthetic) History(_ context.Context, symbol string, days int) (Series, error) {
	if days <= 0 {
		days = 60
	}

	h := fnv.New64a()
	h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	price := 100.0 + rng.Float64()*150.0
	points := make([]Point, 0, days)
	start := time.Now().UTC().AddDate(0, 0, -days+1).Truncate(24 * time.Hour)
	for i := range days {
		drift := rng.NormFloat64() * price * 0.015
		price += drift
		if price < 1 {
			price = 1
		}
		points = append(points, Point{
			Time:  start.AddDate(0, 0, i),
			Close: roundCents(price),
		})
	}

	return Series{Symbol: symbol, Source: SourceSynthetic, Points: points}, nil
}

func roundCents(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
