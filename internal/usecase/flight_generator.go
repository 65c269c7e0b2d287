package usecase

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"flightsurety-service/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

const (
	FlightsPerAirline = 3
	flightDateLayout  = "01-02-2006-15:04"
	minFlightNumber   = 1001
	maxFlightNumber   = 9999
)

// Destinations are the airports demo flights are drawn from
var Destinations = []string{"DFW", "LAX", "DAL", "LAS", "BWI", "MEM", "DTW", "ATL", "ORD", "HNL", "RNO", "SEA", "JFK"}

// FlightGenerator makes pseudo-random demo flights for funded airlines
type FlightGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	loc *time.Location
	now func() time.Time
}

// NewFlightGenerator creates a generator drawing from rnd and dating flights in loc
func NewFlightGenerator(rnd *rand.Rand, loc *time.Location) *FlightGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &FlightGenerator{
		rnd: rnd,
		loc: loc,
		now: time.Now,
	}
}

// DefaultFlightLocation returns America/Chicago, or UTC when tzdata is missing
func DefaultFlightLocation() *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		return time.UTC
	}
	return loc
}

func flightPrefix(name string) string {
	runes := []rune(name)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return strings.ToUpper(string(runes))
}

// Generate returns three flights for the airline. Each departs from a random
// airport and flies to the next one in Destinations, wrapping at the end.
func (g *FlightGenerator) Generate(name string, address common.Address) []entity.FlightDraft {
	g.mu.Lock()
	defer g.mu.Unlock()

	prefix := flightPrefix(name)
	flights := make([]entity.FlightDraft, 0, FlightsPerAirline)

	for i := 0; i < FlightsPerAirline; i++ {
		number := minFlightNumber + g.rnd.IntN(maxFlightNumber-minFlightNumber+1)

		from := g.rnd.IntN(len(Destinations))
		to := (from + 1) % len(Destinations)

		hourAdjust := g.rnd.IntN(12)
		date := g.now().Add(-time.Duration(hourAdjust) * time.Hour).In(g.loc)

		flights = append(flights, entity.FlightDraft{
			Airline:      name,
			FlightNumber: number,
			Code:         fmt.Sprintf("%s%d", prefix, number),
			Departure:    Destinations[from],
			Destination:  Destinations[to],
			Address:      address,
			Date:         date.Format(flightDateLayout),
		})
	}

	return flights
}
