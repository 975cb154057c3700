// Package testutil provides shared fixtures for the servicebook test suite.
package testutil

import (
	"bytes"
	"testing"

	"github.com/chis/servicebook/internal/catalog"
	"github.com/chis/servicebook/internal/logging"
)

// Rim ids of the RimsServices fixture
const (
	RimsID   = 0
	AluID    = 1
	SteelID  = 2
	PolishID = 3
)

// RimsSections are the host sections of the RimsServices fixture
func RimsSections() []catalog.SectionDef {
	return []catalog.SectionDef{
		{Key: "wheels", Title: "Wheels"},
		{Key: "rims", Title: "Rim type"},
		{Key: "extras", Title: "Extras"},
	}
}

// RimsServices is a three-level chain: rims (toggle) unlocks the exclusive
// choice alu/steel, and alu unlocks polish.
func RimsServices() []catalog.Service {
	return []catalog.Service{
		{ID: RimsID, Name: "Rims", Section: "wheels"},
		{ID: AluID, Name: "Alu", Cost: 280, Section: "rims", Group: "rims", Dependencies: []int{RimsID}},
		{ID: SteelID, Name: "Steel", Cost: 200, Section: "rims", Group: "rims", Dependencies: []int{RimsID}},
		{ID: PolishID, Name: "Polish", Cost: 40, Section: "extras", Dependencies: []int{AluID}},
	}
}

// MustGraph builds a graph or fails the test
func MustGraph(t testing.TB, services ...catalog.Service) *catalog.Graph {
	t.Helper()
	g, err := catalog.NewGraph(services)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

// RimsCatalog wraps the rims fixture in a catalog
func RimsCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	return &catalog.Catalog{
		Currency: "zł",
		Sections: RimsSections(),
		Graph:    MustGraph(t, RimsServices()...),
	}
}

// CaptureLogger returns a debug-level text logger writing into the buffer
func CaptureLogger() (*logging.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.NewWithWriter(&buf, logging.LevelDebug, false), &buf
}
