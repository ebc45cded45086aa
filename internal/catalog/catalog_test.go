package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"panel-store/internal/model"
)

func TestDefaultTiersNeverEmpty(t *testing.T) {
	tiers := DefaultTiers()
	require.Len(t, tiers, 3)
	require.Equal(t, "basic", tiers[0].ID)
	require.Equal(t, 15000, tiers[0].Price)
	require.Equal(t, "30 hari", tiers[0].Duration)
}

func TestFindPackage(t *testing.T) {
	pkg, ok := FindPackage(model.PanelPrivate, "1GB RAM")
	require.True(t, ok)
	require.Equal(t, model.Package{RAM: 1, Price: 2000, Label: "1GB RAM"}, pkg)

	_, ok = FindPackage(model.PanelPublic, "1GB RAM")
	require.False(t, ok, "public panel starts at 3GB")

	_, ok = FindPackage("vip", "1GB RAM")
	require.False(t, ok)
}

func TestUnlimitedSentinel(t *testing.T) {
	pkg, ok := FindPackage(model.PanelPrivate, "Unlimited RAM")
	require.True(t, ok)
	require.Equal(t, model.RAMUnlimited, pkg.RAM)
	require.Equal(t, 13000, pkg.Price)
}

func TestPanelFor(t *testing.T) {
	p, ok := PanelFor(model.PanelPublic)
	require.True(t, ok)
	require.NotEmpty(t, p.Packages)
	for _, pkg := range p.Packages {
		require.Positive(t, pkg.Price)
		require.NotEmpty(t, pkg.Label)
	}
}
