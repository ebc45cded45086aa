// Package catalog holds the static plan tables. Pure data: the panel price
// lists sold through the purchase flow and the legacy three-tier catalog
// served by GET /packages when the store has no override.
package catalog

import "panel-store/internal/model"

// Panel groups the packages sold under one panel type.
type Panel struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Packages    []model.Package `json:"packages"`
}

var panels = map[model.PanelType]Panel{
	model.PanelPrivate: {
		Name:        "Private Panel",
		Description: "Panel dengan akses private dan performa optimal",
		Packages: []model.Package{
			{RAM: 1, Price: 2000, Label: "1GB RAM"},
			{RAM: 2, Price: 3500, Label: "2GB RAM"},
			{RAM: 3, Price: 4500, Label: "3GB RAM"},
			{RAM: 4, Price: 5500, Label: "4GB RAM"},
			{RAM: 5, Price: 6500, Label: "5GB RAM"},
			{RAM: 6, Price: 7500, Label: "6GB RAM"},
			{RAM: 7, Price: 8500, Label: "7GB RAM"},
			{RAM: 8, Price: 9500, Label: "8GB RAM"},
			{RAM: 9, Price: 10500, Label: "9GB RAM"},
			{RAM: 10, Price: 11000, Label: "10GB RAM"},
			{RAM: model.RAMUnlimited, Price: 13000, Label: "Unlimited RAM"},
		},
	},
	model.PanelPublic: {
		Name:        "Public Panel",
		Description: "Panel dengan akses shared yang ekonomis",
		Packages: []model.Package{
			{RAM: 3, Price: 1000, Label: "3GB RAM"},
			{RAM: 4, Price: 2000, Label: "4GB RAM"},
			{RAM: 5, Price: 2500, Label: "5GB RAM"},
			{RAM: 6, Price: 3000, Label: "6GB RAM"},
			{RAM: 7, Price: 3500, Label: "7GB RAM"},
			{RAM: 8, Price: 4000, Label: "8GB RAM"},
			{RAM: 9, Price: 4500, Label: "9GB RAM"},
			{RAM: 10, Price: 5000, Label: "10GB RAM"},
			{RAM: model.RAMUnlimited, Price: 5000, Label: "Unlimited RAM"},
		},
	},
}

// PanelFor returns the package table for a panel type.
func PanelFor(t model.PanelType) (Panel, bool) {
	p, ok := panels[t]
	return p, ok
}

// FindPackage resolves a package by its label within a panel type. The label
// doubles as the package id in legacy purchase requests.
func FindPackage(t model.PanelType, label string) (model.Package, bool) {
	p, ok := panels[t]
	if !ok {
		return model.Package{}, false
	}
	for _, pkg := range p.Packages {
		if pkg.Label == label {
			return pkg, true
		}
	}
	return model.Package{}, false
}

// TierSpecs describes a legacy catalog tier.
type TierSpecs struct {
	CPU     string `json:"cpu"`
	RAM     string `json:"ram"`
	Storage string `json:"storage"`
}

// Tier is one entry of the legacy three-tier catalog.
type Tier struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Price    int       `json:"price"`
	Specs    TierSpecs `json:"specs"`
	Duration string    `json:"duration"`
}

// DefaultTiers returns the embedded catalog served when the store holds no
// "packages" override. Never empty.
func DefaultTiers() []Tier {
	return []Tier{
		{
			ID:       "basic",
			Name:     "Panel Basic",
			Price:    15000,
			Specs:    TierSpecs{CPU: "50%", RAM: "1GB", Storage: "5GB"},
			Duration: "30 hari",
		},
		{
			ID:       "premium",
			Name:     "Panel Premium",
			Price:    25000,
			Specs:    TierSpecs{CPU: "100%", RAM: "2GB", Storage: "10GB"},
			Duration: "30 hari",
		},
		{
			ID:       "enterprise",
			Name:     "Panel Enterprise",
			Price:    45000,
			Specs:    TierSpecs{CPU: "200%", RAM: "4GB", Storage: "20GB"},
			Duration: "30 hari",
		},
	}
}
