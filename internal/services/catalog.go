package services

import "time"

// ServiceType identifies a bookable home-service category.
type ServiceType string

const (
	Plumbing           ServiceType = "plumbing"
	Electrical         ServiceType = "electrical"
	HVAC               ServiceType = "hvac"
	Roofing            ServiceType = "roofing"
	Painting           ServiceType = "painting"
	Locksmith          ServiceType = "locksmith"
	Glazier            ServiceType = "glazier"
	Cleaning           ServiceType = "cleaning"
	PestControl        ServiceType = "pest_control"
	ApplianceRepair    ServiceType = "appliance_repair"
	GarageDoor         ServiceType = "garage_door"
	Handyman           ServiceType = "handyman"
	GeneralMaintenance ServiceType = "general_maintenance"
)

// Definition describes a service category and its typical job length.
type Definition struct {
	Type               ServiceType
	DisplayName        string
	MinDurationMinutes int
	MaxDurationMinutes int
}

// catalog is ordered so iteration stays deterministic.
var catalog = []Definition{
	{Plumbing, "Plumbing", 60, 180},
	{Electrical, "Electrical", 60, 240},
	{HVAC, "HVAC", 120, 480},
	{Roofing, "Roofing", 240, 960},
	{Painting, "Painting", 240, 960},
	{Locksmith, "Locksmith", 30, 120},
	{Glazier, "Glazier", 60, 180},
	{Cleaning, "Cleaning", 120, 360},
	{PestControl, "Pest Control", 60, 180},
	{ApplianceRepair, "Appliance Repair", 60, 180},
	{GarageDoor, "Garage Door", 60, 240},
	{Handyman, "Handyman", 60, 240},
	{GeneralMaintenance, "General Maintenance", 60, 120},
}

var byType = func() map[ServiceType]Definition {
	m := make(map[ServiceType]Definition, len(catalog))
	for _, d := range catalog {
		m[d.Type] = d
	}
	return m
}()

// All returns every service definition in catalog order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the definition for a service type.
func Get(t ServiceType) (Definition, bool) {
	d, ok := byType[t]
	return d, ok
}

// Exists reports whether the service type is part of the catalog.
func Exists(t ServiceType) bool {
	_, ok := byType[t]
	return ok
}

// EstimatedDuration returns the midpoint of the category's duration range.
// Unknown types fall back to the general maintenance estimate.
func EstimatedDuration(t ServiceType) time.Duration {
	d, ok := byType[t]
	if !ok {
		d = byType[GeneralMaintenance]
	}
	mins := (d.MinDurationMinutes + d.MaxDurationMinutes) / 2
	return time.Duration(mins) * time.Minute
}
