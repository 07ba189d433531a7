package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Package status constants
const (
	PackageStatusActive   = "active"
	PackageStatusInactive = "inactive"
)

// Package field limits enforced before any gateway call
const (
	MaxTitleLength            = 50
	MaxShortDescriptionLength = 120
	MinPackagePrice           = 1000 // INR
	MinPackageListItems       = 3
)

// Destinations lists the supported regions a package can be published under
var Destinations = []string{
	"Goa", "Kerala", "Rajasthan", "Himachal Pradesh", "Kashmir", "Tamil Nadu",
	"Karnataka", "Maharashtra", "Uttarakhand", "West Bengal", "Andaman & Nicobar",
	"Sikkim", "Meghalaya", "Assam", "Orissa",
}

// IsValidDestination reports whether d is one of Destinations
func IsValidDestination(d string) bool {
	for _, dest := range Destinations {
		if dest == d {
			return true
		}
	}
	return false
}

// IsValidPackageStatus reports whether s is a known package status
func IsValidPackageStatus(s string) bool {
	return s == PackageStatusActive || s == PackageStatusInactive
}

// ItineraryDay is a single day of a package itinerary
type ItineraryDay struct {
	Day         int      `bson:"day" json:"day"`
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description" json:"description"`
	Activities  []string `bson:"activities" json:"activities"`
}

// Package represents a travel package offered to customers
type Package struct {
	ID               string         `bson:"_id,omitempty" json:"id"`
	Title            string         `bson:"title" json:"title"`
	Price            float64        `bson:"price" json:"price"`
	ShortDescription string         `bson:"short_description" json:"short_description"`
	Destination      string         `bson:"destination" json:"destination"`
	Status           string         `bson:"status" json:"status"`
	Images           []string       `bson:"images" json:"images"`
	Itinerary        []ItineraryDay `bson:"itinerary" json:"itinerary"`
	Inclusions       []string       `bson:"inclusions" json:"inclusions"`
	Exclusions       []string       `bson:"exclusions" json:"exclusions"`
	CreatedAt        time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `bson:"updated_at" json:"updated_at"`
}

// PackageDraft is the insert projection for a new package.
// Identity and timestamps are assigned by the gateway.
type PackageDraft struct {
	Title            string         `json:"title"`
	Price            float64        `json:"price"`
	ShortDescription string         `json:"short_description"`
	Destination      string         `json:"destination"`
	Status           string         `json:"status"`
	Images           []string       `json:"images"`
	Itinerary        []ItineraryDay `json:"itinerary"`
	Inclusions       []string       `json:"inclusions"`
	Exclusions       []string       `json:"exclusions"`
}

// Normalize trims text fields, drops blank list entries and renumbers the itinerary
func (d *PackageDraft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.ShortDescription = strings.TrimSpace(d.ShortDescription)
	d.Images = compactStrings(d.Images)
	d.Inclusions = compactStrings(d.Inclusions)
	d.Exclusions = compactStrings(d.Exclusions)
	d.Itinerary = NormalizeItinerary(d.Itinerary)
	if d.Status == "" {
		d.Status = PackageStatusActive
	}
}

// Validate checks a normalized draft against the publishing rules
func (d *PackageDraft) Validate() error {
	verr := &ValidationError{}

	validateTitle(verr, d.Title)
	validatePrice(verr, d.Price)
	validateShortDescription(verr, d.ShortDescription)
	validateDestination(verr, d.Destination)
	if !IsValidPackageStatus(d.Status) {
		verr.Add("status", "Status must be active or inactive")
	}
	validateListItems(verr, "images", d.Images)
	validateListItems(verr, "inclusions", d.Inclusions)
	validateListItems(verr, "exclusions", d.Exclusions)
	if len(d.Itinerary) == 0 {
		verr.Add("itinerary", "At least one day with title and description is required")
	}

	return verr.OrNil()
}

// PackagePatch is a partial update; nil fields are left untouched
type PackagePatch struct {
	Title            *string         `json:"title,omitempty"`
	Price            *float64        `json:"price,omitempty"`
	ShortDescription *string         `json:"short_description,omitempty"`
	Destination      *string         `json:"destination,omitempty"`
	Status           *string         `json:"status,omitempty"`
	Images           *[]string       `json:"images,omitempty"`
	Itinerary        *[]ItineraryDay `json:"itinerary,omitempty"`
	Inclusions       *[]string       `json:"inclusions,omitempty"`
	Exclusions       *[]string       `json:"exclusions,omitempty"`
}

// IsEmpty reports whether the patch sets no field
func (p *PackagePatch) IsEmpty() bool {
	return p.Title == nil && p.Price == nil && p.ShortDescription == nil &&
		p.Destination == nil && p.Status == nil && p.Images == nil &&
		p.Itinerary == nil && p.Inclusions == nil && p.Exclusions == nil
}

// Normalize applies the same cleanup as PackageDraft.Normalize to the set fields
func (p *PackagePatch) Normalize() {
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		p.Title = &t
	}
	if p.ShortDescription != nil {
		s := strings.TrimSpace(*p.ShortDescription)
		p.ShortDescription = &s
	}
	if p.Images != nil {
		v := compactStrings(*p.Images)
		p.Images = &v
	}
	if p.Inclusions != nil {
		v := compactStrings(*p.Inclusions)
		p.Inclusions = &v
	}
	if p.Exclusions != nil {
		v := compactStrings(*p.Exclusions)
		p.Exclusions = &v
	}
	if p.Itinerary != nil {
		v := NormalizeItinerary(*p.Itinerary)
		p.Itinerary = &v
	}
}

// Validate checks only the fields present in the patch
func (p *PackagePatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}

	verr := &ValidationError{}
	if p.Title != nil {
		validateTitle(verr, *p.Title)
	}
	if p.Price != nil {
		validatePrice(verr, *p.Price)
	}
	if p.ShortDescription != nil {
		validateShortDescription(verr, *p.ShortDescription)
	}
	if p.Destination != nil {
		validateDestination(verr, *p.Destination)
	}
	if p.Status != nil && !IsValidPackageStatus(*p.Status) {
		verr.Add("status", "Status must be active or inactive")
	}
	if p.Images != nil {
		validateListItems(verr, "images", *p.Images)
	}
	if p.Inclusions != nil {
		validateListItems(verr, "inclusions", *p.Inclusions)
	}
	if p.Exclusions != nil {
		validateListItems(verr, "exclusions", *p.Exclusions)
	}
	if p.Itinerary != nil && len(*p.Itinerary) == 0 {
		verr.Add("itinerary", "At least one day with title and description is required")
	}
	return verr.OrNil()
}

// NormalizeItinerary drops days missing a title or description, removes blank
// activities and renumbers the remaining days contiguously from 1.
func NormalizeItinerary(days []ItineraryDay) []ItineraryDay {
	out := make([]ItineraryDay, 0, len(days))
	for _, day := range days {
		title := strings.TrimSpace(day.Title)
		desc := strings.TrimSpace(day.Description)
		if title == "" || desc == "" {
			continue
		}
		out = append(out, ItineraryDay{
			Day:         len(out) + 1,
			Title:       title,
			Description: desc,
			Activities:  compactStrings(day.Activities),
		})
	}
	return out
}

// RemoveItineraryDay removes the day at index and renumbers what is left
func RemoveItineraryDay(days []ItineraryDay, index int) []ItineraryDay {
	if index < 0 || index >= len(days) {
		return days
	}
	out := make([]ItineraryDay, 0, len(days)-1)
	out = append(out, days[:index]...)
	out = append(out, days[index+1:]...)
	for i := range out {
		out[i].Day = i + 1
	}
	return out
}

func validateTitle(verr *ValidationError, title string) {
	if title == "" {
		verr.Add("title", "Title is required")
	} else if len([]rune(title)) > MaxTitleLength {
		verr.Add("title", fmt.Sprintf("Title must be %d characters or less", MaxTitleLength))
	}
}

func validatePrice(verr *ValidationError, price float64) {
	if price < MinPackagePrice {
		verr.Add("price", fmt.Sprintf("Price must be at least ₹%d", MinPackagePrice))
	}
}

func validateShortDescription(verr *ValidationError, desc string) {
	if desc == "" {
		verr.Add("short_description", "Short description is required")
	} else if len([]rune(desc)) > MaxShortDescriptionLength {
		verr.Add("short_description", fmt.Sprintf("Short description must be %d characters or less", MaxShortDescriptionLength))
	}
}

func validateDestination(verr *ValidationError, dest string) {
	if dest == "" {
		verr.Add("destination", "Destination is required")
	} else if !IsValidDestination(dest) {
		verr.Add("destination", "Unsupported destination")
	}
}

func validateListItems(verr *ValidationError, field string, items []string) {
	if len(items) < MinPackageListItems {
		verr.Add(field, fmt.Sprintf("At least %d %s are required", MinPackageListItems, field))
	}
}

func compactStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// PackageRepository is the gateway over the packages collection
type PackageRepository interface {
	List(ctx context.Context) ([]*Package, error)
	GetByID(ctx context.Context, id string) (*Package, error)
	Create(ctx context.Context, draft *PackageDraft) (*Package, error)
	Update(ctx context.Context, id string, patch *PackagePatch) (*Package, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, filter map[string]interface{}) (int64, error)
}
