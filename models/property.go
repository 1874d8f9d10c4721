package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Enum values enforced on property create/update and honoured by search filters.
var (
	PropertyTypes = map[string]bool{
		"Apartment": true, "House": true, "Villa": true, "Plot": true,
		"Land": true, "Office": true, "Shop": true, "Showroom": true,
		"Warehouse": true, "Farmhouse": true, "PG": true, "Hostel": true,
		"Commercial": true, "Industrial": true,
	}
	ListingTypes      = map[string]bool{"Sale": true, "Rent": true, "Lease": true}
	PropertyStatuses  = map[string]bool{"Available": true, "Booked": true, "Sold": true, "Under Construction": true}
	FurnishedStatuses = map[string]bool{"Furnished": true, "Semi-Furnished": true, "Unfurnished": true}
	ListedByValues    = map[string]bool{"Owner": true, "Agent": true, "Builder": true}
)

type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Property represents a listed property
type Property struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description,omitempty" json:"description,omitempty"`
	PropertyType      string             `bson:"propertyType" json:"propertyType"`
	ListingType       string             `bson:"listingType" json:"listingType"`
	Status            string             `bson:"status" json:"status"`
	Price             float64            `bson:"price" json:"price"`
	SecurityDeposit   *float64           `bson:"securityDeposit,omitempty" json:"securityDeposit,omitempty"`
	MaintenanceCharge *float64           `bson:"maintenanceCharge,omitempty" json:"maintenanceCharge,omitempty"`
	Address           string             `bson:"address,omitempty" json:"address,omitempty"`
	City              string             `bson:"city,omitempty" json:"city,omitempty"`
	State             string             `bson:"state,omitempty" json:"state,omitempty"`
	Pincode           string             `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Country           string             `bson:"country,omitempty" json:"country,omitempty"`
	Coordinates       *Coordinates       `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
	Area              *float64           `bson:"area,omitempty" json:"area,omitempty"`
	Bedrooms          *float64           `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms         *float64           `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	Balconies         *float64           `bson:"balconies,omitempty" json:"balconies,omitempty"`
	Floor             *float64           `bson:"floor,omitempty" json:"floor,omitempty"`
	TotalFloors       *float64           `bson:"totalFloors,omitempty" json:"totalFloors,omitempty"`
	Facing            string             `bson:"facing,omitempty" json:"facing,omitempty"`
	FurnishedStatus   string             `bson:"furnishedStatus,omitempty" json:"furnishedStatus,omitempty"`
	AgeOfProperty     *float64           `bson:"ageOfProperty,omitempty" json:"ageOfProperty,omitempty"`
	Amenities         []string           `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Images            []string           `bson:"images,omitempty" json:"images,omitempty"`
	VideoURL          string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	OwnerName         string             `bson:"ownerName,omitempty" json:"ownerName,omitempty"`
	OwnerContact      string             `bson:"ownerContact,omitempty" json:"ownerContact,omitempty"`
	ListedBy          string             `bson:"listedBy,omitempty" json:"listedBy,omitempty"`
	Verified          bool               `bson:"verified" json:"verified"`
	Documents         []string           `bson:"documents,omitempty" json:"documents,omitempty"`
	Views             int64              `bson:"views" json:"views"`
	IsFeatured        bool               `bson:"isFeatured" json:"isFeatured"`
	CreatedBy         primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PropertySummary is the projection attached to queries and ratings in place
// of the bare property reference.
type PropertySummary struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Title        string             `bson:"title" json:"title"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	ListingType  string             `bson:"listingType" json:"listingType"`
	Price        float64            `bson:"price" json:"price"`
	City         string             `bson:"city,omitempty" json:"city,omitempty"`
	State        string             `bson:"state,omitempty" json:"state,omitempty"`
}
