package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Meta carries the identity and timestamps every stored document shares.
type Meta struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Stamp assigns an identifier on first write and refreshes the timestamps.
func (m *Meta) Stamp(now time.Time) {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// User is a registered tourist, host or local guide.
type User struct {
	Meta         `bson:",inline"`
	Name         string `bson:"name" json:"name"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password" json:"-"`
	Mobile       string `bson:"mobile" json:"mobile"`
	Role         Role   `bson:"role" json:"role"`
	ProfileImage string `bson:"profileImage" json:"profileImage"`
	Approved     bool   `bson:"approved" json:"approved"`
}

// UserPatch lists the user fields an update may touch. Nil means unchanged.
type UserPatch struct {
	Name         *string
	Mobile       *string
	ProfileImage *string
	Role         *Role
	Approved     *bool
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Name == nil && p.Mobile == nil && p.ProfileImage == nil && p.Role == nil && p.Approved == nil
}

// Homestay is a host's lodging listing. It is publicly visible only once
// approved and while not soft deleted.
type Homestay struct {
	Meta        `bson:",inline"`
	Title       string   `bson:"title" json:"title"`
	Location    string   `bson:"location" json:"location"`
	Price       int64    `bson:"price" json:"price"`
	Description string   `bson:"description" json:"description"`
	Amenities   []string `bson:"amenities" json:"amenities"`
	Image       string   `bson:"image" json:"image"`
	UpiQrImage  string   `bson:"upiQrImage" json:"upiQrImage"`
	HostEmail   string   `bson:"hostEmail" json:"hostEmail"`
	Approved    bool     `bson:"approved" json:"approved"`
	IsDeleted   bool     `bson:"isDeleted" json:"isDeleted"`
}

// Visible reports whether tourists may see and book the homestay.
func (h Homestay) Visible() bool {
	return h.Approved && !h.IsDeleted
}

// HomestayPatch lists the homestay fields an update may touch.
type HomestayPatch struct {
	Title       *string
	Location    *string
	Price       *int64
	Description *string
	Amenities   *[]string
	Image       *string
	UpiQrImage  *string
	HostEmail   *string
	Approved    *bool
	IsDeleted   *bool
}

// Attraction is an admin-curated point of interest.
type Attraction struct {
	Meta        `bson:",inline"`
	Name        string `bson:"name" json:"name"`
	Location    string `bson:"location" json:"location"`
	Description string `bson:"description" json:"description"`
	Image       string `bson:"image" json:"image"`
}

// AttractionPatch lists the attraction fields an update may touch.
type AttractionPatch struct {
	Name        *string
	Location    *string
	Description *string
	Image       *string
}

// Booking is a reservation of a homestay for a date range. HomestayTitle
// and TouristName are snapshots taken when the booking is created.
type Booking struct {
	Meta          `bson:",inline"`
	TouristEmail  string             `bson:"touristEmail" json:"touristEmail"`
	TouristName   string             `bson:"touristName" json:"touristName"`
	HomestayID    primitive.ObjectID `bson:"homestayId" json:"homestayId"`
	HomestayTitle string             `bson:"homestayTitle" json:"homestayTitle"`
	HostEmail     string             `bson:"hostEmail,omitempty" json:"hostEmail,omitempty"`
	CheckinDate   string             `bson:"checkinDate" json:"checkinDate"`
	CheckoutDate  string             `bson:"checkoutDate" json:"checkoutDate"`
	Guests        int                `bson:"guests" json:"guests"`
	TotalPrice    int64              `bson:"totalPrice" json:"totalPrice"`
	BookingType   BookingType        `bson:"bookingType" json:"bookingType"`
	Status        BookingStatus      `bson:"status" json:"status"`
	PaymentStatus PaymentStatus      `bson:"paymentStatus" json:"paymentStatus"`
}

// BookingPatch lists the booking fields an update may touch.
type BookingPatch struct {
	Status        *BookingStatus
	PaymentStatus *PaymentStatus
}

// AvailabilitySlot marks which halves of a day a guide is free.
type AvailabilitySlot struct {
	Date    string `bson:"date" json:"date"`
	Morning bool   `bson:"morning" json:"morning"`
	Evening bool   `bson:"evening" json:"evening"`
}

// PortfolioItem is an entry shown on a guide's public profile.
type PortfolioItem struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Image       string `bson:"image" json:"image"`
}

// GuideProfile extends a Local Guide user. One profile exists per guide email.
type GuideProfile struct {
	Meta         `bson:",inline"`
	Email        string             `bson:"email" json:"email"`
	Bio          string             `bson:"bio" json:"bio"`
	Location     string             `bson:"location" json:"location"`
	Languages    []string           `bson:"languages" json:"languages"`
	Expertise    []string           `bson:"expertise" json:"expertise"`
	BasePrice    int64              `bson:"basePrice" json:"basePrice"`
	Availability []AvailabilitySlot `bson:"availability" json:"availability"`
	Portfolio    []PortfolioItem    `bson:"portfolio" json:"portfolio"`
}

// GuideProfilePatch lists the profile fields a guide may set directly.
type GuideProfilePatch struct {
	Bio       *string
	Location  *string
	Languages *[]string
	Expertise *[]string
	BasePrice *int64
}

// GuideHire is a tourist's request to hire a guide.
type GuideHire struct {
	Meta         `bson:",inline"`
	GuideEmail   string     `bson:"guideEmail" json:"guideEmail"`
	TouristEmail string     `bson:"touristEmail" json:"touristEmail"`
	TouristName  string     `bson:"touristName" json:"touristName"`
	Message      string     `bson:"message" json:"message"`
	Status       HireStatus `bson:"status" json:"status"`
	AgreedPrice  int64      `bson:"agreedPrice" json:"agreedPrice"`
}

// GuideHirePatch lists the hire fields a guide may change.
type GuideHirePatch struct {
	Status      *HireStatus
	AgreedPrice *int64
}
