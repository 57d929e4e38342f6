package store

import (
	"context"
	"regexp"

	"tourism_portal_backend/internal/domain"
	"tourism_portal_backend/platform/db"
	"tourism_portal_backend/platform/docstore"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names match the ones the existing data set was written with.
const (
	usersCollection         = "users"
	homestaysCollection     = "homestays"
	attractionsCollection   = "attractions"
	bookingsCollection      = "bookings"
	guideProfilesCollection = "guideprofiles"
	guideHiresCollection    = "guidehires"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// Indexes lists the indexes the application relies on. The legacy data set
// already has a plain unique users.email_1, so the unique email indexes are
// named apart from it.
var Indexes = []db.Index{
	{Collection: usersCollection, Field: "email", Name: "email_ci_unique", Unique: true, CaseInsensitive: true},
	{Collection: guideProfilesCollection, Field: "email", Name: "email_unique", Unique: true},
	{Collection: homestaysCollection, Field: "hostEmail"},
	{Collection: bookingsCollection, Field: "touristEmail"},
	{Collection: bookingsCollection, Field: "homestayId"},
	{Collection: guideHiresCollection, Field: "guideEmail"},
}

// NewMongo builds a Store backed by database.
func NewMongo(database *mongo.Database) *Store {
	return &Store{
		Users:         &mongoUsers{c: docstore.NewCollection[domain.User](database, usersCollection)},
		Homestays:     &mongoHomestays{c: docstore.NewCollection[domain.Homestay](database, homestaysCollection)},
		Attractions:   &mongoAttractions{c: docstore.NewCollection[domain.Attraction](database, attractionsCollection)},
		Bookings:      &mongoBookings{c: docstore.NewCollection[domain.Booking](database, bookingsCollection)},
		GuideProfiles: &mongoGuideProfiles{c: docstore.NewCollection[domain.GuideProfile](database, guideProfilesCollection)},
		GuideHires:    &mongoGuideHires{c: docstore.NewCollection[domain.GuideHire](database, guideHiresCollection)},
	}
}

// emailMatch matches an email exactly, ignoring case.
func emailMatch(email string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(email) + "$", Options: "i"}
}

// =============================================================================
// Users
// =============================================================================

type mongoUsers struct {
	c *docstore.Collection[domain.User, *domain.User]
}

func (s *mongoUsers) Create(ctx context.Context, user *domain.User) error {
	return s.c.Insert(ctx, user)
}

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.c.FindOne(ctx, bson.M{"email": emailMatch(email)})
}

func (s *mongoUsers) FindByEmailAndRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	return s.c.FindOne(ctx, bson.M{"email": emailMatch(email), "role": role})
}

func (s *mongoUsers) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.c.FindOne(ctx, bson.M{"_id": oid})
}

func (s *mongoUsers) FindApprovedGuide(ctx context.Context, sel domain.GuideSelector) (*domain.User, error) {
	filter := bson.M{"role": domain.RoleLocalGuide, "approved": true}
	switch v := sel.(type) {
	case domain.GuideByID:
		filter["_id"] = v.ID
	case domain.GuideByEmail:
		filter["email"] = emailMatch(v.Email)
	default:
		return nil, ErrNotFound
	}
	return s.c.FindOne(ctx, filter)
}

func (s *mongoUsers) List(ctx context.Context) ([]domain.User, error) {
	return s.c.FindMany(ctx, bson.M{}, nil)
}

func (s *mongoUsers) ListApprovedGuides(ctx context.Context) ([]domain.User, error) {
	return s.c.FindMany(ctx, bson.M{"role": domain.RoleLocalGuide, "approved": true}, nil)
}

func (s *mongoUsers) UpdateByEmail(ctx context.Context, email string, patch domain.UserPatch) (*domain.User, error) {
	return s.c.UpdateOne(ctx, bson.M{"email": emailMatch(email)}, userPatchDoc(patch), false)
}

func (s *mongoUsers) UpdateByID(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	return s.c.UpdateByID(ctx, id, userPatchDoc(patch))
}

func (s *mongoUsers) DeleteByEmail(ctx context.Context, email string) error {
	return s.c.DeleteOne(ctx, bson.M{"email": emailMatch(email)})
}

func userPatchDoc(p domain.UserPatch) bson.M {
	set := bson.M{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Mobile != nil {
		set["mobile"] = *p.Mobile
	}
	if p.ProfileImage != nil {
		set["profileImage"] = *p.ProfileImage
	}
	if p.Role != nil {
		set["role"] = *p.Role
	}
	if p.Approved != nil {
		set["approved"] = *p.Approved
	}
	return set
}

// =============================================================================
// Homestays
// =============================================================================

type mongoHomestays struct {
	c *docstore.Collection[domain.Homestay, *domain.Homestay]
}

func (s *mongoHomestays) Create(ctx context.Context, homestay *domain.Homestay) error {
	return s.c.Insert(ctx, homestay)
}

func (s *mongoHomestays) FindByID(ctx context.Context, id string) (*domain.Homestay, error) {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.c.FindOne(ctx, bson.M{"_id": oid})
}

func (s *mongoHomestays) List(ctx context.Context) ([]domain.Homestay, error) {
	return s.c.FindMany(ctx, bson.M{}, nil)
}

func (s *mongoHomestays) ListVisible(ctx context.Context) ([]domain.Homestay, error) {
	return s.c.FindMany(ctx, bson.M{"approved": true, "isDeleted": bson.M{"$ne": true}}, nil)
}

func (s *mongoHomestays) ListByHost(ctx context.Context, hostEmail string) ([]domain.Homestay, error) {
	return s.c.FindMany(ctx, bson.M{"hostEmail": hostEmail, "isDeleted": bson.M{"$ne": true}}, nil)
}

func (s *mongoHomestays) Update(ctx context.Context, id string, patch domain.HomestayPatch) (*domain.Homestay, error) {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Amenities != nil {
		set["amenities"] = *patch.Amenities
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	if patch.UpiQrImage != nil {
		set["upiQrImage"] = *patch.UpiQrImage
	}
	if patch.HostEmail != nil {
		set["hostEmail"] = *patch.HostEmail
	}
	if patch.Approved != nil {
		set["approved"] = *patch.Approved
	}
	if patch.IsDeleted != nil {
		set["isDeleted"] = *patch.IsDeleted
	}
	return s.c.UpdateByID(ctx, id, set)
}

func (s *mongoHomestays) Delete(ctx context.Context, id string) error {
	return s.c.DeleteByID(ctx, id)
}

// =============================================================================
// Attractions
// =============================================================================

type mongoAttractions struct {
	c *docstore.Collection[domain.Attraction, *domain.Attraction]
}

func (s *mongoAttractions) Create(ctx context.Context, attraction *domain.Attraction) error {
	return s.c.Insert(ctx, attraction)
}

func (s *mongoAttractions) List(ctx context.Context) ([]domain.Attraction, error) {
	return s.c.FindMany(ctx, bson.M{}, newestFirst)
}

func (s *mongoAttractions) Update(ctx context.Context, id string, patch domain.AttractionPatch) (*domain.Attraction, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Image != nil {
		set["image"] = *patch.Image
	}
	return s.c.UpdateByID(ctx, id, set)
}

func (s *mongoAttractions) Delete(ctx context.Context, id string) error {
	return s.c.DeleteByID(ctx, id)
}

// =============================================================================
// Bookings
// =============================================================================

type mongoBookings struct {
	c *docstore.Collection[domain.Booking, *domain.Booking]
}

func (s *mongoBookings) Create(ctx context.Context, booking *domain.Booking) error {
	return s.c.Insert(ctx, booking)
}

func (s *mongoBookings) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.c.FindOne(ctx, bson.M{"_id": oid})
}

func (s *mongoBookings) List(ctx context.Context) ([]domain.Booking, error) {
	return s.c.FindMany(ctx, bson.M{}, newestFirst)
}

func (s *mongoBookings) ListByTourist(ctx context.Context, touristEmail string) ([]domain.Booking, error) {
	return s.c.FindMany(ctx, bson.M{"touristEmail": emailMatch(touristEmail)}, newestFirst)
}

func (s *mongoBookings) ListByHomestays(ctx context.Context, homestayIDs []string) ([]domain.Booking, error) {
	oids := make([]primitive.ObjectID, 0, len(homestayIDs))
	for _, id := range homestayIDs {
		oid, err := docstore.ParseID(id)
		if err != nil {
			return nil, err
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return []domain.Booking{}, nil
	}
	return s.c.FindMany(ctx, bson.M{"homestayId": bson.M{"$in": oids}}, newestFirst)
}

func (s *mongoBookings) Update(ctx context.Context, id string, patch domain.BookingPatch) (*domain.Booking, error) {
	set := bson.M{}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.PaymentStatus != nil {
		set["paymentStatus"] = *patch.PaymentStatus
	}
	return s.c.UpdateByID(ctx, id, set)
}

func (s *mongoBookings) Delete(ctx context.Context, id string) error {
	return s.c.DeleteByID(ctx, id)
}

func (s *mongoBookings) ExpirePending(ctx context.Context, before string) (int64, error) {
	return s.c.UpdateMany(ctx, expirePendingFilter(before), bson.M{"status": domain.BookingFailed})
}

// expirePendingFilter selects Pending bookings checking in before the cut-off.
// ISO dates order lexically, so a string comparison is a date comparison.
func expirePendingFilter(before string) bson.M {
	return bson.M{
		"status":      domain.BookingPending,
		"checkinDate": bson.M{"$lt": before},
	}
}

// =============================================================================
// Guide profiles
// =============================================================================

type mongoGuideProfiles struct {
	c *docstore.Collection[domain.GuideProfile, *domain.GuideProfile]
}

func (s *mongoGuideProfiles) FindByEmail(ctx context.Context, email string) (*domain.GuideProfile, error) {
	return s.c.FindOne(ctx, bson.M{"email": email})
}

func (s *mongoGuideProfiles) Upsert(ctx context.Context, email string, patch domain.GuideProfilePatch) (*domain.GuideProfile, error) {
	return s.c.UpdateOne(ctx, bson.M{"email": email}, guideProfilePatchDoc(patch), true)
}

func guideProfilePatchDoc(patch domain.GuideProfilePatch) bson.M {
	set := bson.M{}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Languages != nil {
		set["languages"] = *patch.Languages
	}
	if patch.Expertise != nil {
		set["expertise"] = *patch.Expertise
	}
	if patch.BasePrice != nil {
		set["basePrice"] = *patch.BasePrice
	}
	return set
}

func (s *mongoGuideProfiles) AddAvailability(ctx context.Context, email string, slot domain.AvailabilitySlot) (*domain.GuideProfile, error) {
	return s.c.PushToArray(ctx, bson.M{"email": email}, "availability", slot, true)
}

func (s *mongoGuideProfiles) AddPortfolioItem(ctx context.Context, email string, item domain.PortfolioItem) (*domain.GuideProfile, error) {
	return s.c.PushToArray(ctx, bson.M{"email": email}, "portfolio", item, true)
}

// =============================================================================
// Guide hires
// =============================================================================

type mongoGuideHires struct {
	c *docstore.Collection[domain.GuideHire, *domain.GuideHire]
}

func (s *mongoGuideHires) Create(ctx context.Context, hire *domain.GuideHire) error {
	return s.c.Insert(ctx, hire)
}

func (s *mongoGuideHires) FindByID(ctx context.Context, id string) (*domain.GuideHire, error) {
	oid, err := docstore.ParseID(id)
	if err != nil {
		return nil, err
	}
	return s.c.FindOne(ctx, bson.M{"_id": oid})
}

func (s *mongoGuideHires) ListByGuide(ctx context.Context, guideEmail string) ([]domain.GuideHire, error) {
	return s.c.FindMany(ctx, bson.M{"guideEmail": guideEmail}, newestFirst)
}

func (s *mongoGuideHires) Update(ctx context.Context, id string, patch domain.GuideHirePatch) (*domain.GuideHire, error) {
	set := bson.M{}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.AgreedPrice != nil {
		set["agreedPrice"] = *patch.AgreedPrice
	}
	return s.c.UpdateByID(ctx, id, set)
}
