package transport

// CreateBookingRequest is an online booking. touristEmail may be omitted;
// the signed in tourist is always the one booking.
type CreateBookingRequest struct {
	TouristEmail string `json:"touristEmail" validate:"omitempty,loosemail"`
	TouristName  string `json:"touristName" validate:"max=120"`
	HomestayID   string `json:"homestayId" validate:"required"`
	CheckinDate  string `json:"checkinDate" validate:"required,isodate"`
	CheckoutDate string `json:"checkoutDate" validate:"required,isodate"`
	Guests       int    `json:"guests" validate:"min=0,max=100"`
	TotalPrice   int64  `json:"totalPrice" validate:"required,min=1"`
}
