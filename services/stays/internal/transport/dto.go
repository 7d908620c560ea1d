package transport

type CreateStayRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	City          string `json:"city"`
	Country       string `json:"country"`
	Address       string `json:"address"`
	PricePerNight int64  `json:"price_per_night"`
	MaxGuests     int    `json:"max_guests"`
}

type PatchStayRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	City          *string `json:"city"`
	Country       *string `json:"country"`
	Address       *string `json:"address"`
	PricePerNight *int64  `json:"price_per_night"`
	MaxGuests     *int    `json:"max_guests"`
}
