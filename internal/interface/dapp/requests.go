package dapp

// RegisterAirlineRequest registers a new airline
type RegisterAirlineRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required,eth_addr"`
}

// VoteAirlineRequest casts a registered airline's vote for a candidate
type VoteAirlineRequest struct {
	Candidate string `json:"candidate" binding:"required,eth_addr"`
	Voter     string `json:"voter" binding:"required,eth_addr"`
}

// FundAirlineRequest pays an airline's participation fee
type FundAirlineRequest struct {
	Address string `json:"address" binding:"required,eth_addr"`
}

// FlightRequest names a generated flight
type FlightRequest struct {
	Flight string `json:"flight" binding:"required"`
}

// PassengerFlightRequest names a generated flight and a passenger
type PassengerFlightRequest struct {
	Flight    string `json:"flight" binding:"required"`
	Passenger string `json:"passenger" binding:"required,eth_addr"`
}

// BuyInsuranceRequest buys insurance on a flight
type BuyInsuranceRequest struct {
	Flight    string `json:"flight" binding:"required"`
	Passenger string `json:"passenger" binding:"required,eth_addr"`
	Amount    string `json:"amount" binding:"required,ether"`
}
