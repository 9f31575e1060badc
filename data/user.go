package data

// User is a bot user and its custodial wallet address
type User struct {
	ID     int64
	Wallet string
}

// Telegram holds the display fields of a Telegram account
type Telegram struct {
	ID        int64
	UserName  string
	FirstName string
	LastName  string
}
