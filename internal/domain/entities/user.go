package entities

// User is the owner of farms. LanguagePreference may be empty.
type User struct {
	ID                 int64
	Name               string
	LanguagePreference string
	DiscordID          string
}
