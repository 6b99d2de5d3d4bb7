package domain

import "time"

// Gym is a tenant. Its ID is chosen by the super admin and doubles as the
// identifier managers and members type at login.
type Gym struct {
	ID                  string    `bson:"_id" json:"id"`
	Name                string    `bson:"name" json:"name"`
	ManagerPasswordHash string    `bson:"managerPasswordHash" json:"-"`
	CreatedAt           time.Time `bson:"createdAt" json:"createdAt"`

	ProfilePhoto string `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	Email        string `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	City         string `bson:"city,omitempty" json:"city,omitempty"`
	State        string `bson:"state,omitempty" json:"state,omitempty"`
}

// GymSettings are per-gym preferences edited by the manager.
type GymSettings struct {
	GymID              string `bson:"_id" json:"gymId"`
	AutoNotifyWhatsApp bool   `bson:"autoNotifyWhatsApp" json:"autoNotifyWhatsApp"`
	GymName            string `bson:"gymName" json:"gymName"`
	TermsAndConditions string `bson:"termsAndConditions,omitempty" json:"termsAndConditions,omitempty"`
}

// DefaultTerms is shown to members until a manager saves their own terms.
const DefaultTerms = "1. No outside weights. 2. Re-rack weights after use."

// DefaultSettings returns the settings used for a gym that never saved any.
func DefaultSettings(gym Gym) GymSettings {
	return GymSettings{
		GymID:              gym.ID,
		AutoNotifyWhatsApp: false,
		GymName:            gym.Name,
		TermsAndConditions: DefaultTerms,
	}
}
