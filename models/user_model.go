package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TravelStatus is a user's currently announced journey. When IsActive is true
// the station, date, train and class fields must all be set; the API layer
// validates this, the schema does not.
type TravelStatus struct {
	BoardingStation        string     `json:"boardingStation" bson:"boardingStation"`
	BoardingStationName    string     `json:"boardingStationName" bson:"boardingStationName"`
	DestinationStation     string     `json:"destinationStation" bson:"destinationStation"`
	DestinationStationName string     `json:"destinationStationName" bson:"destinationStationName"`
	TravelDate             *time.Time `json:"travelDate" bson:"travelDate,omitempty"`
	TrainNumber            string     `json:"trainNumber" bson:"trainNumber"`
	TrainName              string     `json:"trainName" bson:"trainName"`
	PreferredClass         string     `json:"preferredClass" bson:"preferredClass"`
	IsActive               bool       `json:"isActive" bson:"isActive"`
}

type User struct {
	ID               primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Username         string               `json:"username" bson:"username"`
	Email            string               `json:"email" bson:"email"`
	Password         string               `json:"-" bson:"password"`
	Name             string               `json:"name,omitempty" bson:"name,omitempty"`
	Age              int                  `json:"age,omitempty" bson:"age,omitempty"`
	Profession       string               `json:"profession,omitempty" bson:"profession,omitempty"`
	Bio              string               `json:"bio,omitempty" bson:"bio,omitempty"`
	TravelStatus     TravelStatus         `json:"travelStatus" bson:"travelStatus"`
	Friends          []primitive.ObjectID `json:"friends" bson:"friends"`
	ProfileCompleted bool                 `json:"profileCompleted" bson:"profileCompleted"`
	Online           bool                 `json:"online" bson:"online"`
	LastSeen         time.Time            `json:"lastSeen" bson:"lastSeen"`
	CreatedAt        time.Time            `json:"createdAt" bson:"createdAt"`
}

// HasFriend reports whether id is in the user's friends set, by string compare.
func (u *User) HasFriend(id primitive.ObjectID) bool {
	hex := id.Hex()
	for _, f := range u.Friends {
		if f.Hex() == hex {
			return true
		}
	}
	return false
}
