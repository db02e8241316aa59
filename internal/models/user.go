package models

import "time"

// Roles a user account can hold. Admins may mutate any recipe.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered user. Email is the login identifier.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(150);not null" validate:"required,min=3,max=150"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(254);not null" validate:"required,email"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150)" validate:"required,max=150"`
	LastName  string    `json:"last_name" gorm:"type:varchar(150)" validate:"required,max=150"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null" validate:"required,min=6"` // bcrypt hash
	Role      string    `json:"-" gorm:"type:varchar(20);not null;default:user"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Subscription is a subscriber -> author follow relation.
// The composite unique index makes a duplicate subscription a
// constraint violation, and the check constraint forbids
// self-subscription at the storage layer, so concurrent toggles
// cannot slip a duplicate or a self-follow past the application.
type Subscription struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	SubscriberID uint      `json:"subscriber_id" gorm:"not null;uniqueIndex:ux_subscriptions_pair;check:chk_subscriptions_not_self,subscriber_id <> author_id"`
	AuthorID     uint      `json:"author_id" gorm:"not null;uniqueIndex:ux_subscriptions_pair"`
	CreatedAt    time.Time `json:"created_at"`

	Subscriber *User `json:"-" gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
	Author     *User `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}
