// Package structs defines profile domain models.
package structs

import "time"

// Profile is the public identity linked one-to-one with an account.
type Profile struct {
	ID             string    `json:"-"`
	AccountID      string    `json:"-"`
	Username       string    `json:"username"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profile_picture"`
	Slug           string    `json:"slug"`
	CreatedAt      time.Time `json:"-"`
}

// ProfileView is a profile with its relation counters, as seen by a viewer.
type ProfileView struct {
	*Profile
	FollowersCount int  `json:"followers_count"`
	FollowingCount int  `json:"following_count"`
	RecipesCount   int  `json:"recipes_count"`
	IsFollowed     bool `json:"is_followed"`
}

// ProfileSummary is a list entry in follower and following lists.
type ProfileSummary struct {
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture"`
	Slug           string    `json:"slug"`
	ID             string    `json:"-"`
	Since          time.Time `json:"-"`
}

// UpdateProfileBody changes the caller's profile; nil fields are kept.
type UpdateProfileBody struct {
	Username       *string `json:"username" validate:"omitempty,min=1,max=255"`
	Bio            *string `json:"bio" validate:"omitempty,max=2000"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=500"`
}
