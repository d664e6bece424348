// Package structs defines recipe domain models.
package structs

import (
	"encoding/json"
	"time"
)

// Recipe categories.
const (
	CategoryBreakfast = "Breakfast"
	CategoryLunch     = "Lunch"
	CategoryDinner    = "Dinner"
	CategoryDessert   = "Dessert"
	CategorySnack     = "Snack"
	CategoryDrink     = "Drink"
)

// Difficulty levels.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name" validate:"required,max=255"`
	Amount string `json:"amount" validate:"required,max=100"`
}

// Author is the public part of the profile that wrote a recipe.
type Author struct {
	Username       string `json:"username"`
	Slug           string `json:"slug"`
	ProfilePicture string `json:"profile_picture"`
}

// Recipe is a recipe as seen by a viewer.
type Recipe struct {
	ID              string       `json:"-"`
	Slug            string       `json:"slug"`
	Name            string       `json:"name"`
	Description     string       `json:"description"`
	Category        string       `json:"category"`
	Difficulty      string       `json:"difficulty"`
	PreparationTime int          `json:"preparation_time"`
	Image           string       `json:"image"`
	AuthorID        string       `json:"-"`
	Author          *Author      `json:"author"`
	Ingredients     []Ingredient `json:"ingredients,omitempty"`
	LikesCount      int          `json:"likes_count"`
	SavesCount      int          `json:"saves_count"`
	IsLiked         bool         `json:"is_liked"`
	IsSaved         bool         `json:"is_saved"`
	CreatedAt       time.Time    `json:"created_at"`
}

// CreateRecipeBody is the recipe creation request. Ingredients are decoded
// separately so a malformed list can be told apart from a malformed body.
type CreateRecipeBody struct {
	Name            string          `json:"name" validate:"required,max=255"`
	Description     string          `json:"description" validate:"required"`
	Category        string          `json:"category" validate:"omitempty,oneof=Breakfast Lunch Dinner Dessert Snack Drink"`
	Difficulty      string          `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
	PreparationTime int             `json:"preparation_time" validate:"min=0,max=10080"`
	Image           string          `json:"image" validate:"omitempty,max=500"`
	Ingredients     json.RawMessage `json:"ingredients"`
}

// Document is the search index entry of a recipe.
type Document struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// ListFilter narrows a recipe listing. Zero fields are ignored.
type ListFilter struct {
	Category string
	AuthorID string
	SavedBy  string
	NameLike string
	IDs      []string
}
